package handler

import (
	"net/http"

	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/logger"
	"github.com/osse101/Monsters_Go/internal/monster"
)

// MintRequest pays for a public mint in ether, e.g. {"value": "0.05"}
type MintRequest struct {
	Value string `json:"value" validate:"required,ether"`
}

// SetNameRequest renames a living monster
type SetNameRequest struct {
	Name string `json:"name"`
}

// SlayRequest slays a monster with the weapon of a Loot bag
type SlayRequest struct {
	LootID int    `json:"loot_id" validate:"required"`
	Name   string `json:"name"`
}

// TransferRequest moves a monster to another account
type TransferRequest struct {
	To string `json:"to" validate:"required,eth_addr"`
}

// MonsterResponse is the state of one monster after a write
type MonsterResponse struct {
	ID        domain.TokenID  `json:"id"`
	Owner     domain.Address  `json:"owner"`
	Name      string          `json:"name"`
	Status    string          `json:"status"`
	Slayer    *domain.Address `json:"slayer,omitempty"`
	SlainWith *domain.LootID  `json:"slain_with,omitempty"`
}

// WithdrawResponse reports the amount paid out to the administrator
type WithdrawResponse struct {
	AmountWei   string `json:"amount_wei"`
	AmountEther string `json:"amount_ether"`
}

func newMonsterResponse(m domain.Monster) MonsterResponse {
	resp := MonsterResponse{ID: m.ID, Owner: m.Owner, Name: m.Name, Status: domain.StatusAlive}
	if s, ok := m.Slain(); ok {
		resp.Status = domain.StatusSlain
		resp.Slayer = &s.Slayer
		resp.SlainWith = &s.LootID
	}
	return resp
}

// HandleMint mints a public monster for the caller
// @Summary Mint a monster
// @Description Mints a public-range monster (1-9800) for at least the mint price
// @Tags monsters
// @Accept json
// @Produce json
// @Param id path int true "Monster ID"
// @Param X-Caller-Address header string true "Caller account"
// @Param request body MintRequest true "Payment"
// @Success 201 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 402 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/monsters/{id}/mint [post]
func HandleMint(svc monster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := tokenIDParam(w, r)
		if !ok {
			return
		}
		var req MintRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Mint"); err != nil {
			return
		}
		payment, err := domain.ParseEther(req.Value)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		m, err := svc.Mint(r.Context(), caller, id, payment)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, DataResponse{Message: MsgMonsterMinted, Data: newMonsterResponse(m)})
	}
}

// HandleReservedMint mints a reserved monster for the administrator
// @Summary Mint a reserved monster
// @Tags monsters
// @Produce json
// @Param id path int true "Monster ID (9801-10000)"
// @Param X-Caller-Address header string true "Administrator account"
// @Success 201 {object} DataResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/monsters/{id}/reserved-mint [post]
func HandleReservedMint(svc monster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := tokenIDParam(w, r)
		if !ok {
			return
		}

		m, err := svc.ReservedMint(r.Context(), caller, id)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, DataResponse{Message: MsgMonsterMinted, Data: newMonsterResponse(m)})
	}
}

// HandleClaimWithLoot mints the monster sharing its id with a Loot bag the caller owns
// @Summary Claim a monster with Loot
// @Tags loot
// @Produce json
// @Param lootId path int true "Loot ID (1-8000)"
// @Param X-Caller-Address header string true "Loot owner"
// @Success 201 {object} DataResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/loot/{lootId}/claim [post]
func HandleClaimWithLoot(svc monster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		lootID, ok := lootIDParam(w, r)
		if !ok {
			return
		}

		m, err := svc.MintWithLoot(r.Context(), caller, lootID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, DataResponse{Message: MsgMonsterMinted, Data: newMonsterResponse(m)})
	}
}

// HandleSetName renames a living monster owned by the caller
// @Summary Rename a monster
// @Tags monsters
// @Accept json
// @Produce json
// @Param id path int true "Monster ID"
// @Param X-Caller-Address header string true "Owner account"
// @Param request body SetNameRequest true "New name (at most 32 bytes)"
// @Success 200 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/monsters/{id}/name [put]
func HandleSetName(svc monster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := tokenIDParam(w, r)
		if !ok {
			return
		}
		var req SetNameRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Set name"); err != nil {
			return
		}

		m, err := svc.SetName(r.Context(), caller, id, req.Name)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Message: MsgMonsterRenamed, Data: newMonsterResponse(m)})
	}
}

// HandleSlay slays a monster with a Loot bag's weapon
// @Summary Slay a monster
// @Description The caller must own the monster and the Loot bag, and the bag's weapon must be one of the monster's weaknesses
// @Tags monsters
// @Accept json
// @Produce json
// @Param id path int true "Monster ID"
// @Param X-Caller-Address header string true "Owner account"
// @Param request body SlayRequest true "Loot bag and final name"
// @Success 200 {object} DataResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/monsters/{id}/slay [post]
func HandleSlay(svc monster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := tokenIDParam(w, r)
		if !ok {
			return
		}
		var req SlayRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Slay"); err != nil {
			return
		}

		m, err := svc.Slay(r.Context(), caller, id, domain.LootID(req.LootID), req.Name)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		logger.FromContext(r.Context()).Info("Monster slain via API", "token_id", id, "loot_id", req.LootID)
		respondJSON(w, http.StatusOK, DataResponse{Message: MsgMonsterSlain, Data: newMonsterResponse(m)})
	}
}

// HandleTransfer moves a monster to another account
// @Summary Transfer a monster
// @Tags monsters
// @Accept json
// @Produce json
// @Param id path int true "Monster ID"
// @Param X-Caller-Address header string true "Owner account"
// @Param request body TransferRequest true "Recipient"
// @Success 200 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/monsters/{id}/transfer [post]
func HandleTransfer(svc monster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := tokenIDParam(w, r)
		if !ok {
			return
		}
		var req TransferRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Transfer"); err != nil {
			return
		}
		to, err := domain.ParseAddress(req.To)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		m, err := svc.Transfer(r.Context(), caller, to, id)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Message: MsgMonsterTransferred, Data: newMonsterResponse(m)})
	}
}

// HandleWithdraw pays the whole custody balance to the administrator
// @Summary Withdraw custody
// @Tags admin
// @Produce json
// @Param X-Caller-Address header string true "Administrator account"
// @Success 200 {object} DataResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/admin/withdraw [post]
func HandleWithdraw(svc monster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}

		amount, err := svc.Withdraw(r.Context(), caller)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{
			Message: MsgCustodyWithdrawn,
			Data:    WithdrawResponse{AmountWei: amount.String(), AmountEther: domain.FormatEther(amount)},
		})
	}
}

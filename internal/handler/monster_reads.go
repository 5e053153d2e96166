package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/monster"
	"github.com/osse101/Monsters_Go/internal/render"
)

// MetadataResponse carries the token URI and its decoded document
type MetadataResponse struct {
	TokenURI string          `json:"token_uri"`
	Metadata render.Document `json:"metadata"`
}

// BalanceResponse counts the monsters an account owns
type BalanceResponse struct {
	Owner   domain.Address `json:"owner"`
	Balance int            `json:"balance"`
}

// HandleGetCollection returns the collection summary
// @Summary Collection summary
// @Tags monsters
// @Produce json
// @Success 200 {object} monster.Collection
// @Router /api/v1/collection [get]
func HandleGetCollection(svc monster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, svc.GetCollection(r.Context()))
	}
}

// HandleGetMonster returns owner, name and status of a token, minted or not
// @Summary Get a monster
// @Tags monsters
// @Produce json
// @Param id path int true "Monster ID"
// @Success 200 {object} monster.View
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/monsters/{id} [get]
func HandleGetMonster(svc monster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := tokenIDParam(w, r)
		if !ok {
			return
		}
		view, err := svc.GetMonster(r.Context(), id)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, view)
	}
}

// HandleGetMetadata returns the base64 JSON token URI
// @Summary Token metadata
// @Tags monsters
// @Produce json
// @Param id path int true "Monster ID"
// @Success 200 {object} MetadataResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/monsters/{id}/metadata [get]
func HandleGetMetadata(svc monster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := tokenIDParam(w, r)
		if !ok {
			return
		}
		md, err := svc.TokenMetadata(r.Context(), id)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, MetadataResponse{TokenURI: md.DataURI, Metadata: md.Document})
	}
}

// HandleGetImage serves the decoded SVG of a token
// @Summary Token image
// @Tags monsters
// @Produce image/svg+xml
// @Param id path int true "Monster ID"
// @Success 200 {string} string "SVG document"
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/monsters/{id}/image.svg [get]
func HandleGetImage(svc monster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := tokenIDParam(w, r)
		if !ok {
			return
		}
		md, err := svc.TokenMetadata(r.Context(), id)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(md.SVG))
	}
}

// HandleCanSlay reports whether a Loot bag's weapon can slay a monster
// @Summary Check slay eligibility
// @Tags monsters
// @Produce json
// @Param id path int true "Monster ID"
// @Param lootId path int true "Loot ID"
// @Success 200 {object} monster.SlayCheck
// @Router /api/v1/monsters/{id}/can-slay/{lootId} [get]
func HandleCanSlay(svc monster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := tokenIDParam(w, r)
		if !ok {
			return
		}
		lootID, ok := lootIDParam(w, r)
		if !ok {
			return
		}
		check, err := svc.CanSlay(r.Context(), id, lootID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, check)
	}
}

// HandleGetLoot returns a Loot bag's owner and weapon
// @Summary Get a Loot bag
// @Tags loot
// @Produce json
// @Param lootId path int true "Loot ID"
// @Success 200 {object} monster.LootView
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/loot/{lootId} [get]
func HandleGetLoot(svc monster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lootID, ok := lootIDParam(w, r)
		if !ok {
			return
		}
		view, err := svc.GetLoot(r.Context(), lootID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, view)
	}
}

// HandleGetBalance counts the monsters an account owns
// @Summary Owner balance
// @Tags monsters
// @Produce json
// @Param address path string true "Owner account"
// @Success 200 {object} BalanceResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/owners/{address}/balance [get]
func HandleGetBalance(svc monster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := domain.ParseAddress(chi.URLParam(r, "address"))
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidAddress)
			return
		}
		respondJSON(w, http.StatusOK, BalanceResponse{Owner: owner, Balance: svc.BalanceOf(r.Context(), owner)})
	}
}

// HandleGetCacheStats reports the metadata cache counters
// @Summary Metadata cache stats
// @Tags admin
// @Produce json
// @Success 200 {object} monster.CacheStats
// @Router /api/v1/admin/cache/stats [get]
func HandleGetCacheStats(svc monster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, svc.GetCacheStats())
	}
}

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/logger"
)

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// DecodeAndValidateRequest decodes a JSON request body and validates it.
// If it returns an error the response has already been written and the handler should return.
//
// Example usage:
//
//	var req MintRequest
//	if err := DecodeAndValidateRequest(r, w, &req, "Mint"); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Warn(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}

	log.Debug(fmt.Sprintf("%s request decoded", actionName))

	if err := ValidateRequest(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FieldErrors(err),
		})
		return err
	}

	return nil
}

// callerFromRequest reads the account the gateway authenticated.
// If ok is false the response has already been written.
func callerFromRequest(w http.ResponseWriter, r *http.Request) (domain.Address, bool) {
	caller, err := domain.ParseAddress(r.Header.Get(HeaderCallerAddress))
	if err != nil || caller.IsZero() {
		logger.FromContext(r.Context()).Warn("Rejected caller header", "header", HeaderCallerAddress)
		respondError(w, http.StatusBadRequest, ErrMsgMissingCaller)
		return domain.Address{}, false
	}
	return caller, true
}

// tokenIDParam parses the {id} path segment. Range checks belong to the service.
func tokenIDParam(w http.ResponseWriter, r *http.Request) (domain.TokenID, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidTokenID)
		return 0, false
	}
	return domain.TokenID(id), true
}

// lootIDParam parses the {lootId} path segment.
func lootIDParam(w http.ResponseWriter, r *http.Request) (domain.LootID, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "lootId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidLootID)
		return 0, false
	}
	return domain.LootID(id), true
}

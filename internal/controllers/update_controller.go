package controllers

import (
	"errors"
	"minedash/internal/providers"
	"minedash/internal/repository"
	"minedash/internal/services"
	"net/http"

	"github.com/spf13/cast"
)

type UpdateController struct {
	logger  providers.Logger
	service services.LedgerServiceInterface
}

func NewUpdateController(logger providers.Logger, service services.LedgerServiceInterface) *UpdateController {
	return &UpdateController{
		logger:  logger,
		service: service,
	}
}

// Update pulls the ledger of ?character_id and answers {"result": "..."}.
func (uc *UpdateController) Update(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("character_id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "character_id is required")
		return
	}
	characterID, err := cast.ToInt64E(raw)
	if err != nil || characterID <= 0 {
		writeError(w, http.StatusBadRequest, "character_id must be a positive integer")
		return
	}

	result, err := uc.service.UpdateCharacter(r.Context(), characterID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, repository.ErrCharacterNotFound):
		writeError(w, http.StatusNotFound, "unknown character")
	case errors.Is(err, services.ErrUpstream):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		uc.logger.Errorf(providers.TypeGet, "update %d: %s", characterID, err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dallinbsmith/prescription-db-sub001/internal/service"
	"github.com/dallinbsmith/prescription-db-sub001/pkg/validator"
)

// RegistryHandler exposes the per-user registry. The user id always comes
// from the verified claims; there is no fallback identity and the body
// never supplies a user id.
type RegistryHandler struct {
	registryService *service.RegistryService
	logger          *zap.Logger
}

func NewRegistryHandler(registryService *service.RegistryService, logger *zap.Logger) *RegistryHandler {
	return &RegistryHandler{registryService: registryService, logger: logger}
}

func (h *RegistryHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	items, err := h.registryService.List(r.Context(), claims.UserID())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *RegistryHandler) Add(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	var input struct {
		DrugID uuid.UUID `json:"drug_id"`
		Notes  string    `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if input.DrugID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "drug_id is required")
		return
	}
	if errs := validator.ValidateNotes(input.Notes); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	entry, err := h.registryService.Add(r.Context(), claims.UserID(), input.DrugID, input.Notes)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *RegistryHandler) Check(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	drugID, ok := pathUUID(w, r, "drugID")
	if !ok {
		return
	}

	status, err := h.registryService.Check(r.Context(), claims.UserID(), drugID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *RegistryHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	drugID, ok := pathUUID(w, r, "drugID")
	if !ok {
		return
	}

	var input struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if errs := validator.ValidateNotes(input.Notes); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	entry, err := h.registryService.UpdateNotes(r.Context(), claims.UserID(), drugID, input.Notes)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *RegistryHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	drugID, ok := pathUUID(w, r, "drugID")
	if !ok {
		return
	}

	if err := h.registryService.Remove(r.Context(), claims.UserID(), drugID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

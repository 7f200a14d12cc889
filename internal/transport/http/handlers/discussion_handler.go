package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dallinbsmith/prescription-db-sub001/internal/service"
	"github.com/dallinbsmith/prescription-db-sub001/pkg/validator"
)

type DiscussionHandler struct {
	discussionService *service.DiscussionService
	logger            *zap.Logger
}

func NewDiscussionHandler(discussionService *service.DiscussionService, logger *zap.Logger) *DiscussionHandler {
	return &DiscussionHandler{discussionService: discussionService, logger: logger}
}

func (h *DiscussionHandler) ListByDrug(w http.ResponseWriter, r *http.Request) {
	drugID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	discussions, err := h.discussionService.ListByDrug(r.Context(), drugID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": discussions})
}

func (h *DiscussionHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	drugID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var input service.DiscussionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if errs := validator.ValidateDiscussion(input.Content); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	discussion, err := h.discussionService.Create(r.Context(), claims.UserID(), drugID, input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, discussion)
}

func (h *DiscussionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.discussionService.Delete(r.Context(), claims.UserID(), claims.Role, id); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

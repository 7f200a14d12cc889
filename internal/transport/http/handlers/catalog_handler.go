package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dallinbsmith/prescription-db-sub001/internal/domain"
	"github.com/dallinbsmith/prescription-db-sub001/internal/service"
	"github.com/dallinbsmith/prescription-db-sub001/pkg/validator"
)

// Query parameters with dedicated meaning in search requests. Everything
// else is treated as a categorical filter and validated against the
// repository allow-list.
var reservedSearchParams = map[string]struct{}{
	"q":      {},
	"ndc":    {},
	"limit":  {},
	"offset": {},
}

type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, logger: logger}
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	search := domain.DrugSearch{
		Query:   query.Get("q"),
		NDC:     query.Get("ndc"),
		Filters: map[string]string{},
		Limit:   50,
		Offset:  0,
	}

	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "limit must be an integer")
			return
		}
		search.Limit = n
	}
	if raw := query.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "offset must be an integer")
			return
		}
		search.Offset = n
	}

	for key, values := range query {
		if _, reserved := reservedSearchParams[key]; reserved {
			continue
		}
		if len(values) > 0 && values[0] != "" {
			search.Filters[key] = values[0]
		}
	}

	page, err := h.catalogService.Search(r.Context(), search)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *CatalogHandler) DistinctValues(w http.ResponseWriter, r *http.Request) {
	field := r.PathValue("field")

	values, err := h.catalogService.DistinctValues(r.Context(), field)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"field": field, "values": values})
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	drug, err := h.catalogService.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, drug)
}

func (h *CatalogHandler) GetByNDC(w http.ResponseWriter, r *http.Request) {
	drug, err := h.catalogService.GetByNDC(r.Context(), r.PathValue("ndc"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, drug)
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.DrugInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateDrug(input.NDC, input.Name); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	drug, err := h.catalogService.Create(r.Context(), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, drug)
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var input service.DrugInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateDrug(input.NDC, input.Name); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	drug, err := h.catalogService.Update(r.Context(), id, input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, drug)
}

func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalogService.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathUUID parses a UUID path segment, rejecting anything malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

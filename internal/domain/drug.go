package domain

import (
	"time"

	"github.com/google/uuid"
)

type Drug struct {
	ID                 uuid.UUID `json:"id"`
	NDC                string    `json:"ndc"`
	Name               string    `json:"name"`
	GenericName        string    `json:"generic_name"`
	Description        string    `json:"description"`
	Schedule           string    `json:"schedule"`
	PrescriptionStatus string    `json:"prescription_status"`
	Species            string    `json:"species"`
	DosageForm         string    `json:"dosage_form"`
	Manufacturer       string    `json:"manufacturer"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DrugSearch carries the optional predicates of one catalog search.
// Query matches free-text fields by substring; Filters holds exact-match
// categorical predicates keyed by field name, validated against the
// repository allow-list before any SQL is composed.
type DrugSearch struct {
	Query   string
	NDC     string
	Filters map[string]string
	Limit   int
	Offset  int
}

// DrugPage is one page of search results plus the unpaginated total.
type DrugPage struct {
	Items []Drug `json:"items"`
	Total int    `json:"total"`
}

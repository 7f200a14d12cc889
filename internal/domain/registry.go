package domain

import (
	"time"

	"github.com/google/uuid"
)

// RegistryEntry is a user's bookmark of one drug. At most one entry exists
// per (user, drug) pair, enforced by a database uniqueness constraint.
type RegistryEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	DrugID    uuid.UUID `json:"drug_id"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegistryItem is an entry joined with its drug summary for listing.
type RegistryItem struct {
	Entry RegistryEntry `json:"entry"`
	Drug  Drug          `json:"drug"`
}

// RegistryStatus is the result of a non-failing existence probe.
type RegistryStatus struct {
	InRegistry bool           `json:"in_registry"`
	Entry      *RegistryEntry `json:"entry,omitempty"`
}

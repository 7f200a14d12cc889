package domain

import (
	"time"

	"github.com/google/uuid"
)

// Discussion is a threaded message attached to a drug. ParentID, when set,
// references an already-existing discussion on the same drug, so threads
// are acyclic by construction.
type Discussion struct {
	ID        uuid.UUID  `json:"id"`
	DrugID    uuid.UUID  `json:"drug_id"`
	UserID    uuid.UUID  `json:"user_id"`
	Content   string     `json:"content"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dallinbsmith/prescription-db-sub001/internal/database"
	"github.com/dallinbsmith/prescription-db-sub001/internal/domain"
)

const registryColumns = "id, user_id, drug_id, notes, created_at, updated_at"

type RegistryRepo struct {
	db database.Querier
}

func NewRegistryRepo(db database.Querier) *RegistryRepo {
	return &RegistryRepo{db: db}
}

// Insert relies on the UNIQUE(user_id, drug_id) constraint to resolve
// concurrent adds for the same pair: the violation surfaces as a pg error
// the caller classifies into Conflict. No check-then-insert.
func (r *RegistryRepo) Insert(ctx context.Context, entry *domain.RegistryEntry) error {
	query := `
		INSERT INTO registry_entries (id, user_id, drug_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.UserID, entry.DrugID, entry.Notes,
		entry.CreatedAt, entry.UpdatedAt,
	)
	return err
}

func (r *RegistryRepo) Get(ctx context.Context, userID, drugID uuid.UUID) (*domain.RegistryEntry, error) {
	query := "SELECT " + registryColumns + " FROM registry_entries WHERE user_id = $1 AND drug_id = $2"
	return r.scanEntry(r.db.QueryRow(ctx, query, userID, drugID))
}

func (r *RegistryRepo) UpdateNotes(ctx context.Context, userID, drugID uuid.UUID, notes string) (*domain.RegistryEntry, error) {
	query := `
		UPDATE registry_entries SET notes = $1, updated_at = now()
		WHERE user_id = $2 AND drug_id = $3
		RETURNING ` + registryColumns
	return r.scanEntry(r.db.QueryRow(ctx, query, notes, userID, drugID))
}

// Delete reports whether a row was removed so callers can distinguish
// "removed now" from "already absent".
func (r *RegistryRepo) Delete(ctx context.Context, userID, drugID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM registry_entries WHERE user_id = $1 AND drug_id = $2`, userID, drugID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RegistryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.RegistryItem, error) {
	query := `
		SELECT e.id, e.user_id, e.drug_id, e.notes, e.created_at, e.updated_at,
		       d.id, d.ndc, d.name, d.generic_name, d.description, d.schedule,
		       d.prescription_status, d.species, d.dosage_form, d.manufacturer,
		       d.created_at, d.updated_at
		FROM registry_entries e
		JOIN drugs d ON d.id = e.drug_id
		WHERE e.user_id = $1
		ORDER BY e.created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.RegistryItem{}
	for rows.Next() {
		var it domain.RegistryItem
		err := rows.Scan(
			&it.Entry.ID, &it.Entry.UserID, &it.Entry.DrugID, &it.Entry.Notes,
			&it.Entry.CreatedAt, &it.Entry.UpdatedAt,
			&it.Drug.ID, &it.Drug.NDC, &it.Drug.Name, &it.Drug.GenericName,
			&it.Drug.Description, &it.Drug.Schedule, &it.Drug.PrescriptionStatus,
			&it.Drug.Species, &it.Drug.DosageForm, &it.Drug.Manufacturer,
			&it.Drug.CreatedAt, &it.Drug.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *RegistryRepo) scanEntry(row pgx.Row) (*domain.RegistryEntry, error) {
	var e domain.RegistryEntry
	err := row.Scan(&e.ID, &e.UserID, &e.DrugID, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

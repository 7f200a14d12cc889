package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dallinbsmith/prescription-db-sub001/internal/database"
	"github.com/dallinbsmith/prescription-db-sub001/internal/domain"
)

const drugColumns = "id, ndc, name, generic_name, description, schedule, prescription_status, species, dosage_form, manufacturer, created_at, updated_at"

// categoricalFields is the fixed allow-list of fields usable as equality
// predicates and for distinct-value enumeration. Column names in composed
// SQL come only from this table, never from caller input.
var categoricalFields = []string{"schedule", "prescription_status", "species", "dosage_form", "manufacturer"}

var categoricalColumns = map[string]string{
	"schedule":            "schedule",
	"prescription_status": "prescription_status",
	"species":             "species",
	"dosage_form":         "dosage_form",
	"manufacturer":        "manufacturer",
}

type DrugRepo struct {
	db database.Querier
}

func NewDrugRepo(db database.Querier) *DrugRepo {
	return &DrugRepo{db: db}
}

func (r *DrugRepo) Create(ctx context.Context, drug *domain.Drug) error {
	query := `
		INSERT INTO drugs (id, ndc, name, generic_name, description, schedule, prescription_status, species, dosage_form, manufacturer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		drug.ID, drug.NDC, drug.Name, drug.GenericName, drug.Description,
		drug.Schedule, drug.PrescriptionStatus, drug.Species, drug.DosageForm,
		drug.Manufacturer, drug.CreatedAt, drug.UpdatedAt,
	)
	return err
}

func (r *DrugRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Drug, error) {
	return r.scanDrug(r.db.QueryRow(ctx, "SELECT "+drugColumns+" FROM drugs WHERE id = $1", id))
}

func (r *DrugRepo) GetByNDC(ctx context.Context, ndc string) (*domain.Drug, error) {
	return r.scanDrug(r.db.QueryRow(ctx, "SELECT "+drugColumns+" FROM drugs WHERE ndc = $1", ndc))
}

func (r *DrugRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM drugs WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// Search composes a parameterized query from the supplied predicates only.
// Omitted filters contribute no clause; a filter key outside the allow-list
// fails with ErrInvalidArgument before any SQL runs.
func (r *DrugRepo) Search(ctx context.Context, search domain.DrugSearch) (*domain.DrugPage, error) {
	where, args, err := buildSearchFilters(search)
	if err != nil {
		return nil, err
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM drugs"+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM drugs%s ORDER BY name, id LIMIT $%d OFFSET $%d",
		drugColumns, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, search.Limit, search.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.Drug{}
	for rows.Next() {
		var d domain.Drug
		if err := scanDrugFields(rows, &d); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.DrugPage{Items: items, Total: total}, nil
}

// DistinctValues enumerates observed values of one allow-listed categorical
// field, ascending, empty values excluded.
func (r *DrugRepo) DistinctValues(ctx context.Context, field string) ([]string, error) {
	col, ok := categoricalColumns[field]
	if !ok {
		return nil, fmt.Errorf("%w: field %q is not enumerable", domain.ErrInvalidArgument, field)
	}

	query := fmt.Sprintf("SELECT DISTINCT %s FROM drugs WHERE %s <> '' ORDER BY %s", col, col, col)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *DrugRepo) Update(ctx context.Context, drug *domain.Drug) error {
	query := `
		UPDATE drugs
		SET ndc = $1, name = $2, generic_name = $3, description = $4, schedule = $5,
		    prescription_status = $6, species = $7, dosage_form = $8, manufacturer = $9,
		    updated_at = now()
		WHERE id = $10`

	tag, err := r.db.Exec(ctx, query,
		drug.NDC, drug.Name, drug.GenericName, drug.Description, drug.Schedule,
		drug.PrescriptionStatus, drug.Species, drug.DosageForm, drug.Manufacturer,
		drug.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DrugRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM drugs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// buildSearchFilters turns the supplied predicates into a WHERE clause with
// $n placeholders. Identifiers come from the fixed allow-list; caller input
// only ever lands in the argument slice.
func buildSearchFilters(search domain.DrugSearch) (string, []any, error) {
	for key := range search.Filters {
		if _, ok := categoricalColumns[key]; !ok {
			return "", nil, fmt.Errorf("%w: unknown filter field %q", domain.ErrInvalidArgument, key)
		}
	}

	var clauses []string
	var args []any

	if search.Query != "" {
		args = append(args, "%"+search.Query+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR generic_name ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}
	if search.NDC != "" {
		args = append(args, search.NDC)
		clauses = append(clauses, fmt.Sprintf("ndc = $%d", len(args)))
	}
	for _, field := range categoricalFields {
		value, ok := search.Filters[field]
		if !ok {
			continue
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", categoricalColumns[field], len(args)))
	}

	if len(clauses) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func (r *DrugRepo) scanDrug(row pgx.Row) (*domain.Drug, error) {
	var d domain.Drug
	err := scanDrugFields(row, &d)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanDrugFields(row pgx.Row, d *domain.Drug) error {
	return row.Scan(
		&d.ID, &d.NDC, &d.Name, &d.GenericName, &d.Description,
		&d.Schedule, &d.PrescriptionStatus, &d.Species, &d.DosageForm,
		&d.Manufacturer, &d.CreatedAt, &d.UpdatedAt,
	)
}

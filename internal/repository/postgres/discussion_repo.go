package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dallinbsmith/prescription-db-sub001/internal/database"
	"github.com/dallinbsmith/prescription-db-sub001/internal/domain"
)

const discussionColumns = "id, drug_id, user_id, content, parent_id, created_at, updated_at"

type DiscussionRepo struct {
	db database.Querier
}

func NewDiscussionRepo(db database.Querier) *DiscussionRepo {
	return &DiscussionRepo{db: db}
}

func (r *DiscussionRepo) Create(ctx context.Context, discussion *domain.Discussion) error {
	query := `
		INSERT INTO discussions (id, drug_id, user_id, content, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		discussion.ID, discussion.DrugID, discussion.UserID, discussion.Content,
		discussion.ParentID, discussion.CreatedAt, discussion.UpdatedAt,
	)
	return err
}

func (r *DiscussionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Discussion, error) {
	var d domain.Discussion
	err := r.db.QueryRow(ctx, "SELECT "+discussionColumns+" FROM discussions WHERE id = $1", id).Scan(
		&d.ID, &d.DrugID, &d.UserID, &d.Content, &d.ParentID, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DiscussionRepo) ListByDrug(ctx context.Context, drugID uuid.UUID) ([]domain.Discussion, error) {
	query := "SELECT " + discussionColumns + " FROM discussions WHERE drug_id = $1 ORDER BY created_at, id"
	rows, err := r.db.Query(ctx, query, drugID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	discussions := []domain.Discussion{}
	for rows.Next() {
		var d domain.Discussion
		if err := rows.Scan(&d.ID, &d.DrugID, &d.UserID, &d.Content, &d.ParentID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		discussions = append(discussions, d)
	}
	return discussions, rows.Err()
}

func (r *DiscussionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM discussions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

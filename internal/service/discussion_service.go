package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dallinbsmith/prescription-db-sub001/internal/database"
	"github.com/dallinbsmith/prescription-db-sub001/internal/domain"
	"github.com/dallinbsmith/prescription-db-sub001/internal/repository"
)

// DiscussionNotifier receives discussion events for the live feed. The ws
// hub implements it; a nil notifier disables the feed.
type DiscussionNotifier interface {
	DiscussionCreated(discussion *domain.Discussion)
	DiscussionDeleted(drugID, discussionID uuid.UUID)
}

type DiscussionService struct {
	db       database.Querier
	repos    repository.Factory
	tx       TxRunner
	notifier DiscussionNotifier
	timeout  time.Duration
}

func NewDiscussionService(db database.Querier, repos repository.Factory, tx TxRunner, notifier DiscussionNotifier, timeout time.Duration) *DiscussionService {
	return &DiscussionService{db: db, repos: repos, tx: tx, notifier: notifier, timeout: timeout}
}

type DiscussionInput struct {
	Content  string     `json:"content"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

// Create posts a message on a drug's thread. Replies may only reference an
// existing parent on the same drug, so threads stay acyclic. Validation
// and insert share one transaction.
func (s *DiscussionService) Create(ctx context.Context, authorID, drugID uuid.UUID, input DiscussionInput) (*domain.Discussion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var created *domain.Discussion
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		exists, err := s.repos.Drugs(tx).Exists(ctx, drugID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: drug %s", domain.ErrNotFound, drugID)
		}

		discussions := s.repos.Discussions(tx)

		if input.ParentID != nil {
			parent, err := discussions.GetByID(ctx, *input.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return fmt.Errorf("%w: parent discussion %s", domain.ErrNotFound, *input.ParentID)
			}
			if parent.DrugID != drugID {
				return fmt.Errorf("%w: parent discussion belongs to a different drug", domain.ErrInvalidArgument)
			}
		}

		now := time.Now()
		d := &domain.Discussion{
			ID:        uuid.New(),
			DrugID:    drugID,
			UserID:    authorID,
			Content:   input.Content,
			ParentID:  input.ParentID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := discussions.Create(ctx, d); err != nil {
			return err
		}
		created = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.DiscussionCreated(created)
	}
	return created, nil
}

func (s *DiscussionService) ListByDrug(ctx context.Context, drugID uuid.UUID) ([]domain.Discussion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	exists, err := s.repos.Drugs(s.db).Exists(ctx, drugID)
	if err != nil {
		return nil, database.Classify(err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: drug %s", domain.ErrNotFound, drugID)
	}

	discussions, err := s.repos.Discussions(s.db).ListByDrug(ctx, drugID)
	if err != nil {
		return nil, database.Classify(err)
	}
	return discussions, nil
}

// Delete removes a message. Only the author or an admin may delete; anyone
// else is Forbidden regardless of whether they can see the message.
func (s *DiscussionService) Delete(ctx context.Context, actorID uuid.UUID, actorRole domain.Role, discussionID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	discussions := s.repos.Discussions(s.db)

	discussion, err := discussions.GetByID(ctx, discussionID)
	if err != nil {
		return database.Classify(err)
	}
	if discussion == nil {
		return fmt.Errorf("%w: discussion %s", domain.ErrNotFound, discussionID)
	}
	if discussion.UserID != actorID && actorRole != domain.RoleAdmin {
		return fmt.Errorf("%w: not the author", domain.ErrForbidden)
	}

	if err := discussions.Delete(ctx, discussionID); err != nil {
		return database.Classify(err)
	}

	if s.notifier != nil {
		s.notifier.DiscussionDeleted(discussion.DrugID, discussionID)
	}
	return nil
}

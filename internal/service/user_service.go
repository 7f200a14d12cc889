package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dallinbsmith/prescription-db-sub001/internal/database"
	"github.com/dallinbsmith/prescription-db-sub001/internal/domain"
	"github.com/dallinbsmith/prescription-db-sub001/internal/repository"
)

// UserService is the admin-only user management surface.
type UserService struct {
	db      database.Querier
	repos   repository.Factory
	timeout time.Duration
}

func NewUserService(db database.Querier, repos repository.Factory, timeout time.Duration) *UserService {
	return &UserService{db: db, repos: repos, timeout: timeout}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	users, err := s.repos.Users(s.db).List(ctx)
	if err != nil {
		return nil, database.Classify(err)
	}
	return users, nil
}

// UpdateRole changes a user's role. An admin cannot change their own role,
// so the last admin cannot lock everyone out by accident.
func (s *UserService) UpdateRole(ctx context.Context, actorID, targetID uuid.UUID, role domain.Role) (*domain.User, error) {
	if actorID == targetID {
		return nil, fmt.Errorf("%w: cannot change your own role", domain.ErrInvalidArgument)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.repos.Users(s.db).UpdateRole(ctx, targetID, role)
	if err != nil {
		return nil, database.Classify(err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, targetID)
	}
	return user, nil
}

// Delete removes a user and, via cascading foreign keys, their registry
// entries and discussions. Self-deletion is rejected.
func (s *UserService) Delete(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return fmt.Errorf("%w: cannot delete your own account", domain.ErrInvalidArgument)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return database.Classify(s.repos.Users(s.db).Delete(ctx, targetID))
}

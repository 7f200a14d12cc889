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

// TxRunner wraps a unit of work in one transaction. Implemented by
// database.Coordinator.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// RegistryService owns the per-user drug registry. Every operation takes
// the user id from verified claims, never from the request body, and the
// at-most-one-entry-per-pair invariant is enforced by the storage
// constraint rather than a check-then-insert.
type RegistryService struct {
	db      database.Querier
	repos   repository.Factory
	tx      TxRunner
	timeout time.Duration
}

func NewRegistryService(db database.Querier, repos repository.Factory, tx TxRunner, timeout time.Duration) *RegistryService {
	return &RegistryService{db: db, repos: repos, tx: tx, timeout: timeout}
}

// Add bookmarks a drug for the user. The drug-existence check and the
// insert run in one transaction; a concurrent add for the same pair loses
// on the unique constraint and observes Conflict.
func (s *RegistryService) Add(ctx context.Context, userID, drugID uuid.UUID, notes string) (*domain.RegistryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var entry *domain.RegistryEntry
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		exists, err := s.repos.Drugs(tx).Exists(ctx, drugID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: drug %s", domain.ErrNotFound, drugID)
		}

		now := time.Now()
		e := &domain.RegistryEntry{
			ID:        uuid.New(),
			UserID:    userID,
			DrugID:    drugID,
			Notes:     notes,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repos.Registry(tx).Insert(ctx, e); err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Remove deletes the user's entry for a drug. Removing an absent entry is
// NotFound so callers can tell "already absent" from "removed now".
func (s *RegistryService) Remove(ctx context.Context, userID, drugID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	removed, err := s.repos.Registry(s.db).Delete(ctx, userID, drugID)
	if err != nil {
		return database.Classify(err)
	}
	if !removed {
		return fmt.Errorf("%w: no registry entry for drug %s", domain.ErrNotFound, drugID)
	}
	return nil
}

func (s *RegistryService) UpdateNotes(ctx context.Context, userID, drugID uuid.UUID, notes string) (*domain.RegistryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entry, err := s.repos.Registry(s.db).UpdateNotes(ctx, userID, drugID, notes)
	if err != nil {
		return nil, database.Classify(err)
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: no registry entry for drug %s", domain.ErrNotFound, drugID)
	}
	return entry, nil
}

// Check is a non-failing existence probe.
func (s *RegistryService) Check(ctx context.Context, userID, drugID uuid.UUID) (*domain.RegistryStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entry, err := s.repos.Registry(s.db).Get(ctx, userID, drugID)
	if err != nil {
		return nil, database.Classify(err)
	}
	return &domain.RegistryStatus{InRegistry: entry != nil, Entry: entry}, nil
}

func (s *RegistryService) List(ctx context.Context, userID uuid.UUID) ([]domain.RegistryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err := s.repos.Registry(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, database.Classify(err)
	}
	return items, nil
}

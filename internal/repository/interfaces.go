package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dallinbsmith/prescription-db-sub001/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type DrugRepository interface {
	Create(ctx context.Context, drug *domain.Drug) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Drug, error)
	GetByNDC(ctx context.Context, ndc string) (*domain.Drug, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Search(ctx context.Context, search domain.DrugSearch) (*domain.DrugPage, error)
	DistinctValues(ctx context.Context, field string) ([]string, error)
	Update(ctx context.Context, drug *domain.Drug) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type RegistryRepository interface {
	Insert(ctx context.Context, entry *domain.RegistryEntry) error
	Get(ctx context.Context, userID, drugID uuid.UUID) (*domain.RegistryEntry, error)
	UpdateNotes(ctx context.Context, userID, drugID uuid.UUID, notes string) (*domain.RegistryEntry, error)
	Delete(ctx context.Context, userID, drugID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.RegistryItem, error)
}

type DiscussionRepository interface {
	Create(ctx context.Context, discussion *domain.Discussion) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Discussion, error)
	ListByDrug(ctx context.Context, drugID uuid.UUID) ([]domain.Discussion, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

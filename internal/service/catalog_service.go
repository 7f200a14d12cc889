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

// Search page size bounds. Out-of-range input is rejected, not clamped, so
// client bugs surface instead of silently returning a different page.
const (
	searchLimitMin = 1
	searchLimitMax = 200
)

type CatalogService struct {
	db      database.Querier
	repos   repository.Factory
	timeout time.Duration
}

func NewCatalogService(db database.Querier, repos repository.Factory, timeout time.Duration) *CatalogService {
	return &CatalogService{db: db, repos: repos, timeout: timeout}
}

func (s *CatalogService) Search(ctx context.Context, search domain.DrugSearch) (*domain.DrugPage, error) {
	if search.Limit < searchLimitMin || search.Limit > searchLimitMax {
		return nil, fmt.Errorf("%w: limit must be between %d and %d", domain.ErrInvalidArgument, searchLimitMin, searchLimitMax)
	}
	if search.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", domain.ErrInvalidArgument)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	page, err := s.repos.Drugs(s.db).Search(ctx, search)
	if err != nil {
		return nil, database.Classify(err)
	}
	return page, nil
}

func (s *CatalogService) DistinctValues(ctx context.Context, field string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	values, err := s.repos.Drugs(s.db).DistinctValues(ctx, field)
	if err != nil {
		return nil, database.Classify(err)
	}
	return values, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Drug, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	drug, err := s.repos.Drugs(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, database.Classify(err)
	}
	if drug == nil {
		return nil, fmt.Errorf("%w: drug %s", domain.ErrNotFound, id)
	}
	return drug, nil
}

func (s *CatalogService) GetByNDC(ctx context.Context, ndc string) (*domain.Drug, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	drug, err := s.repos.Drugs(s.db).GetByNDC(ctx, ndc)
	if err != nil {
		return nil, database.Classify(err)
	}
	if drug == nil {
		return nil, fmt.Errorf("%w: ndc %q", domain.ErrNotFound, ndc)
	}
	return drug, nil
}

type DrugInput struct {
	NDC                string `json:"ndc"`
	Name               string `json:"name"`
	GenericName        string `json:"generic_name"`
	Description        string `json:"description"`
	Schedule           string `json:"schedule"`
	PrescriptionStatus string `json:"prescription_status"`
	Species            string `json:"species"`
	DosageForm         string `json:"dosage_form"`
	Manufacturer       string `json:"manufacturer"`
}

// Create adds a catalog item. A duplicate NDC is Conflict via the unique
// index on drugs.ndc.
func (s *CatalogService) Create(ctx context.Context, input DrugInput) (*domain.Drug, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now()
	drug := &domain.Drug{
		ID:                 uuid.New(),
		NDC:                input.NDC,
		Name:               input.Name,
		GenericName:        input.GenericName,
		Description:        input.Description,
		Schedule:           input.Schedule,
		PrescriptionStatus: input.PrescriptionStatus,
		Species:            input.Species,
		DosageForm:         input.DosageForm,
		Manufacturer:       input.Manufacturer,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repos.Drugs(s.db).Create(ctx, drug); err != nil {
		return nil, fmt.Errorf("creating drug: %w", database.Classify(err))
	}
	return drug, nil
}

func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, input DrugInput) (*domain.Drug, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	drugs := s.repos.Drugs(s.db)

	drug, err := drugs.GetByID(ctx, id)
	if err != nil {
		return nil, database.Classify(err)
	}
	if drug == nil {
		return nil, fmt.Errorf("%w: drug %s", domain.ErrNotFound, id)
	}

	drug.NDC = input.NDC
	drug.Name = input.Name
	drug.GenericName = input.GenericName
	drug.Description = input.Description
	drug.Schedule = input.Schedule
	drug.PrescriptionStatus = input.PrescriptionStatus
	drug.Species = input.Species
	drug.DosageForm = input.DosageForm
	drug.Manufacturer = input.Manufacturer
	drug.UpdatedAt = time.Now()

	if err := drugs.Update(ctx, drug); err != nil {
		return nil, database.Classify(err)
	}
	return drug, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return database.Classify(s.repos.Drugs(s.db).Delete(ctx, id))
}

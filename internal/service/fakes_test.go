package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dallinbsmith/prescription-db-sub001/internal/database"
	"github.com/dallinbsmith/prescription-db-sub001/internal/domain"
	"github.com/dallinbsmith/prescription-db-sub001/internal/repository"
)

// In-memory repository fakes. The fake factory hands out the same
// instances regardless of the querier, so transactional and plain code
// paths share state, and the tx runner funnels errors through the same
// classifier the real coordinator uses.

type fakeFactory struct {
	users       *fakeUserRepo
	drugs       *fakeDrugRepo
	registry    *fakeRegistryRepo
	discussions *fakeDiscussionRepo
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		users:       &fakeUserRepo{byID: map[uuid.UUID]*domain.User{}},
		drugs:       &fakeDrugRepo{byID: map[uuid.UUID]*domain.Drug{}},
		registry:    &fakeRegistryRepo{entries: map[[2]uuid.UUID]*domain.RegistryEntry{}},
		discussions: &fakeDiscussionRepo{byID: map[uuid.UUID]*domain.Discussion{}},
	}
}

func (f *fakeFactory) Users(database.Querier) repository.UserRepository             { return f.users }
func (f *fakeFactory) Drugs(database.Querier) repository.DrugRepository            { return f.drugs }
func (f *fakeFactory) Registry(database.Querier) repository.RegistryRepository     { return f.registry }
func (f *fakeFactory) Discussions(database.Querier) repository.DiscussionRepository { return f.discussions }

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return database.Classify(fn(ctx, nil))
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// --- users ---

type fakeUserRepo struct {
	byID map[uuid.UUID]*domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return uniqueViolation("users_email_key")
		}
	}
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := r.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	var users []domain.User
	for _, u := range r.byID {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, name string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	u.Name = name
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role domain.Role) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// --- drugs ---

type fakeDrugRepo struct {
	byID       map[uuid.UUID]*domain.Drug
	searchPage *domain.DrugPage
	searchErr  error
	lastSearch domain.DrugSearch
}

func (r *fakeDrugRepo) Create(_ context.Context, drug *domain.Drug) error {
	for _, d := range r.byID {
		if d.NDC == drug.NDC {
			return uniqueViolation("drugs_ndc_key")
		}
	}
	cp := *drug
	r.byID[drug.ID] = &cp
	return nil
}

func (r *fakeDrugRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Drug, error) {
	if d, ok := r.byID[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeDrugRepo) GetByNDC(_ context.Context, ndc string) (*domain.Drug, error) {
	for _, d := range r.byID {
		if d.NDC == ndc {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeDrugRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.byID[id]
	return ok, nil
}

func (r *fakeDrugRepo) Search(_ context.Context, search domain.DrugSearch) (*domain.DrugPage, error) {
	r.lastSearch = search
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	if r.searchPage != nil {
		return r.searchPage, nil
	}
	return &domain.DrugPage{Items: []domain.Drug{}}, nil
}

func (r *fakeDrugRepo) DistinctValues(_ context.Context, field string) ([]string, error) {
	seen := map[string]struct{}{}
	for _, d := range r.byID {
		var v string
		switch field {
		case "species":
			v = d.Species
		case "manufacturer":
			v = d.Manufacturer
		case "dosage_form":
			v = d.DosageForm
		}
		if v != "" {
			seen[v] = struct{}{}
		}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

func (r *fakeDrugRepo) Update(_ context.Context, drug *domain.Drug) error {
	if _, ok := r.byID[drug.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *drug
	r.byID[drug.ID] = &cp
	return nil
}

func (r *fakeDrugRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// --- registry ---

type fakeRegistryRepo struct {
	entries map[[2]uuid.UUID]*domain.RegistryEntry
}

func pairKey(userID, drugID uuid.UUID) [2]uuid.UUID {
	return [2]uuid.UUID{userID, drugID}
}

func (r *fakeRegistryRepo) Insert(_ context.Context, entry *domain.RegistryEntry) error {
	key := pairKey(entry.UserID, entry.DrugID)
	if _, ok := r.entries[key]; ok {
		return uniqueViolation("registry_entries_user_drug_key")
	}
	cp := *entry
	r.entries[key] = &cp
	return nil
}

func (r *fakeRegistryRepo) Get(_ context.Context, userID, drugID uuid.UUID) (*domain.RegistryEntry, error) {
	if e, ok := r.entries[pairKey(userID, drugID)]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRegistryRepo) UpdateNotes(_ context.Context, userID, drugID uuid.UUID, notes string) (*domain.RegistryEntry, error) {
	e, ok := r.entries[pairKey(userID, drugID)]
	if !ok {
		return nil, nil
	}
	e.Notes = notes
	e.UpdatedAt = time.Now()
	cp := *e
	return &cp, nil
}

func (r *fakeRegistryRepo) Delete(_ context.Context, userID, drugID uuid.UUID) (bool, error) {
	key := pairKey(userID, drugID)
	if _, ok := r.entries[key]; !ok {
		return false, nil
	}
	delete(r.entries, key)
	return true, nil
}

func (r *fakeRegistryRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.RegistryItem, error) {
	items := []domain.RegistryItem{}
	for _, e := range r.entries {
		if e.UserID == userID {
			items = append(items, domain.RegistryItem{Entry: *e})
		}
	}
	return items, nil
}

// --- discussions ---

type fakeDiscussionRepo struct {
	byID map[uuid.UUID]*domain.Discussion
}

func (r *fakeDiscussionRepo) Create(_ context.Context, d *domain.Discussion) error {
	cp := *d
	r.byID[d.ID] = &cp
	return nil
}

func (r *fakeDiscussionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Discussion, error) {
	if d, ok := r.byID[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeDiscussionRepo) ListByDrug(_ context.Context, drugID uuid.UUID) ([]domain.Discussion, error) {
	out := []domain.Discussion{}
	for _, d := range r.byID {
		if d.DrugID == drugID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeDiscussionRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// --- notifier ---

type recordingNotifier struct {
	created []uuid.UUID
	deleted []uuid.UUID
}

func (n *recordingNotifier) DiscussionCreated(d *domain.Discussion) {
	n.created = append(n.created, d.ID)
}

func (n *recordingNotifier) DiscussionDeleted(_, discussionID uuid.UUID) {
	n.deleted = append(n.deleted, discussionID)
}

// seedDrug inserts a drug directly into the fake store.
func seedDrug(f *fakeFactory, name string) *domain.Drug {
	d := &domain.Drug{
		ID:        uuid.New(),
		NDC:       "0000-" + uuid.NewString()[:8],
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.drugs.byID[d.ID] = d
	return d
}

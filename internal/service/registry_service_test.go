package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dallinbsmith/prescription-db-sub001/internal/domain"
)

func newRegistryService(repos *fakeFactory) *RegistryService {
	return NewRegistryService(nil, repos, fakeTxRunner{}, time.Second)
}

func TestRegistryService_Add(t *testing.T) {
	t.Parallel()

	repos := newFakeFactory()
	svc := newRegistryService(repos)

	userID := uuid.New()
	drug := seedDrug(repos, "Meloxicam")

	entry, err := svc.Add(context.Background(), userID, drug.ID, "for Rex")
	require.NoError(t, err)

	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, drug.ID, entry.DrugID)
	assert.Equal(t, "for Rex", entry.Notes)
	assert.NotEqual(t, uuid.Nil, entry.ID)
}

func TestRegistryService_Add_UnknownDrug(t *testing.T) {
	t.Parallel()

	repos := newFakeFactory()
	svc := newRegistryService(repos)

	_, err := svc.Add(context.Background(), uuid.New(), uuid.New(), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, repos.registry.entries)
}

func TestRegistryService_Add_Duplicate(t *testing.T) {
	t.Parallel()

	repos := newFakeFactory()
	svc := newRegistryService(repos)

	userID := uuid.New()
	drug := seedDrug(repos, "Carprofen")

	_, err := svc.Add(context.Background(), userID, drug.ID, "")
	require.NoError(t, err)

	// Second add for the same user/drug pair hits the unique constraint.
	_, err = svc.Add(context.Background(), userID, drug.ID, "again")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, repos.registry.entries, 1)

	// A different user may still register the same drug.
	_, err = svc.Add(context.Background(), uuid.New(), drug.ID, "")
	assert.NoError(t, err)
}

func TestRegistryService_Remove(t *testing.T) {
	t.Parallel()

	repos := newFakeFactory()
	svc := newRegistryService(repos)

	userID := uuid.New()
	drug := seedDrug(repos, "Firocoxib")

	err := svc.Remove(context.Background(), userID, drug.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Add(context.Background(), userID, drug.ID, "")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), userID, drug.ID))

	// Second remove reports the entry as already gone.
	err = svc.Remove(context.Background(), userID, drug.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistryService_UpdateNotes(t *testing.T) {
	t.Parallel()

	repos := newFakeFactory()
	svc := newRegistryService(repos)

	userID := uuid.New()
	drug := seedDrug(repos, "Gabapentin")

	_, err := svc.UpdateNotes(context.Background(), userID, drug.ID, "updated")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Add(context.Background(), userID, drug.ID, "initial")
	require.NoError(t, err)

	entry, err := svc.UpdateNotes(context.Background(), userID, drug.ID, "updated")
	require.NoError(t, err)
	assert.Equal(t, "updated", entry.Notes)
}

func TestRegistryService_Check(t *testing.T) {
	t.Parallel()

	repos := newFakeFactory()
	svc := newRegistryService(repos)

	userID := uuid.New()
	drug := seedDrug(repos, "Trazodone")

	status, err := svc.Check(context.Background(), userID, drug.ID)
	require.NoError(t, err)
	assert.False(t, status.InRegistry)
	assert.Nil(t, status.Entry)

	_, err = svc.Add(context.Background(), userID, drug.ID, "")
	require.NoError(t, err)

	status, err = svc.Check(context.Background(), userID, drug.ID)
	require.NoError(t, err)
	assert.True(t, status.InRegistry)
	require.NotNil(t, status.Entry)
	assert.Equal(t, drug.ID, status.Entry.DrugID)
}

func TestRegistryService_List_ScopedToUser(t *testing.T) {
	t.Parallel()

	repos := newFakeFactory()
	svc := newRegistryService(repos)

	alice, bob := uuid.New(), uuid.New()
	d1 := seedDrug(repos, "Meloxicam")
	d2 := seedDrug(repos, "Carprofen")

	_, err := svc.Add(context.Background(), alice, d1.ID, "")
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), alice, d2.ID, "")
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), bob, d1.ID, "")
	require.NoError(t, err)

	items, err := svc.List(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = svc.List(context.Background(), bob)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

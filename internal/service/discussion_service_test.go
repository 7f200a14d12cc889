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

func newDiscussionService(repos *fakeFactory, notifier DiscussionNotifier) *DiscussionService {
	return NewDiscussionService(nil, repos, fakeTxRunner{}, notifier, time.Second)
}

func TestDiscussionService_Create(t *testing.T) {
	t.Parallel()

	repos := newFakeFactory()
	notifier := &recordingNotifier{}
	svc := newDiscussionService(repos, notifier)

	author := uuid.New()
	drug := seedDrug(repos, "Meloxicam")

	d, err := svc.Create(context.Background(), author, drug.ID, DiscussionInput{Content: "works well for senior dogs"})
	require.NoError(t, err)

	assert.Equal(t, drug.ID, d.DrugID)
	assert.Equal(t, author, d.UserID)
	assert.Nil(t, d.ParentID)
	assert.Equal(t, []uuid.UUID{d.ID}, notifier.created)
}

func TestDiscussionService_Create_UnknownDrug(t *testing.T) {
	t.Parallel()

	repos := newFakeFactory()
	notifier := &recordingNotifier{}
	svc := newDiscussionService(repos, notifier)

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), DiscussionInput{Content: "hello"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, notifier.created)
}

func TestDiscussionService_Create_Reply(t *testing.T) {
	t.Parallel()

	repos := newFakeFactory()
	svc := newDiscussionService(repos, nil)

	author := uuid.New()
	drug := seedDrug(repos, "Carprofen")

	parent, err := svc.Create(context.Background(), author, drug.ID, DiscussionInput{Content: "any side effects?"})
	require.NoError(t, err)

	reply, err := svc.Create(context.Background(), uuid.New(), drug.ID, DiscussionInput{Content: "mild drowsiness", ParentID: &parent.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)
}

func TestDiscussionService_Create_MissingParent(t *testing.T) {
	t.Parallel()

	repos := newFakeFactory()
	svc := newDiscussionService(repos, nil)

	drug := seedDrug(repos, "Firocoxib")
	ghost := uuid.New()

	_, err := svc.Create(context.Background(), uuid.New(), drug.ID, DiscussionInput{Content: "re:", ParentID: &ghost})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDiscussionService_Create_ParentOnDifferentDrug(t *testing.T) {
	t.Parallel()

	repos := newFakeFactory()
	svc := newDiscussionService(repos, nil)

	d1 := seedDrug(repos, "Meloxicam")
	d2 := seedDrug(repos, "Gabapentin")

	parent, err := svc.Create(context.Background(), uuid.New(), d1.ID, DiscussionInput{Content: "thread on d1"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), d2.ID, DiscussionInput{Content: "cross-thread reply", ParentID: &parent.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestDiscussionService_ListByDrug(t *testing.T) {
	t.Parallel()

	repos := newFakeFactory()
	svc := newDiscussionService(repos, nil)

	drug := seedDrug(repos, "Trazodone")
	other := seedDrug(repos, "Carprofen")

	_, err := svc.Create(context.Background(), uuid.New(), drug.ID, DiscussionInput{Content: "first"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), uuid.New(), other.ID, DiscussionInput{Content: "elsewhere"})
	require.NoError(t, err)

	list, err := svc.ListByDrug(context.Background(), drug.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "first", list[0].Content)

	_, err = svc.ListByDrug(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDiscussionService_Delete_Authorization(t *testing.T) {
	t.Parallel()

	repos := newFakeFactory()
	notifier := &recordingNotifier{}
	svc := newDiscussionService(repos, notifier)

	author := uuid.New()
	drug := seedDrug(repos, "Meloxicam")

	d, err := svc.Create(context.Background(), author, drug.ID, DiscussionInput{Content: "to be deleted"})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.New(), domain.RoleUser, d.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, notifier.deleted)

	require.NoError(t, svc.Delete(context.Background(), author, domain.RoleUser, d.ID))
	assert.Equal(t, []uuid.UUID{d.ID}, notifier.deleted)

	err = svc.Delete(context.Background(), author, domain.RoleUser, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDiscussionService_Delete_AdminOverride(t *testing.T) {
	t.Parallel()

	repos := newFakeFactory()
	svc := newDiscussionService(repos, nil)

	drug := seedDrug(repos, "Carprofen")

	d, err := svc.Create(context.Background(), uuid.New(), drug.ID, DiscussionInput{Content: "moderated away"})
	require.NoError(t, err)

	admin := uuid.New()
	require.NoError(t, svc.Delete(context.Background(), admin, domain.RoleAdmin, d.ID))
}

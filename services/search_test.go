package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertylabs/rental-radar-alerts-sub000/criteria"
	"github.com/propertylabs/rental-radar-alerts-sub000/data"
	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
	"github.com/propertylabs/rental-radar-alerts-sub000/notifiers"
	"github.com/propertylabs/rental-radar-alerts-sub000/session"
)

type fakeRepo struct {
	rows    map[string]data.Search
	patches []data.SearchPatch
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]data.Search{}}
}

func (f *fakeRepo) Create(_ context.Context, ownerID string, s data.Search) (data.Search, error) {
	if ownerID == "" {
		return data.Search{}, domain.NewUnauthenticatedError()
	}
	s.ID = "search-1"
	s.UserID = ownerID
	f.rows[s.ID] = s
	return s, nil
}

func (f *fakeRepo) ListByOwner(_ context.Context, ownerID string) ([]data.Search, error) {
	out := []data.Search{}
	for _, s := range f.rows {
		if s.UserID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, ownerID, id string) (data.Search, error) {
	s, ok := f.rows[id]
	if !ok {
		return data.Search{}, domain.NewNotFoundError("search")
	}
	return s, nil
}

func (f *fakeRepo) UpdateFields(_ context.Context, ownerID, id string, patch data.SearchPatch) (data.Search, error) {
	s, ok := f.rows[id]
	if !ok {
		return data.Search{}, domain.NewNotFoundError("search")
	}
	f.patches = append(f.patches, patch)
	s = patch.Apply(s)
	f.rows[id] = s
	return s, nil
}

func (f *fakeRepo) Delete(_ context.Context, ownerID, id string) error {
	if _, ok := f.rows[id]; !ok {
		return domain.NewNotFoundError("search")
	}
	delete(f.rows, id)
	return nil
}

type fakeQueue struct {
	alerts []notifiers.Alert
}

func (f *fakeQueue) Enqueue(a notifiers.Alert) bool {
	f.alerts = append(f.alerts, a)
	return true
}

func TestSearchService_CreateQueuesConfirmation(t *testing.T) {
	queue := &fakeQueue{}
	svc := NewSearchService(newFakeRepo(), queue)

	created, err := svc.Create(context.Background(), "user_1", models.CreateSearchRequest{
		Name:      "City Flat",
		Locations: criteria.StringList{"M1"},
		Criteria:  models.CriteriaUI{PropertyTypes: criteria.StringList{"Flat"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "user_1", created.UserID)
	assert.True(t, created.Notifications)

	require.Len(t, queue.alerts, 1)
	assert.Equal(t, notifiers.Alert{UserID: "user_1", SearchID: "search-1", SearchName: "City Flat"}, queue.alerts[0])
}

func TestSearchService_CreateWithoutNotifications(t *testing.T) {
	queue := &fakeQueue{}
	svc := NewSearchService(newFakeRepo(), queue)

	off := false
	_, err := svc.Create(context.Background(), "user_1", models.CreateSearchRequest{Name: "Quiet", Notifications: &off})
	require.NoError(t, err)
	assert.Empty(t, queue.alerts)
}

func TestSearchService_UpdatePassesOnlyGivenFields(t *testing.T) {
	repo := newFakeRepo()
	queue := &fakeQueue{}
	svc := NewSearchService(repo, queue)
	off := false
	_, err := svc.Create(context.Background(), "user_1", models.CreateSearchRequest{Name: "A", Notifications: &off})
	require.NoError(t, err)

	on := true
	updated, err := svc.Update(context.Background(), "user_1", "search-1", models.UpdateSearchRequest{Notifications: &on})
	require.NoError(t, err)
	assert.True(t, updated.Notifications)

	require.Len(t, repo.patches, 1)
	assert.Equal(t, data.SearchPatch{Notifications: &on}, repo.patches[0])
	assert.Len(t, queue.alerts, 1, "turning alerts on queues a confirmation")
}

func TestSearchService_SessionMethods(t *testing.T) {
	svc := NewSearchService(newFakeRepo(), nil)
	ctx := context.Background()

	_, err := svc.CreateSearch(ctx, &session.Session{}, models.CreateSearchRequest{Name: "x"})
	assert.True(t, domain.IsUnauthenticated(err))

	sess := &session.Session{UserID: "user_1"}
	_, err = svc.CreateSearch(ctx, sess, models.CreateSearchRequest{Name: "x"})
	require.NoError(t, err)

	list, err := svc.ListSearches(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteSearch(ctx, sess, "search-1"))
	err = svc.DeleteSearch(ctx, sess, "search-1")
	assert.True(t, domain.IsNotFound(err))
}

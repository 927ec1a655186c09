package builder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertylabs/rental-radar-alerts-sub000/criteria"
	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
	"github.com/propertylabs/rental-radar-alerts-sub000/enums"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
	"github.com/propertylabs/rental-radar-alerts-sub000/session"
)

type fakeCreator struct {
	requests []models.CreateSearchRequest
	err      error
}

func (f *fakeCreator) CreateSearch(_ context.Context, sess *session.Session, req models.CreateSearchRequest) (models.Search, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return models.Search{}, f.err
	}
	s := models.ToWireFormat(models.SearchUI{
		Name:      req.Name,
		Locations: req.Locations,
		Criteria:  req.Criteria,
	})
	s.ID = "search-1"
	s.UserID = sess.UserID
	s.Notifications = *req.Notifications
	return s, nil
}

func newTestBuilder() (*Builder, *fakeCreator, *time.Time) {
	store := &fakeCreator{}
	b := New(store, &session.Session{UserID: "user_1"})
	now := time.Unix(1_700_000_000, 0)
	b.now = func() time.Time { return now }
	return b, store, &now
}

func walkToLastStep(t *testing.T, b *Builder) {
	require.NoError(t, b.SelectCity("Manchester"))
	require.True(t, b.Next())
	require.NoError(t, b.ToggleLocation("M1"))
	require.NoError(t, b.ToggleLocation("m2"))
	require.True(t, b.Next())
	require.True(t, b.TogglePropertyType(enums.PropertyTypeFlat))
	require.True(t, b.Next())
	require.Equal(t, StepPriceAndBedrooms, b.Step())
}

func TestBuilder_StepGuards(t *testing.T) {
	b, _, _ := newTestBuilder()

	assert.False(t, b.CanNext())
	assert.False(t, b.Next())
	assert.Equal(t, StepCity, b.Step())

	require.NoError(t, b.SelectCity("Leeds"))
	assert.True(t, b.Next())

	assert.False(t, b.Next(), "needs a location")
	require.NoError(t, b.ToggleLocation("LS6"))
	assert.True(t, b.Next())

	assert.False(t, b.Next(), "needs a property type")
	b.TogglePropertyType(enums.PropertyTypeHouse)
	assert.True(t, b.Next())

	assert.False(t, b.CanNext(), "last step commits instead")
}

func TestBuilder_BackKeepsValues(t *testing.T) {
	b, _, _ := newTestBuilder()
	walkToLastStep(t, b)

	b.SetMinPrice(500)
	b.Back()
	b.Back()
	assert.Equal(t, StepLocations, b.Step())
	assert.Equal(t, criteria.StringList{"M1", "M2"}, b.Criteria().Locations)
	assert.Equal(t, 500, b.Criteria().MinPrice)

	b.Back()
	b.Back()
	assert.Equal(t, StepCity, b.Step())
}

func TestBuilder_RoomAfterFlatIsRejected(t *testing.T) {
	b, _, now := newTestBuilder()

	require.True(t, b.TogglePropertyType(enums.PropertyTypeFlat))
	assert.False(t, b.TogglePropertyType(enums.PropertyTypeRoom))

	assert.Equal(t, criteria.StringList{"Flat"}, b.Criteria().PropertyTypes)
	assert.Equal(t, criteria.RoomConflictMessage, b.Notice())

	*now = now.Add(3 * time.Second)
	assert.Empty(t, b.Notice(), "notice expires after three seconds")
}

func TestBuilder_RoomFromEmpty(t *testing.T) {
	b, _, _ := newTestBuilder()

	assert.True(t, b.TogglePropertyType(enums.PropertyTypeRoom))
	assert.Equal(t, criteria.StringList{"Room"}, b.Criteria().PropertyTypes)
	assert.Empty(t, b.Notice())
}

func TestBuilder_CityConstrainsLocations(t *testing.T) {
	b, _, _ := newTestBuilder()

	err := b.ToggleLocation("M1")
	assert.True(t, domain.IsInvalidArgument(err), "no city yet")

	require.NoError(t, b.SelectCity("London"))
	require.NoError(t, b.ToggleLocation("SW4"))
	require.NoError(t, b.ToggleLocation("E1"))
	assert.True(t, domain.IsInvalidArgument(b.ToggleLocation("M1")))

	require.NoError(t, b.ToggleLocation("E1"))
	assert.Equal(t, criteria.StringList{"SW4"}, b.Criteria().Locations, "second toggle deselects")

	require.NoError(t, b.SelectCity("Manchester"))
	assert.Empty(t, b.Criteria().Locations, "switching city drops foreign locations")

	assert.True(t, domain.IsInvalidArgument(b.SelectCity("Atlantis")))
}

func TestBuilder_CommitCityFlat(t *testing.T) {
	b, store, _ := newTestBuilder()
	walkToLastStep(t, b)
	b.SetMinPrice(500)
	b.SetMaxPrice(1200)
	b.SetMinBedrooms(1)
	b.SetMaxBedrooms(2)
	b.SetName("City Flat")

	created, err := b.Commit(context.Background())
	require.NoError(t, err)

	require.Len(t, store.requests, 1)
	req := store.requests[0]
	assert.Equal(t, "City Flat", req.Name)
	assert.Equal(t, criteria.StringList{"M1", "M2"}, req.Locations)
	assert.Equal(t, criteria.StringList{"Flat"}, req.Criteria.PropertyTypes)
	require.NotNil(t, req.Notifications)
	assert.True(t, *req.Notifications)

	assert.Equal(t, "search-1", created.ID)
	assert.Equal(t, 500, created.MinPrice)
	assert.Equal(t, 1200, created.MaxPrice)
	assert.Equal(t, 1, created.MinBedrooms)
	assert.Equal(t, 2, created.MaxBedrooms)
	assert.Equal(t, criteria.StringList{}, created.MustHaves)

	assert.Equal(t, StepCity, b.Step(), "builder resets after commit")
	assert.Empty(t, b.City())
}

func TestBuilder_CommitDefaultName(t *testing.T) {
	b, store, _ := newTestBuilder()
	walkToLastStep(t, b)

	_, err := b.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Manchester search", store.requests[0].Name)
}

func TestBuilder_CommitFailureKeepsState(t *testing.T) {
	b, store, _ := newTestBuilder()
	walkToLastStep(t, b)
	store.err = domain.NewPersistenceError(errors.New("db down"))

	_, err := b.Commit(context.Background())
	assert.True(t, domain.IsPersistence(err))
	assert.Equal(t, StepPriceAndBedrooms, b.Step())
	assert.Equal(t, criteria.StringList{"M1", "M2"}, b.Criteria().Locations)

	store.err = nil
	_, err = b.Commit(context.Background())
	require.NoError(t, err)
	assert.Len(t, store.requests, 2)
}

func TestBuilder_CommitOnlyFromLastStep(t *testing.T) {
	b, store, _ := newTestBuilder()
	require.NoError(t, b.SelectCity("Manchester"))

	_, err := b.Commit(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Empty(t, store.requests)
}

func TestBuilder_CancelDiscards(t *testing.T) {
	b, store, _ := newTestBuilder()
	walkToLastStep(t, b)
	b.SetNotifications(false)

	b.Cancel()
	assert.Equal(t, StepCity, b.Step())
	assert.Equal(t, criteria.Default(), b.Criteria())
	assert.True(t, b.Notifications())
	assert.Empty(t, store.requests)
}

func TestBuilder_NameIsCapped(t *testing.T) {
	b, _, _ := newTestBuilder()
	b.SetName("a very long search name that keeps going")
	assert.Len(t, []rune(b.Name()), criteria.MaxNameLength)
}

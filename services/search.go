package services

import (
	"context"

	"github.com/propertylabs/rental-radar-alerts-sub000/data"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
	"github.com/propertylabs/rental-radar-alerts-sub000/notifiers"
	"github.com/propertylabs/rental-radar-alerts-sub000/session"
)

type SearchRepository interface {
	Create(ctx context.Context, ownerID string, search data.Search) (data.Search, error)
	ListByOwner(ctx context.Context, ownerID string) ([]data.Search, error)
	Get(ctx context.Context, ownerID, searchID string) (data.Search, error)
	UpdateFields(ctx context.Context, ownerID, searchID string, patch data.SearchPatch) (data.Search, error)
	Delete(ctx context.Context, ownerID, searchID string) error
}

type AlertQueue interface {
	Enqueue(alert notifiers.Alert) bool
}

// SearchService converts between the wire models and the repository rows, and queues an alert
// confirmation whenever a search ends up with notifications switched on.
type SearchService struct {
	repo   SearchRepository
	alerts AlertQueue
}

// NewSearchService builds the service. alerts may be nil when no messaging is configured.
func NewSearchService(repo SearchRepository, alerts AlertQueue) *SearchService {
	return &SearchService{repo: repo, alerts: alerts}
}

func (s *SearchService) Create(ctx context.Context, ownerID string, req models.CreateSearchRequest) (models.Search, error) {
	created, err := s.repo.Create(ctx, ownerID, req.ToDataSearch())
	if err != nil {
		return models.Search{}, err
	}

	if created.Notifications {
		s.confirm(created)
	}
	return models.FromDataSearch(created), nil
}

func (s *SearchService) List(ctx context.Context, ownerID string) ([]models.Search, error) {
	searches, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return models.FromDataSearches(searches), nil
}

func (s *SearchService) Get(ctx context.Context, ownerID, searchID string) (models.Search, error) {
	search, err := s.repo.Get(ctx, ownerID, searchID)
	if err != nil {
		return models.Search{}, err
	}
	return models.FromDataSearch(search), nil
}

func (s *SearchService) Update(ctx context.Context, ownerID, searchID string, req models.UpdateSearchRequest) (models.Search, error) {
	updated, err := s.repo.UpdateFields(ctx, ownerID, searchID, req.ToDataPatch())
	if err != nil {
		return models.Search{}, err
	}

	if req.Notifications != nil && *req.Notifications {
		s.confirm(updated)
	}
	return models.FromDataSearch(updated), nil
}

func (s *SearchService) Delete(ctx context.Context, ownerID, searchID string) error {
	return s.repo.Delete(ctx, ownerID, searchID)
}

// The methods below let the builder, editor and dashboard use the service in-process with the
// signed-in session as the caller.

func (s *SearchService) CreateSearch(ctx context.Context, sess *session.Session, req models.CreateSearchRequest) (models.Search, error) {
	ownerID, err := sess.OwnerID()
	if err != nil {
		return models.Search{}, err
	}
	return s.Create(ctx, ownerID, req)
}

func (s *SearchService) ListSearches(ctx context.Context, sess *session.Session) ([]models.Search, error) {
	ownerID, err := sess.OwnerID()
	if err != nil {
		return nil, err
	}
	return s.List(ctx, ownerID)
}

func (s *SearchService) UpdateSearch(ctx context.Context, sess *session.Session, searchID string, req models.UpdateSearchRequest) (models.Search, error) {
	ownerID, err := sess.OwnerID()
	if err != nil {
		return models.Search{}, err
	}
	return s.Update(ctx, ownerID, searchID, req)
}

func (s *SearchService) DeleteSearch(ctx context.Context, sess *session.Session, searchID string) error {
	ownerID, err := sess.OwnerID()
	if err != nil {
		return err
	}
	return s.Delete(ctx, ownerID, searchID)
}

func (s *SearchService) confirm(search data.Search) {
	if s.alerts == nil {
		return
	}
	s.alerts.Enqueue(notifiers.Alert{
		UserID:     search.UserID,
		SearchID:   search.ID,
		SearchName: search.Name,
	})
}

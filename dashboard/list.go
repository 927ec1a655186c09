// Package dashboard is the list of a user's saved searches and the quick actions on each card.
//
// A List belongs to a single user session and is not safe for concurrent use.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/propertylabs/rental-radar-alerts-sub000/criteria"
	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
	"github.com/propertylabs/rental-radar-alerts-sub000/session"
)

const DefaultCooldown = 2 * time.Second

var ErrCoolingDown = errors.New("please wait a moment before trying again")

type Store interface {
	ListSearches(ctx context.Context, sess *session.Session) ([]models.Search, error)
	UpdateSearch(ctx context.Context, sess *session.Session, searchID string, req models.UpdateSearchRequest) (models.Search, error)
	DeleteSearch(ctx context.Context, sess *session.Session, searchID string) error
}

// Card is one saved search as shown on the dashboard.
type Card struct {
	models.Search
	City string
}

type List struct {
	store    Store
	sess     *session.Session
	cooldown Cooldown
	ttl      time.Duration

	searches []models.Search
}

func NewList(store Store, sess *session.Session, cooldown Cooldown) *List {
	if cooldown == nil {
		cooldown = NewMemoryCooldown()
	}
	return &List{store: store, sess: sess, cooldown: cooldown, ttl: DefaultCooldown}
}

// Load fetches the searches from the store, newest first.
func (l *List) Load(ctx context.Context) error {
	searches, err := l.store.ListSearches(ctx, l.sess)
	if err != nil {
		return err
	}
	l.searches = searches
	return nil
}

func (l *List) Cards() []Card {
	cards := make([]Card, 0, len(l.searches))
	for _, s := range l.searches {
		card := Card{Search: s}
		if city, ok := criteria.InferCity(s.Locations); ok {
			card.City = city.Name
		}
		cards = append(cards, card)
	}
	return cards
}

// OnRefresh returns an observer for editor saves. The list re-reads the store instead of
// trusting the editor's copy.
func (l *List) OnRefresh(ctx context.Context) func(saved models.Search) {
	return func(saved models.Search) {
		if err := l.Load(ctx); err != nil {
			slog.Error("refresh searches", "searchID", saved.ID, "error", err)
		}
	}
}

func (l *List) Rename(ctx context.Context, searchID, name string) error {
	name, err := criteria.ValidateName(name)
	if err != nil {
		return err
	}

	updated, err := l.store.UpdateSearch(ctx, l.sess, searchID, models.UpdateSearchRequest{Name: &name})
	if err != nil {
		return err
	}
	l.replace(updated)
	return nil
}

func (l *List) ToggleNotifications(ctx context.Context, searchID string) error {
	current, ok := l.find(searchID)
	if !ok {
		return domain.NewNotFoundError("search")
	}
	if err := l.acquire(ctx, "toggle", searchID); err != nil {
		return err
	}

	on := !current.Notifications
	updated, err := l.store.UpdateSearch(ctx, l.sess, searchID, models.UpdateSearchRequest{Notifications: &on})
	if err != nil {
		return err
	}
	l.replace(updated)
	return nil
}

func (l *List) Delete(ctx context.Context, searchID string) error {
	if err := l.acquire(ctx, "delete", searchID); err != nil {
		return err
	}

	if err := l.store.DeleteSearch(ctx, l.sess, searchID); err != nil {
		return err
	}

	kept := l.searches[:0]
	for _, s := range l.searches {
		if s.ID != searchID {
			kept = append(kept, s)
		}
	}
	l.searches = kept
	return nil
}

func (l *List) acquire(ctx context.Context, action, searchID string) error {
	owner := ""
	if l.sess != nil {
		owner = l.sess.UserID
	}
	ok, err := l.cooldown.Acquire(ctx, action+":"+owner+":"+searchID, l.ttl)
	if err != nil {
		// Cooldown store errors are logged and the action goes ahead.
		slog.Warn("cooldown unavailable", "error", err)
		return nil
	}
	if !ok {
		return ErrCoolingDown
	}
	return nil
}

func (l *List) find(searchID string) (models.Search, bool) {
	for _, s := range l.searches {
		if s.ID == searchID {
			return s, true
		}
	}
	return models.Search{}, false
}

func (l *List) replace(updated models.Search) {
	for i, s := range l.searches {
		if s.ID == updated.ID {
			l.searches[i] = updated
			return
		}
	}
}

// Package builder walks a user through creating a saved search one step at a time.
//
// A Builder belongs to a single user session and is not safe for concurrent use.
package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/propertylabs/rental-radar-alerts-sub000/criteria"
	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
	"github.com/propertylabs/rental-radar-alerts-sub000/enums"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
	"github.com/propertylabs/rental-radar-alerts-sub000/session"
)

type Step int

const (
	StepCity Step = iota
	StepLocations
	StepPropertyType
	StepPriceAndBedrooms
)

func (s Step) String() string {
	switch s {
	case StepCity:
		return "city"
	case StepLocations:
		return "locations"
	case StepPropertyType:
		return "property_type"
	case StepPriceAndBedrooms:
		return "price_and_bedrooms"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

var ErrNotReady = errors.New("search is not ready to be saved")

type Creator interface {
	CreateSearch(ctx context.Context, sess *session.Session, req models.CreateSearchRequest) (models.Search, error)
}

type Builder struct {
	store Creator
	sess  *session.Session
	now   func() time.Time

	step          Step
	city          *criteria.City
	name          string
	notifications bool
	criteria      criteria.Criteria
	notice        criteria.Notice
}

func New(store Creator, sess *session.Session) *Builder {
	b := &Builder{store: store, sess: sess, now: time.Now}
	b.reset()
	return b
}

func (b *Builder) reset() {
	b.step = StepCity
	b.city = nil
	b.name = ""
	b.notifications = true
	b.criteria = criteria.Default()
	b.notice = criteria.Notice{}
}

func (b *Builder) Step() Step { return b.step }

// City returns the chosen city name, or "" before one is chosen.
func (b *Builder) City() string {
	if b.city == nil {
		return ""
	}
	return b.city.Name
}

// Districts lists the locations the user can pick for the chosen city.
func (b *Builder) Districts() []string {
	if b.city == nil {
		return nil
	}
	return append([]string(nil), b.city.Districts...)
}

func (b *Builder) Criteria() criteria.Criteria { return b.criteria.Clone() }

func (b *Builder) Notifications() bool { return b.notifications }

// Name returns the name the search will be saved under.
func (b *Builder) Name() string {
	if strings.TrimSpace(b.name) != "" {
		return b.name
	}
	if b.city != nil {
		return b.city.Name + " search"
	}
	return ""
}

// Notice returns the current conflict notice, or "" when there is none or it has expired.
func (b *Builder) Notice() string {
	return b.notice.Visible(b.now())
}

// SelectCity chooses the city. Locations outside the new city are dropped.
func (b *Builder) SelectCity(name string) error {
	city, ok := criteria.FindCity(name)
	if !ok {
		return domain.NewInvalidArgumentError(fmt.Sprintf("unknown city %q", name))
	}
	b.city = &city

	kept := make(criteria.StringList, 0, len(b.criteria.Locations))
	for _, l := range b.criteria.Locations {
		if city.Contains(l) {
			kept = append(kept, l)
		}
	}
	b.criteria.Locations = kept
	return nil
}

// ToggleLocation selects or deselects a district of the chosen city.
func (b *Builder) ToggleLocation(location string) error {
	if b.city == nil {
		return domain.NewInvalidArgumentError("choose a city first")
	}
	location = strings.ToUpper(strings.TrimSpace(location))
	if !b.city.HasDistrict(location) {
		return domain.NewInvalidArgumentError(fmt.Sprintf("%s is not in %s", location, b.city.Name))
	}
	b.criteria.Locations = criteria.Toggle(b.criteria.Locations, location)
	return nil
}

// TogglePropertyType selects or deselects t. A Room conflict leaves the selection as it was,
// raises a notice and returns false.
func (b *Builder) TogglePropertyType(t enums.PropertyType) bool {
	types, ok := criteria.TogglePropertyType(b.criteria.PropertyTypes, t)
	if !ok {
		b.notice = criteria.Notice{Text: criteria.RoomConflictMessage, At: b.now()}
		return false
	}
	b.criteria.PropertyTypes = types
	return true
}

func (b *Builder) ToggleMustHave(tag enums.MustHave) {
	b.criteria.MustHaves = criteria.Toggle(b.criteria.MustHaves, string(tag))
}

func (b *Builder) SetMinPrice(v int)    { b.criteria.SetMinPrice(v) }
func (b *Builder) SetMaxPrice(v int)    { b.criteria.SetMaxPrice(v) }
func (b *Builder) SetMinBedrooms(v int) { b.criteria.SetMinBedrooms(v) }
func (b *Builder) SetMaxBedrooms(v int) { b.criteria.SetMaxBedrooms(v) }

func (b *Builder) SetName(name string) {
	if len([]rune(name)) > criteria.MaxNameLength {
		name = string([]rune(name)[:criteria.MaxNameLength])
	}
	b.name = name
}

func (b *Builder) SetNotifications(on bool) { b.notifications = on }

// CanNext reports whether the current step is complete.
func (b *Builder) CanNext() bool {
	switch b.step {
	case StepCity:
		return b.city != nil
	case StepLocations:
		return len(b.criteria.Locations) > 0
	case StepPropertyType:
		return len(b.criteria.PropertyTypes) > 0
	}
	return false
}

func (b *Builder) Next() bool {
	if !b.CanNext() {
		return false
	}
	b.step++
	return true
}

// Back moves to the previous step. Values entered so far are kept.
func (b *Builder) Back() {
	if b.step > StepCity {
		b.step--
	}
}

// Cancel discards everything and starts over.
func (b *Builder) Cancel() {
	b.reset()
}

// Commit saves the search. On failure the builder keeps its state so the user can retry; on
// success it starts over.
func (b *Builder) Commit(ctx context.Context) (models.Search, error) {
	if b.step != StepPriceAndBedrooms {
		return models.Search{}, ErrNotReady
	}

	notifications := b.notifications
	ui := models.ToUIFormat(models.Search{Name: b.Name(), Notifications: notifications, Criteria: b.criteria.Clone()})
	req := models.CreateSearchRequest{
		Name:          ui.Name,
		Locations:     ui.Locations,
		Criteria:      ui.Criteria,
		Notifications: &notifications,
	}

	created, err := b.store.CreateSearch(ctx, b.sess, req)
	if err != nil {
		return models.Search{}, err
	}

	b.reset()
	return created, nil
}

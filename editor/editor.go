// Package editor implements the menu-driven editor for an existing saved search. Each section
// is edited and saved on its own.
//
// An Editor belongs to a single user session and is not safe for concurrent use.
package editor

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/propertylabs/rental-radar-alerts-sub000/criteria"
	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
	"github.com/propertylabs/rental-radar-alerts-sub000/enums"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
	"github.com/propertylabs/rental-radar-alerts-sub000/session"
)

var (
	ErrNotOpen              = errors.New("no search is open")
	ErrNotInSection         = errors.New("no section is open")
	ErrWrongSection         = errors.New("field belongs to another section")
	ErrNoChanges            = errors.New("nothing to save")
	ErrIncomplete           = errors.New("choose at least one option before saving")
	ErrConfirmationRequired = errors.New("unsaved changes will be lost")
)

type Updater interface {
	UpdateSearch(ctx context.Context, sess *session.Session, searchID string, req models.UpdateSearchRequest) (models.Search, error)
}

// RefreshFunc is called with the saved row after every successful save.
type RefreshFunc func(saved models.Search)

type pendingAction int

const (
	pendingNone pendingAction = iota
	pendingBack
	pendingClose
)

type Editor struct {
	store Updater
	sess  *session.Session
	now   func() time.Time

	snapshot *models.Search
	section  *Section
	baseline form
	working  form
	city     *criteria.City
	notice   criteria.Notice
	pending  pendingAction

	subscribers []RefreshFunc
}

func New(store Updater, sess *session.Session) *Editor {
	return &Editor{store: store, sess: sess, now: time.Now}
}

// Subscribe registers fn to be told about every saved change.
func (e *Editor) Subscribe(fn RefreshFunc) {
	e.subscribers = append(e.subscribers, fn)
}

// Open starts editing s. Opening a different search throws away all state of the previous one.
// Opening the one already open keeps an open section as it is; at the menu a row at least as
// recent as the snapshot replaces it, so later sections diff against the stored values.
func (e *Editor) Open(s models.Search) {
	if e.snapshot != nil && e.snapshot.ID == s.ID {
		if e.section == nil && s.UpdatedAt >= e.snapshot.UpdatedAt {
			e.load(s)
		}
		return
	}
	e.load(s)
}

func (e *Editor) load(s models.Search) {
	snapshot := models.Search{
		ID:            s.ID,
		UserID:        s.UserID,
		Name:          s.Name,
		Notifications: s.Notifications,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		Criteria:      s.Criteria.Clone(),
	}
	e.snapshot = &snapshot
	e.section = nil
	e.baseline = formOf(snapshot)
	e.working = e.baseline.clone()
	e.notice = criteria.Notice{}
	e.pending = pendingNone
	e.city = nil
	if city, ok := criteria.InferCity(snapshot.Locations); ok {
		e.city = &city
	}
}

func (e *Editor) IsOpen() bool { return e.snapshot != nil }

// AtMenu reports whether the editor shows the section menu.
func (e *Editor) AtMenu() bool { return e.snapshot != nil && e.section == nil }

// ActiveSection returns the open section, if any.
func (e *Editor) ActiveSection() (Section, bool) {
	if e.section == nil {
		return 0, false
	}
	return *e.section, true
}

// Snapshot returns the last saved state of the open search.
func (e *Editor) Snapshot() (models.Search, bool) {
	if e.snapshot == nil {
		return models.Search{}, false
	}
	s := *e.snapshot
	s.Criteria = s.Criteria.Clone()
	return s, true
}

// Working returns the value currently being edited in the open section.
func (e *Editor) Working() SectionEdit {
	if e.section == nil {
		return nil
	}
	return e.working.edit(*e.section)
}

// City is the city derived from the search's locations, or "" when none is recognised.
func (e *Editor) City() string {
	if e.city == nil {
		return ""
	}
	return e.city.Name
}

func (e *Editor) Notice() string {
	return e.notice.Visible(e.now())
}

func (e *Editor) SelectSection(s Section) error {
	if e.snapshot == nil {
		return ErrNotOpen
	}
	if e.section != nil {
		return ErrWrongSection
	}

	e.baseline = formOf(*e.snapshot)
	e.working = e.baseline.clone()
	e.section = &s
	e.notice = criteria.Notice{}
	return nil
}

// HasChanges compares the open section's values with those it had when it was opened.
func (e *Editor) HasChanges() bool {
	if e.section == nil {
		return false
	}
	return !reflect.DeepEqual(e.working.edit(*e.section), e.baseline.edit(*e.section))
}

// CanSave reports whether Save is enabled: the section has changes, and the location and
// property type sections still hold at least one choice.
func (e *Editor) CanSave() bool {
	return e.HasChanges() && e.complete()
}

func (e *Editor) complete() bool {
	if e.section == nil {
		return false
	}
	switch *e.section {
	case SectionLocation:
		return len(e.working.criteria.Locations) > 0
	case SectionPropertyType:
		return len(e.working.criteria.PropertyTypes) > 0
	}
	return true
}

// Back returns to the menu. With unsaved changes it returns ErrConfirmationRequired until the
// user calls ConfirmDiscard.
func (e *Editor) Back() error {
	if e.section == nil {
		return ErrNotInSection
	}
	if e.HasChanges() {
		e.pending = pendingBack
		return ErrConfirmationRequired
	}
	e.toMenu()
	return nil
}

// Close leaves the editor. At the menu it always succeeds; inside a section it is gated on
// confirmation the same way as Back.
func (e *Editor) Close() error {
	if e.section != nil && e.HasChanges() {
		e.pending = pendingClose
		return ErrConfirmationRequired
	}
	e.close()
	return nil
}

// ConfirmDiscard drops the unsaved changes and completes the Back or Close that asked for
// confirmation.
func (e *Editor) ConfirmDiscard() {
	action := e.pending
	e.pending = pendingNone
	e.working = e.baseline.clone()

	switch action {
	case pendingBack:
		e.toMenu()
	case pendingClose:
		e.close()
	}
}

// KeepEditing dismisses a pending confirmation and stays in the section.
func (e *Editor) KeepEditing() {
	e.pending = pendingNone
}

func (e *Editor) toMenu() {
	e.section = nil
	e.pending = pendingNone
	e.working = e.baseline.clone()
	e.notice = criteria.Notice{}
}

func (e *Editor) close() {
	e.snapshot = nil
	e.section = nil
	e.city = nil
	e.pending = pendingNone
	e.baseline = form{}
	e.working = form{}
	e.notice = criteria.Notice{}
}

func (e *Editor) requireSection(s Section) error {
	if e.section == nil {
		return ErrNotInSection
	}
	if *e.section != s {
		return ErrWrongSection
	}
	return nil
}

// ToggleLocation selects or deselects a postcode district. When the search's city is known
// only its districts are accepted.
func (e *Editor) ToggleLocation(location string) error {
	if err := e.requireSection(SectionLocation); err != nil {
		return err
	}
	location = strings.ToUpper(strings.TrimSpace(location))
	if location == "" {
		return domain.NewInvalidArgumentError("location is required")
	}
	selected := e.working.criteria.Locations.Contains(location)
	if e.city != nil && !selected && !e.city.HasDistrict(location) {
		return domain.NewInvalidArgumentError(location + " is not in " + e.city.Name)
	}
	e.working.criteria.Locations = criteria.Toggle(e.working.criteria.Locations, location)
	return nil
}

// TogglePropertyType behaves like the builder's: a Room conflict leaves the selection alone and
// raises a notice.
func (e *Editor) TogglePropertyType(t enums.PropertyType) (bool, error) {
	if err := e.requireSection(SectionPropertyType); err != nil {
		return false, err
	}
	types, ok := criteria.TogglePropertyType(e.working.criteria.PropertyTypes, t)
	if !ok {
		e.notice = criteria.Notice{Text: criteria.RoomConflictMessage, At: e.now()}
		return false, nil
	}
	e.working.criteria.PropertyTypes = types
	return true, nil
}

func (e *Editor) SetMinPrice(v int) error {
	return e.setBound(func(c *criteria.Criteria) { c.SetMinPrice(v) })
}

func (e *Editor) SetMaxPrice(v int) error {
	return e.setBound(func(c *criteria.Criteria) { c.SetMaxPrice(v) })
}

func (e *Editor) SetMinBedrooms(v int) error {
	return e.setBound(func(c *criteria.Criteria) { c.SetMinBedrooms(v) })
}

func (e *Editor) SetMaxBedrooms(v int) error {
	return e.setBound(func(c *criteria.Criteria) { c.SetMaxBedrooms(v) })
}

func (e *Editor) setBound(set func(c *criteria.Criteria)) error {
	if err := e.requireSection(SectionPriceAndBedrooms); err != nil {
		return err
	}
	set(&e.working.criteria)
	return nil
}

func (e *Editor) ToggleMustHave(tag enums.MustHave) error {
	if err := e.requireSection(SectionMustHaves); err != nil {
		return err
	}
	e.working.criteria.MustHaves = criteria.Toggle(e.working.criteria.MustHaves, string(tag))
	return nil
}

func (e *Editor) SetName(name string) error {
	if err := e.requireSection(SectionNameAndNotifications); err != nil {
		return err
	}
	e.working.name = name
	return nil
}

func (e *Editor) SetNotifications(on bool) error {
	if err := e.requireSection(SectionNameAndNotifications); err != nil {
		return err
	}
	e.working.notifications = on
	return nil
}

// Save sends the open section's values in a single update, returns to the menu and tells
// subscribers. On failure the editor stays in the section with the edits intact.
func (e *Editor) Save(ctx context.Context) (models.Search, error) {
	if e.section == nil {
		return models.Search{}, ErrNotInSection
	}
	if !e.HasChanges() {
		return models.Search{}, ErrNoChanges
	}
	if !e.complete() {
		return models.Search{}, ErrIncomplete
	}

	edit := e.working.edit(*e.section)
	if ne, ok := edit.(NameNotifEdit); ok {
		name, err := criteria.ValidateName(ne.Name)
		if err != nil {
			return models.Search{}, err
		}
		ne.Name = name
		edit = ne
	}

	saved, err := e.store.UpdateSearch(ctx, e.sess, e.snapshot.ID, toUpdateRequest(edit))
	if err != nil {
		return models.Search{}, err
	}

	e.snapshot = &saved
	e.baseline = formOf(saved)
	if city, ok := criteria.InferCity(saved.Locations); ok {
		e.city = &city
	}
	e.toMenu()

	for _, fn := range e.subscribers {
		fn(saved)
	}
	return saved, nil
}

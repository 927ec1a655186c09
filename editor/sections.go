package editor

import (
	"fmt"
	"sort"

	"github.com/propertylabs/rental-radar-alerts-sub000/criteria"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
)

type Section int

const (
	SectionLocation Section = iota
	SectionPropertyType
	SectionPriceAndBedrooms
	SectionMustHaves
	SectionNameAndNotifications
)

var Sections = []Section{
	SectionLocation,
	SectionPropertyType,
	SectionPriceAndBedrooms,
	SectionMustHaves,
	SectionNameAndNotifications,
}

func (s Section) String() string {
	switch s {
	case SectionLocation:
		return "Location"
	case SectionPropertyType:
		return "Property type"
	case SectionPriceAndBedrooms:
		return "Price & bedrooms"
	case SectionMustHaves:
		return "Must-haves"
	case SectionNameAndNotifications:
		return "Name & notifications"
	}
	return fmt.Sprintf("Section(%d)", int(s))
}

// SectionEdit is the value one section edits. Exactly one variant exists per section.
type SectionEdit interface {
	Section() Section
}

type LocationEdit struct {
	Locations criteria.StringList
}

type PropertyTypeEdit struct {
	PropertyTypes criteria.StringList
}

type PriceBedroomsEdit struct {
	MinPrice    int
	MaxPrice    int
	MinBedrooms int
	MaxBedrooms int
}

type MustHavesEdit struct {
	MustHaves criteria.StringList
}

type NameNotifEdit struct {
	Name          string
	Notifications bool
}

func (LocationEdit) Section() Section      { return SectionLocation }
func (PropertyTypeEdit) Section() Section  { return SectionPropertyType }
func (PriceBedroomsEdit) Section() Section { return SectionPriceAndBedrooms }
func (MustHavesEdit) Section() Section     { return SectionMustHaves }
func (NameNotifEdit) Section() Section     { return SectionNameAndNotifications }

// form is the editor's full working copy of a search.
type form struct {
	name          string
	notifications bool
	criteria      criteria.Criteria
}

func formOf(s models.Search) form {
	return form{name: s.Name, notifications: s.Notifications, criteria: s.Criteria.Clone()}
}

func (f form) clone() form {
	f.criteria = f.criteria.Clone()
	return f
}

// edit extracts the values of one section.
func (f form) edit(s Section) SectionEdit {
	switch s {
	case SectionLocation:
		return LocationEdit{Locations: f.criteria.Locations.Clone()}
	case SectionPropertyType:
		return PropertyTypeEdit{PropertyTypes: f.criteria.PropertyTypes.Clone()}
	case SectionPriceAndBedrooms:
		return PriceBedroomsEdit{
			MinPrice:    f.criteria.MinPrice,
			MaxPrice:    f.criteria.MaxPrice,
			MinBedrooms: f.criteria.MinBedrooms,
			MaxBedrooms: f.criteria.MaxBedrooms,
		}
	case SectionMustHaves:
		// Order of must-haves carries no meaning.
		tags := f.criteria.MustHaves.Clone()
		sort.Strings(tags)
		return MustHavesEdit{MustHaves: tags}
	case SectionNameAndNotifications:
		return NameNotifEdit{Name: f.name, Notifications: f.notifications}
	}
	return nil
}

// toUpdateRequest builds the patch for a section edit. It carries that section's fields only.
func toUpdateRequest(edit SectionEdit) models.UpdateSearchRequest {
	switch e := edit.(type) {
	case LocationEdit:
		return models.UpdateSearchRequest{Locations: &e.Locations}
	case PropertyTypeEdit:
		return models.UpdateSearchRequest{PropertyTypes: &e.PropertyTypes}
	case PriceBedroomsEdit:
		return models.UpdateSearchRequest{
			MinPrice:    &e.MinPrice,
			MaxPrice:    &e.MaxPrice,
			MinBedrooms: &e.MinBedrooms,
			MaxBedrooms: &e.MaxBedrooms,
		}
	case MustHavesEdit:
		return models.UpdateSearchRequest{MustHaves: &e.MustHaves}
	case NameNotifEdit:
		return models.UpdateSearchRequest{Name: &e.Name, Notifications: &e.Notifications}
	}
	return models.UpdateSearchRequest{}
}

package data

import "github.com/propertylabs/rental-radar-alerts-sub000/criteria"

// SearchPatch lists the fields an update touches. A nil field is left as it is.
type SearchPatch struct {
	Name          *string
	Notifications *bool
	Locations     *criteria.StringList
	PropertyTypes *criteria.StringList
	MinBedrooms   *int
	MaxBedrooms   *int
	MinPrice      *int
	MaxPrice      *int
	MustHaves     *criteria.StringList
}

func (p SearchPatch) IsEmpty() bool {
	return !p.touchesSearch() && !p.TouchesCriteria()
}

func (p SearchPatch) touchesSearch() bool {
	return p.Name != nil || p.Notifications != nil
}

func (p SearchPatch) TouchesCriteria() bool {
	return p.Locations != nil || p.PropertyTypes != nil ||
		p.MinBedrooms != nil || p.MaxBedrooms != nil ||
		p.MinPrice != nil || p.MaxPrice != nil ||
		p.MustHaves != nil
}

// Apply returns s with the patched fields replaced.
func (p SearchPatch) Apply(s Search) Search {
	s.Criteria = s.Criteria.Clone()
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.Locations != nil {
		s.Locations = p.Locations.Clone()
	}
	if p.PropertyTypes != nil {
		s.PropertyTypes = p.PropertyTypes.Clone()
	}
	if p.MinBedrooms != nil {
		s.MinBedrooms = *p.MinBedrooms
	}
	if p.MaxBedrooms != nil {
		s.MaxBedrooms = *p.MaxBedrooms
	}
	if p.MinPrice != nil {
		s.MinPrice = *p.MinPrice
	}
	if p.MaxPrice != nil {
		s.MaxPrice = *p.MaxPrice
	}
	if p.MustHaves != nil {
		s.MustHaves = p.MustHaves.Clone()
	}
	return s
}

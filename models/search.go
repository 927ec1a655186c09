package models

import (
	"github.com/propertylabs/rental-radar-alerts-sub000/criteria"
	"github.com/propertylabs/rental-radar-alerts-sub000/data"
)

// Search is the wire format of a saved search: every criteria field sits flat next to the
// search fields, the same way the columns are persisted.
type Search struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	Name          string `json:"name"`
	Notifications bool   `json:"notifications"`
	CreatedAt     int64  `json:"createdAt"`
	UpdatedAt     int64  `json:"updatedAt"`
	criteria.Criteria
}

// CriteriaUI is the nested criteria object used by forms. A nil bound means "no bound".
type CriteriaUI struct {
	PropertyTypes criteria.StringList `json:"propertyTypes"`
	MinBedrooms   *int                `json:"minBedrooms,omitempty" validate:"omitempty,gte=-1"`
	MaxBedrooms   *int                `json:"maxBedrooms,omitempty" validate:"omitempty,gte=-1"`
	MinPrice      *int                `json:"minPrice,omitempty" validate:"omitempty,gte=0"`
	MaxPrice      *int                `json:"maxPrice,omitempty" validate:"omitempty,gte=0"`
	MustHaves     criteria.StringList `json:"mustHaves"`
}

// SearchUI is the form format: locations, name and notifications at the top level and the
// remaining criteria nested.
type SearchUI struct {
	ID            string              `json:"id,omitempty"`
	UserID        string              `json:"userId,omitempty"`
	Name          string              `json:"name"`
	Notifications bool                `json:"notifications"`
	CreatedAt     int64               `json:"createdAt,omitempty"`
	UpdatedAt     int64               `json:"updatedAt,omitempty"`
	Locations     criteria.StringList `json:"locations"`
	Criteria      CriteriaUI          `json:"criteria"`
}

func ToUIFormat(s Search) SearchUI {
	return SearchUI{
		ID:            s.ID,
		UserID:        s.UserID,
		Name:          s.Name,
		Notifications: s.Notifications,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		Locations:     s.Locations.Clone(),
		Criteria: CriteriaUI{
			PropertyTypes: s.PropertyTypes.Clone(),
			MinBedrooms:   boundOrNil(s.MinBedrooms, criteria.NoBedroomBound),
			MaxBedrooms:   boundOrNil(s.MaxBedrooms, criteria.NoBedroomBound),
			MinPrice:      boundOrNil(s.MinPrice, criteria.NoMinPrice),
			MaxPrice:      boundOrNil(s.MaxPrice, criteria.NoMaxPrice),
			MustHaves:     s.MustHaves.Clone(),
		},
	}
}

func ToWireFormat(ui SearchUI) Search {
	return Search{
		ID:            ui.ID,
		UserID:        ui.UserID,
		Name:          ui.Name,
		Notifications: ui.Notifications,
		CreatedAt:     ui.CreatedAt,
		UpdatedAt:     ui.UpdatedAt,
		Criteria:      ui.Criteria.toCriteria(ui.Locations),
	}
}

func (c CriteriaUI) toCriteria(locations criteria.StringList) criteria.Criteria {
	return criteria.Criteria{
		Locations:     locations.Clone(),
		PropertyTypes: c.PropertyTypes.Clone(),
		MinBedrooms:   valueOr(c.MinBedrooms, criteria.NoBedroomBound),
		MaxBedrooms:   valueOr(c.MaxBedrooms, criteria.NoBedroomBound),
		MinPrice:      valueOr(c.MinPrice, criteria.NoMinPrice),
		MaxPrice:      valueOr(c.MaxPrice, criteria.NoMaxPrice),
		MustHaves:     c.MustHaves.Clone(),
	}
}

func FromDataSearch(s data.Search) Search {
	return Search{
		ID:            s.ID,
		UserID:        s.UserID,
		Name:          s.Name,
		Notifications: s.Notifications,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		Criteria:      s.Criteria.Clone(),
	}
}

func FromDataSearches(searches []data.Search) []Search {
	out := make([]Search, 0, len(searches))
	for _, s := range searches {
		out = append(out, FromDataSearch(s))
	}
	return out
}

type CreateSearchRequest struct {
	OwnerID       string              `json:"ownerId,omitempty"`
	Name          string              `json:"name" validate:"required"`
	Locations     criteria.StringList `json:"locations" validate:"dive,max=8"`
	Criteria      CriteriaUI          `json:"criteria"`
	Notifications *bool               `json:"notifications,omitempty"`
}

// ToDataSearch converts the form into a row. Notifications default to on.
func (r CreateSearchRequest) ToDataSearch() data.Search {
	notifications := true
	if r.Notifications != nil {
		notifications = *r.Notifications
	}
	return data.Search{
		Name:          r.Name,
		Notifications: notifications,
		Criteria:      r.Criteria.toCriteria(r.Locations),
	}
}

// UpdateSearchRequest carries a subset of the persisted fields. Absent fields stay as they are.
type UpdateSearchRequest struct {
	OwnerID       string               `json:"ownerId,omitempty"`
	Name          *string              `json:"name,omitempty"`
	Notifications *bool                `json:"notifications,omitempty"`
	Locations     *criteria.StringList `json:"locations,omitempty"`
	PropertyTypes *criteria.StringList `json:"propertyTypes,omitempty"`
	MinBedrooms   *int                 `json:"minBedrooms,omitempty" validate:"omitempty,gte=-1"`
	MaxBedrooms   *int                 `json:"maxBedrooms,omitempty" validate:"omitempty,gte=-1"`
	MinPrice      *int                 `json:"minPrice,omitempty" validate:"omitempty,gte=0"`
	MaxPrice      *int                 `json:"maxPrice,omitempty" validate:"omitempty,gte=0"`
	MustHaves     *criteria.StringList `json:"mustHaves,omitempty"`
}

func (r UpdateSearchRequest) ToDataPatch() data.SearchPatch {
	return data.SearchPatch{
		Name:          r.Name,
		Notifications: r.Notifications,
		Locations:     r.Locations,
		PropertyTypes: r.PropertyTypes,
		MinBedrooms:   r.MinBedrooms,
		MaxBedrooms:   r.MaxBedrooms,
		MinPrice:      r.MinPrice,
		MaxPrice:      r.MaxPrice,
		MustHaves:     r.MustHaves,
	}
}

func (r UpdateSearchRequest) IsEmpty() bool {
	return r.ToDataPatch().IsEmpty()
}

type DeleteSearchRequest struct {
	OwnerID  string `json:"ownerId,omitempty"`
	SearchID string `json:"searchId,omitempty"`
}

type UpdateSearchResponse struct {
	Message string `json:"message"`
	Search  Search `json:"search"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func boundOrNil(v, unset int) *int {
	if v == unset {
		return nil
	}
	return &v
}

func valueOr(p *int, unset int) int {
	if p == nil {
		return unset
	}
	return *p
}

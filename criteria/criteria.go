package criteria

import (
	"fmt"
	"sort"
	"strings"

	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
	"github.com/propertylabs/rental-radar-alerts-sub000/enums"
)

const (
	NoBedroomBound = -1
	NoMinPrice     = 0
	NoMaxPrice     = 25000

	MaxNameLength = 30
)

// Criteria holds the filter attributes of a saved search. The json tags are the flat wire
// names, the db tags the search_criteria columns.
type Criteria struct {
	Locations     StringList `json:"locations" db:"locations"`
	PropertyTypes StringList `json:"propertyTypes" db:"property_types"`
	MinBedrooms   int        `json:"minBedrooms" db:"min_bedrooms"`
	MaxBedrooms   int        `json:"maxBedrooms" db:"max_bedrooms"`
	MinPrice      int        `json:"minPrice" db:"min_price"`
	MaxPrice      int        `json:"maxPrice" db:"max_price"`
	MustHaves     StringList `json:"mustHaves" db:"must_haves"`
}

// Default returns criteria with empty lists and every bound unset.
func Default() Criteria {
	return Criteria{
		Locations:     StringList{},
		PropertyTypes: StringList{},
		MinBedrooms:   NoBedroomBound,
		MaxBedrooms:   NoBedroomBound,
		MinPrice:      NoMinPrice,
		MaxPrice:      NoMaxPrice,
		MustHaves:     StringList{},
	}
}

// Normalize returns the canonical form of c. It is idempotent.
func Normalize(c Criteria) Criteria {
	out := Criteria{
		Locations:     NormalizeLocations(c.Locations),
		PropertyTypes: normalizePropertyTypes(c.PropertyTypes),
		MinBedrooms:   normalizeBedrooms(c.MinBedrooms),
		MaxBedrooms:   normalizeBedrooms(c.MaxBedrooms),
		MinPrice:      c.MinPrice,
		MaxPrice:      c.MaxPrice,
		MustHaves:     normalizeMustHaves(c.MustHaves),
	}

	if out.MinPrice < NoMinPrice {
		out.MinPrice = NoMinPrice
	}
	if out.MinPrice > NoMaxPrice {
		out.MinPrice = NoMaxPrice
	}
	// A max of zero can't be meant literally, treat it as unset.
	if out.MaxPrice <= 0 || out.MaxPrice > NoMaxPrice {
		out.MaxPrice = NoMaxPrice
	}

	return out
}

// NormalizeLocations upper-cases and trims postcode prefixes and drops empty entries.
// Order and duplicates are kept.
func NormalizeLocations(locations StringList) StringList {
	out := make(StringList, 0, len(locations))
	for _, l := range locations {
		l = strings.ToUpper(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

func normalizePropertyTypes(types StringList) StringList {
	out := make(StringList, 0, len(types))
	for _, t := range types {
		t = strings.TrimSpace(t)
		for _, known := range enums.PropertyTypes {
			if strings.EqualFold(t, string(known)) {
				t = string(known)
				break
			}
		}
		if t == "" || out.Contains(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func normalizeMustHaves(tags StringList) StringList {
	out := make(StringList, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || out.Contains(tag) {
			continue
		}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func normalizeBedrooms(n int) int {
	if n < 0 {
		return NoBedroomBound
	}
	return n
}

// Validate checks the vocabularies and the Room exclusivity rule.
// Bound ordering is deliberately not enforced.
func Validate(c Criteria) error {
	hasRoom := false
	for _, t := range c.PropertyTypes {
		pt := enums.ParsePropertyType(t)
		if pt == enums.PropertyTypeInvalid {
			return domain.NewInvalidArgumentError(fmt.Sprintf("unknown property type %q", t))
		}
		if pt == enums.PropertyTypeRoom {
			hasRoom = true
		}
	}
	if hasRoom && len(c.PropertyTypes) > 1 {
		return domain.NewInvalidArgumentError("Room can't be combined with other property types")
	}

	for _, tag := range c.MustHaves {
		if enums.ParseMustHave(tag) == enums.MustHaveInvalid {
			return domain.NewInvalidArgumentError(fmt.Sprintf("unknown must-have %q", tag))
		}
	}

	return nil
}

// ValidateName trims the name and checks its length.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewInvalidArgumentError("name is required")
	}
	if len([]rune(name)) > MaxNameLength {
		return "", domain.NewInvalidArgumentError(fmt.Sprintf("name must be at most %d characters", MaxNameLength))
	}
	return name, nil
}

// Clone returns a deep copy of c.
func (c Criteria) Clone() Criteria {
	c.Locations = c.Locations.Clone()
	c.PropertyTypes = c.PropertyTypes.Clone()
	c.MustHaves = c.MustHaves.Clone()
	return c
}

func (c Criteria) HasRoom() bool {
	return c.PropertyTypes.Contains(string(enums.PropertyTypeRoom))
}

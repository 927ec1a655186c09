package enums

type PropertyType string

const (
	PropertyTypeInvalid PropertyType = ""

	PropertyTypeHouse PropertyType = "House"
	PropertyTypeFlat  PropertyType = "Flat"

	// PropertyTypeRoom is a single room in a shared property.
	// It can't be combined with House or Flat in the same search.
	PropertyTypeRoom PropertyType = "Room"
)

var PropertyTypes = []PropertyType{PropertyTypeHouse, PropertyTypeFlat, PropertyTypeRoom}

func ParsePropertyType(s string) PropertyType {
	for _, t := range PropertyTypes {
		if string(t) == s {
			return t
		}
	}
	return PropertyTypeInvalid
}

// ConflictsWith reports whether t and other can't be selected together.
func (t PropertyType) ConflictsWith(other PropertyType) bool {
	if t == other {
		return false
	}
	return t == PropertyTypeRoom || other == PropertyTypeRoom
}

package criteria

import (
	"time"

	"github.com/propertylabs/rental-radar-alerts-sub000/enums"
)

const (
	RoomConflictMessage = "Room can't be combined with House or Flat."

	// NoticeDuration is how long a conflict notice stays visible.
	NoticeDuration = 3 * time.Second
)

// Notice is a transient message shown next to a form field.
type Notice struct {
	Text string
	At   time.Time
}

// Visible returns the notice text, or "" once NoticeDuration has passed.
func (n Notice) Visible(now time.Time) string {
	if n.Text == "" || now.Sub(n.At) >= NoticeDuration {
		return ""
	}
	return n.Text
}

// TogglePropertyType adds or removes t. Adding Room next to House or Flat, or the reverse, is
// refused: the list comes back unchanged and ok is false.
func TogglePropertyType(types StringList, t enums.PropertyType) (out StringList, ok bool) {
	if types.Contains(string(t)) {
		return Toggle(types, string(t)), true
	}
	for _, existing := range types {
		if t.ConflictsWith(enums.ParsePropertyType(existing)) {
			return types.Clone(), false
		}
	}
	return append(types.Clone(), string(t)), true
}

// Toggle removes every occurrence of value, or appends it when absent.
func Toggle(list StringList, value string) StringList {
	if !list.Contains(value) {
		return append(list.Clone(), value)
	}
	out := make(StringList, 0, len(list))
	for _, item := range list {
		if item != value {
			out = append(out, item)
		}
	}
	return out
}

// The bound setters clamp to the sentinels and keep min <= max by moving the opposite bound.

func (c *Criteria) SetMinPrice(v int) {
	if v < NoMinPrice {
		v = NoMinPrice
	}
	if v > NoMaxPrice {
		v = NoMaxPrice
	}
	c.MinPrice = v
	if c.MaxPrice != NoMaxPrice && c.MaxPrice < v {
		c.MaxPrice = v
	}
}

func (c *Criteria) SetMaxPrice(v int) {
	if v <= 0 || v > NoMaxPrice {
		v = NoMaxPrice
	}
	c.MaxPrice = v
	if c.MinPrice > v {
		c.MinPrice = v
	}
}

func (c *Criteria) SetMinBedrooms(v int) {
	if v < 0 {
		v = NoBedroomBound
	}
	c.MinBedrooms = v
	if v != NoBedroomBound && c.MaxBedrooms != NoBedroomBound && c.MaxBedrooms < v {
		c.MaxBedrooms = v
	}
}

func (c *Criteria) SetMaxBedrooms(v int) {
	if v < 0 {
		v = NoBedroomBound
	}
	c.MaxBedrooms = v
	if v != NoBedroomBound && c.MinBedrooms > v {
		c.MinBedrooms = v
	}
}

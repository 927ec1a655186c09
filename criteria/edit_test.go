package criteria

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/propertylabs/rental-radar-alerts-sub000/enums"
)

func TestTogglePropertyType(t *testing.T) {
	tests := []struct {
		name   string
		types  StringList
		toggle enums.PropertyType
		want   StringList
		ok     bool
	}{
		{"room from empty", StringList{}, enums.PropertyTypeRoom, StringList{"Room"}, true},
		{"room after flat", StringList{"Flat"}, enums.PropertyTypeRoom, StringList{"Flat"}, false},
		{"house after room", StringList{"Room"}, enums.PropertyTypeHouse, StringList{"Room"}, false},
		{"house after flat", StringList{"Flat"}, enums.PropertyTypeHouse, StringList{"Flat", "House"}, true},
		{"deselect flat", StringList{"House", "Flat"}, enums.PropertyTypeFlat, StringList{"House"}, true},
		{"deselect room", StringList{"Room"}, enums.PropertyTypeRoom, StringList{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TogglePropertyType(tt.types, tt.toggle)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestTogglePropertyType_DoesNotMutateInput(t *testing.T) {
	in := make(StringList, 1, 4)
	in[0] = "Flat"
	_, _ = TogglePropertyType(in, enums.PropertyTypeHouse)
	assert.Equal(t, StringList{"Flat"}, in)
}

func TestNotice_Expires(t *testing.T) {
	start := time.Unix(1000, 0)
	n := Notice{Text: RoomConflictMessage, At: start}

	assert.Equal(t, RoomConflictMessage, n.Visible(start.Add(2999*time.Millisecond)))
	assert.Empty(t, n.Visible(start.Add(3*time.Second)))
	assert.Empty(t, Notice{}.Visible(start))
}

func TestBoundSetters(t *testing.T) {
	c := Default()

	c.SetMaxPrice(1000)
	c.SetMinPrice(1500)
	assert.Equal(t, 1500, c.MinPrice)
	assert.Equal(t, 1500, c.MaxPrice, "max follows a larger min")

	c.SetMaxPrice(800)
	assert.Equal(t, 800, c.MinPrice, "min follows a smaller max")
	assert.Equal(t, 800, c.MaxPrice)

	c.SetMaxPrice(0)
	assert.Equal(t, NoMaxPrice, c.MaxPrice)
	c.SetMinPrice(-20)
	assert.Equal(t, NoMinPrice, c.MinPrice)

	c.SetMinBedrooms(3)
	assert.Equal(t, NoBedroomBound, c.MaxBedrooms, "unbounded max stays unbounded")
	c.SetMaxBedrooms(2)
	assert.Equal(t, 2, c.MinBedrooms)
	c.SetMinBedrooms(-7)
	assert.Equal(t, NoBedroomBound, c.MinBedrooms)
}

func TestCity_HasDistrict(t *testing.T) {
	manchester, ok := FindCity("manchester")
	assert.True(t, ok)
	assert.True(t, manchester.HasDistrict("m1"))
	assert.False(t, manchester.HasDistrict("M99"))
	assert.False(t, manchester.HasDistrict("LS1"))
}

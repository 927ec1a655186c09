package criteria

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
)

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []Criteria{
		{},
		Default(),
		{
			Locations:     StringList{" m1", "M2 ", "", "m1"},
			PropertyTypes: StringList{"flat", "House", "Flat"},
			MinBedrooms:   -7,
			MaxBedrooms:   3,
			MinPrice:      -10,
			MaxPrice:      0,
			MustHaves:     StringList{"Garden", "parking", "garden"},
		},
		{MinPrice: 30000, MaxPrice: 99999},
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		assert.Equal(t, once, twice)
	}
}

func TestNormalize_CoercesNilListsAndSentinels(t *testing.T) {
	c := Normalize(Criteria{})

	assert.NotNil(t, c.Locations)
	assert.NotNil(t, c.PropertyTypes)
	assert.NotNil(t, c.MustHaves)
	assert.Equal(t, NoBedroomBound, c.MinBedrooms)
	assert.Equal(t, NoBedroomBound, c.MaxBedrooms)
	assert.Equal(t, NoMinPrice, c.MinPrice)
	assert.Equal(t, NoMaxPrice, c.MaxPrice)
}

func TestNormalize_Canonicalizes(t *testing.T) {
	c := Normalize(Criteria{
		Locations:     StringList{" m1", "ls6"},
		PropertyTypes: StringList{"flat", "HOUSE", "Flat"},
		MustHaves:     StringList{"Parking", "garden", "parking"},
		MaxPrice:      1200,
	})

	assert.Equal(t, StringList{"M1", "LS6"}, c.Locations)
	assert.Equal(t, StringList{"Flat", "House"}, c.PropertyTypes)
	assert.Equal(t, StringList{"garden", "parking"}, c.MustHaves)
	assert.Equal(t, 1200, c.MaxPrice)
}

func TestValidate_RoomExclusive(t *testing.T) {
	err := Validate(Criteria{PropertyTypes: StringList{"Room", "Flat"}})
	assert.True(t, domain.IsInvalidArgument(err))

	assert.NoError(t, Validate(Criteria{PropertyTypes: StringList{"Room"}}))
	assert.NoError(t, Validate(Criteria{PropertyTypes: StringList{"House", "Flat"}}))
}

func TestValidate_UnknownVocabulary(t *testing.T) {
	assert.True(t, domain.IsInvalidArgument(Validate(Criteria{PropertyTypes: StringList{"Castle"}})))
	assert.True(t, domain.IsInvalidArgument(Validate(Criteria{MustHaves: StringList{"moat"}})))
}

func TestValidateName(t *testing.T) {
	name, err := ValidateName("  City Flat ")
	require.NoError(t, err)
	assert.Equal(t, "City Flat", name)

	_, err = ValidateName("   ")
	assert.True(t, domain.IsInvalidArgument(err))

	_, err = ValidateName("a name that is far too long for the card")
	assert.True(t, domain.IsInvalidArgument(err))
}

func TestStringList_UnmarshalCoercesNonArrays(t *testing.T) {
	var payload struct {
		A StringList `json:"a"`
		B StringList `json:"b"`
		C StringList `json:"c"`
		D StringList `json:"d"`
	}
	err := json.Unmarshal([]byte(`{"a": null, "b": "M1", "c": {"x": 1}, "d": ["M1", "M2"]}`), &payload)
	require.NoError(t, err)

	assert.Equal(t, StringList{}, payload.A)
	assert.Equal(t, StringList{}, payload.B)
	assert.Equal(t, StringList{}, payload.C)
	assert.Equal(t, StringList{"M1", "M2"}, payload.D)
}

func TestStringList_RejectsNonStringElements(t *testing.T) {
	var l StringList
	err := json.Unmarshal([]byte(`["M1", 2]`), &l)
	assert.True(t, domain.IsInvalidArgument(err))
}

func TestStringList_MarshalNilAsEmptyArray(t *testing.T) {
	b, err := json.Marshal(struct {
		L StringList `json:"l"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"l": []}`, string(b))
}

func TestStringList_ValueScan(t *testing.T) {
	v, err := StringList{"M1", "M2"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["M1","M2"]`, v)

	var fromString StringList
	require.NoError(t, fromString.Scan(`["M1"]`))
	assert.Equal(t, StringList{"M1"}, fromString)

	var fromBytes StringList
	require.NoError(t, fromBytes.Scan([]byte(`[]`)))
	assert.Equal(t, StringList{}, fromBytes)

	var fromNil StringList
	require.NoError(t, fromNil.Scan(nil))
	assert.Equal(t, StringList{}, fromNil)

	assert.Error(t, fromNil.Scan(42))
}

func TestClone_DoesNotShareArrays(t *testing.T) {
	orig := Criteria{Locations: StringList{"M1"}}
	clone := orig.Clone()
	clone.Locations[0] = "M2"

	assert.Equal(t, "M1", orig.Locations[0])
}

package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostcodeArea(t *testing.T) {
	assert.Equal(t, "LS", PostcodeArea("LS6"))
	assert.Equal(t, "L", PostcodeArea("l1"))
	assert.Equal(t, "EC", PostcodeArea(" EC1 "))
	assert.Equal(t, "M", PostcodeArea("M"))
	assert.Equal(t, "", PostcodeArea("12"))
}

func TestInferCity(t *testing.T) {
	city, ok := InferCity(StringList{"M1", "M2"})
	assert.True(t, ok)
	assert.Equal(t, "Manchester", city.Name)

	city, ok = InferCity(StringList{"LS6"})
	assert.True(t, ok)
	assert.Equal(t, "Leeds", city.Name)

	city, ok = InferCity(StringList{"L1"})
	assert.True(t, ok)
	assert.Equal(t, "Liverpool", city.Name)

	city, ok = InferCity(StringList{"ZZ9", "SW4"})
	assert.True(t, ok)
	assert.Equal(t, "London", city.Name)

	_, ok = InferCity(StringList{})
	assert.False(t, ok)
}

func TestCity_Contains(t *testing.T) {
	london, ok := FindCity("london")
	assert.True(t, ok)

	assert.True(t, london.Contains("SW11"))
	assert.False(t, london.Contains("M1"))
}

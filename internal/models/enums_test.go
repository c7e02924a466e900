package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSCLClassValidity(t *testing.T) {
	for v := 0; v <= 11; v++ {
		assert.True(t, SCLClass(v).IsValid(), "code %d is part of the taxonomy", v)
	}

	assert.False(t, SCLClass(-1).IsValid())
	assert.False(t, SCLClass(12).IsValid())
	assert.False(t, SCLClass(99).IsValid())
}

func TestSCLClassNames(t *testing.T) {
	assert.Equal(t, "NO_DATA", SCLNoData.Name())
	assert.Equal(t, "VEGETATION", SCLVegetation.Name())
	assert.Equal(t, "SNOW_ICE", SCLSnowIce.Name())
	assert.Equal(t, "UNKNOWN", SCLClass(99).Name())
}

func TestModelTypeValidity(t *testing.T) {
	assert.True(t, ModelSegmentation.IsValid())
	assert.True(t, ModelClassification.IsValid())
	assert.False(t, ModelType("REGRESSION").IsValid())
}

func TestIsValidDtype(t *testing.T) {
	assert.True(t, IsValidDtype("uint8"))
	assert.True(t, IsValidDtype("float32"))
	assert.False(t, IsValidDtype("complex128"))
}

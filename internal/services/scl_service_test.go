package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Validation happens before any repository call, so these run against a
// service with no wiring.

func TestSCLQuery_RejectsInvalidClassification(t *testing.T) {
	service := NewSCLService(nil, nil)

	for _, code := range []int{-1, 12, 99} {
		_, err := service.Query(context.Background(), SCLQuery{Classifications: []int{code}})

		require.Error(t, err, "code %d should be rejected", code)
		assert.Contains(t, err.Error(), "badrequest")
		assert.Contains(t, err.Error(), "invalid scene classification")
	}
}

func TestSCLQuery_RejectsMixedValidAndInvalid(t *testing.T) {
	service := NewSCLService(nil, nil)

	_, err := service.Query(context.Background(), SCLQuery{Classifications: []int{4, 6, 12}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "badrequest")
}

func TestSCLQuery_RejectsMalformedGeometry(t *testing.T) {
	service := NewSCLService(nil, nil)

	_, err := service.Query(context.Background(), SCLQuery{Geometry: "{not json"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "badrequest")
}

package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrReferenceDataUnavailable", ErrReferenceDataUnavailable},
		{"ErrResolutionAmbiguous", ErrResolutionAmbiguous},
		{"ErrGroupingInvariant", ErrGroupingInvariant},
		{"ErrStorageUnavailable", ErrStorageUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Distinct tests that no sentinel matches another
func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInvalidInput, ErrReferenceDataUnavailable,
		ErrResolutionAmbiguous, ErrGroupingInvariant, ErrStorageUnavailable,
	}
	for i, a := range all {
		for j, b := range all {
			assert.Equal(t, i == j, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
}

// TestErrors_Wrapped tests that wrapped sentinels are still recognised
func TestErrors_Wrapped(t *testing.T) {
	err := fmt.Errorf("load census: %w", ErrReferenceDataUnavailable)
	assert.ErrorIs(t, err, ErrReferenceDataUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)
}

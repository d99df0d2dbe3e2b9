package postprocessors

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

func TestSanitiser_Process(t *testing.T) {
	in := domain.Document{
		"inf":         "P1",
		"label":       "",
		"bucketId":    nil,
		"score":       math.NaN(),
		"count":       json.Number("3"),
		"rncpInfos":   []any{},
		"hasRncp":     false,
		"accredit":    map[string]any{"startDate": nil, "endDate": "2025"},
		"locations":   []any{nil, map[string]any{"geo": nil, "id": "x"}, math.NaN(), "kept"},
		"institution": map[string]any{},
	}

	out, err := NewSanitiser().Process(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, domain.Document{
		"inf":         "P1",
		"label":       "",
		"count":       json.Number("3"),
		"rncpInfos":   []any{},
		"hasRncp":     false,
		"accredit":    map[string]any{"endDate": "2025"},
		"locations":   []any{map[string]any{"id": "x"}, "kept"},
		"institution": map[string]any{},
	}, out)
}

func TestSanitiser_DoesNotMutateInput(t *testing.T) {
	in := domain.Document{"a": nil, "b": map[string]any{"c": nil}}

	_, err := NewSanitiser().Process(context.Background(), in)
	require.NoError(t, err)

	assert.Contains(t, in, "a")
	assert.Contains(t, in["b"], "c")
}

func TestFieldDropper_Process(t *testing.T) {
	in := domain.Document{"inf": "P1", "locations": []any{}, "etapes": []any{}}

	out, err := NewFieldDropper("locations", "missing").Process(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, domain.Document{"inf": "P1", "etapes": []any{}}, out)
	assert.Contains(t, in, "locations", "input is left untouched")
	assert.Equal(t, NameDropFields, NewFieldDropper().Name())
}

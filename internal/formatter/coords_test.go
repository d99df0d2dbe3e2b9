package formatter

import (
	"encoding/json"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Point
		ok    bool
	}{
		{"float slice", []float64{2.35, 48.85}, Point{2.35, 48.85}, true},
		{"any slice", []any{2.35, 48.85}, Point{2.35, 48.85}, true},
		{"json numbers", []any{json.Number("2.35"), json.Number("48.85")}, Point{2.35, 48.85}, true},
		{"json string", "[2.35, 48.85]", Point{2.35, 48.85}, true},
		{"comma string", "2.35,48.85", Point{2.35, 48.85}, true},
		{"semicolon string", "2.35; 48.85", Point{2.35, 48.85}, true},
		{"negative values", "[-1.5,-47]", Point{-1.5, -47}, true},
		{"point", Point{1, 2}, Point{1, 2}, true},
		{"nil", nil, Point{}, false},
		{"empty string", "", Point{}, false},
		{"garbage", "not a pair", Point{}, false},
		{"one value", []float64{1}, Point{}, false},
		{"three values", "[1, 2, 3]", Point{}, false},
		{"text inside slice", []any{"a", 2.0}, Point{}, false},
		{"nan", []float64{math.NaN(), 1}, Point{}, false},
		{"infinite", []float64{math.Inf(1), 1}, Point{}, false},
		{"map", map[string]any{"x": 1}, Point{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCoordinates(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCoordinates_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const tolerance = 1e-9

	forms := map[string]func(x, y string) any{
		"json":      func(x, y string) any { return "[" + x + ", " + y + "]" },
		"comma":     func(x, y string) any { return x + "," + y },
		"semicolon": func(x, y string) any { return x + ";" + y },
		"space":     func(x, y string) any { return x + " " + y },
	}

	for i := 0; i < 200; i++ {
		lon := rng.Float64()*360 - 180
		lat := rng.Float64()*180 - 90
		x := strconv.FormatFloat(lon, 'f', -1, 64)
		y := strconv.FormatFloat(lat, 'f', -1, 64)

		for name, form := range forms {
			got, ok := ParseCoordinates(form(x, y))
			require.True(t, ok, "%s form of (%s, %s)", name, x, y)
			assert.InDelta(t, lon, got.X, tolerance, name)
			assert.InDelta(t, lat, got.Y, tolerance, name)
		}

		got, ok := ParseCoordinates([]float64{lon, lat})
		require.True(t, ok)
		assert.Equal(t, Point{lon, lat}, got)

		got, ok = ParseGeoloc(FormatGeoloc("Campus", Point{lon, lat}))
		require.True(t, ok)
		assert.InDelta(t, lon, got.X, tolerance)
		assert.InDelta(t, lat, got.Y, tolerance)
	}
}

func TestParseGeoloc(t *testing.T) {
	t.Run("returns lon then lat", func(t *testing.T) {
		got, ok := ParseGeoloc("Université de Paris###48.85###2.35")
		require.True(t, ok)
		assert.Equal(t, Point{X: 2.35, Y: 48.85}, got)
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		for _, in := range []string{"", "name", "name###48.85", "name###lat###lon", "name###NaN###2"} {
			_, ok := ParseGeoloc(in)
			assert.False(t, ok, in)
		}
	})
}

package formatter

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Point is a coordinate pair in the order it was given.
// For GeoJSON sources this is (longitude, latitude).
type Point struct {
	X float64
	Y float64
}

const geolocSeparator = "###"

var pairPattern = regexp.MustCompile(
	`^\s*\[?\s*(-?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?)\s*[,;\s]\s*(-?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?)\s*\]?\s*$`,
)

// ParseCoordinates reads a coordinate pair from a literal pair, a JSON
// encoded pair or a delimited numeric pair. The first form that parses wins.
// Anything else yields ok=false.
func ParseCoordinates(v any) (Point, bool) {
	switch val := v.(type) {
	case nil:
		return Point{}, false
	case Point:
		return checked(val.X, val.Y)
	case *Point:
		if val == nil {
			return Point{}, false
		}
		return checked(val.X, val.Y)
	case []float64:
		if len(val) != 2 {
			return Point{}, false
		}
		return checked(val[0], val[1])
	case [2]float64:
		return checked(val[0], val[1])
	case []any:
		if len(val) != 2 {
			return Point{}, false
		}
		x, okX := toFloat(val[0])
		y, okY := toFloat(val[1])
		if !okX || !okY {
			return Point{}, false
		}
		return checked(x, y)
	case string:
		return parseCoordinateString(val)
	default:
		return Point{}, false
	}
}

func parseCoordinateString(s string) (Point, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Point{}, false
	}

	var pair []any
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&pair); err == nil {
		if p, ok := ParseCoordinates(pair); ok {
			return p, true
		}
	}

	m := pairPattern.FindStringSubmatch(s)
	if m == nil {
		return Point{}, false
	}
	x, errX := strconv.ParseFloat(m[1], 64)
	y, errY := strconv.ParseFloat(m[2], 64)
	if errX != nil || errY != nil {
		return Point{}, false
	}
	return checked(x, y)
}

// ParseGeoloc reads the directory's packed name###lat###lon format and
// returns the point as (lon, lat).
func ParseGeoloc(geoloc string) (Point, bool) {
	parts := strings.Split(geoloc, geolocSeparator)
	if len(parts) < 3 {
		return Point{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return Point{}, false
	}
	return checked(lon, lat)
}

// FormatGeoloc packs a name and a (lon, lat) point as name###lat###lon.
func FormatGeoloc(name string, p Point) string {
	return name + geolocSeparator + formatFloat(p.Y) + geolocSeparator + formatFloat(p.X)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// checked rejects NaN and infinite components.
func checked(x, y float64) (Point, bool) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

package domain

// LocationRole tags what a location is to a program.
type LocationRole string

// Location roles.
const (
	RoleSite        LocationRole = "site"
	RoleInstitution LocationRole = "etablissement"
)

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// NewGeoPoint builds a point from a (lon, lat) pair.
func NewGeoPoint(lon, lat float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

// Address is a postal address. Empty fields are unknown.
type Address struct {
	Street      string `json:"street,omitempty"`
	StreetLine2 string `json:"streetLine2,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	City        string `json:"city,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
}

// IsEmpty returns true if no field is populated.
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// Location is a deduplicated physical or administrative place.
type Location struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Address *Address       `json:"address,omitempty"`
	Geo     *GeoPoint      `json:"geo,omitempty"`
	Types   []LocationRole `json:"types"`
}

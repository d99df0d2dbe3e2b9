package formatter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

const unknownLocation = "unknown"

// Collector deduplicates the locations met while formatting one program.
// A location's key is its explicit id, else its coordinates rounded to six
// decimals, else its name.
type Collector struct {
	order []string
	byKey map[string]*domain.Location
}

// NewCollector creates an empty location collector.
func NewCollector() *Collector {
	return &Collector{byKey: make(map[string]*domain.Location)}
}

// Add records a location and returns its key. Adding a location whose key
// is already known merges role tags and fills the address field by field
// while the incumbent has no street.
func (c *Collector) Add(role domain.LocationRole, id, name string, address *domain.Address, coords any) string {
	point, hasPoint := ParseCoordinates(coords)
	key := locationKey(id, name, point, hasPoint)

	if existing, ok := c.byKey[key]; ok {
		if !slices.Contains(existing.Types, role) {
			existing.Types = append(existing.Types, role)
		}
		mergeAddress(existing, address)
		if existing.Geo == nil && hasPoint {
			existing.Geo = domain.NewGeoPoint(point.X, point.Y)
		}
		if existing.Name == "" {
			existing.Name = name
		}
		return key
	}

	loc := &domain.Location{
		ID:    key,
		Name:  name,
		Types: []domain.LocationRole{role},
	}
	if address != nil && !address.IsEmpty() {
		a := *address
		loc.Address = &a
	}
	if hasPoint {
		loc.Geo = domain.NewGeoPoint(point.X, point.Y)
	}
	c.byKey[key] = loc
	c.order = append(c.order, key)
	return key
}

// AddFromSite records a site as folded by the FRESQ normaliser.
func (c *Collector) AddFromSite(site map[string]any) string {
	addr, _ := site["adresse"].(map[string]any)

	address := domain.Address{
		Street:      str(addr, "ligne1"),
		StreetLine2: str(addr, "ligne2"),
		PostalCode:  str(addr, "code_postal"),
		City:        str(addr, "ville"),
	}
	if nom := str(site, "nom"); nom != "" {
		address.SiteName = nom
	}

	var coords any
	if geo, ok := addr["geolocalisation"].(map[string]any); ok {
		coords = geo["coordinates"]
	}

	id := firstNonEmpty(str(site, "uai"), str(addr, "uai"))
	name := firstNonEmpty(str(addr, "nom_site"), str(addr, "nom"), str(addr, "nom_fresq"), str(addr, "ville"), "Site")

	return c.Add(domain.RoleSite, id, name, &address, coords)
}

// AddFromStructure records a directory structure using its packed geoloc.
func (c *Collector) AddFromStructure(ref domain.StructureRef) string {
	var coords any
	if p, ok := ParseGeoloc(ref.Geoloc); ok {
		coords = p
	}
	return c.Add(domain.RoleInstitution, ref.ID, ref.Name, nil, coords)
}

// All returns copies of the collected locations in first-seen order.
func (c *Collector) All() []domain.Location {
	out := make([]domain.Location, 0, len(c.order))
	for _, key := range c.order {
		loc := *c.byKey[key]
		loc.Types = slices.Clone(loc.Types)
		if loc.Address != nil {
			a := *loc.Address
			loc.Address = &a
		}
		out = append(out, loc)
	}
	return out
}

// Len returns the number of distinct locations.
func (c *Collector) Len() int {
	return len(c.order)
}

func locationKey(id, name string, p Point, hasPoint bool) string {
	if id != "" {
		return id
	}
	if hasPoint {
		return fmt.Sprintf("%.6f,%.6f", p.X, p.Y)
	}
	if name != "" {
		return name
	}
	return unknownLocation
}

// mergeAddress fills the incumbent's address from the incoming one while
// the incumbent has no street. Incoming non-empty fields win.
func mergeAddress(loc *domain.Location, incoming *domain.Address) {
	if incoming == nil || incoming.IsEmpty() {
		return
	}
	if loc.Address != nil && loc.Address.Street != "" {
		return
	}

	merged := domain.Address{}
	if loc.Address != nil {
		merged = *loc.Address
	}
	fill(&merged.Street, incoming.Street)
	fill(&merged.StreetLine2, incoming.StreetLine2)
	fill(&merged.PostalCode, incoming.PostalCode)
	fill(&merged.City, incoming.City)
	fill(&merged.SiteName, incoming.SiteName)
	loc.Address = &merged
}

func fill(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

func TestCollector_KeyPriority(t *testing.T) {
	c := NewCollector()

	assert.Equal(t, "0751234A", c.Add(domain.RoleSite, "0751234A", "Campus", nil, []float64{2.35, 48.85}))
	assert.Equal(t, "2.350000,48.850000", c.Add(domain.RoleSite, "", "Campus", nil, []float64{2.35, 48.85}))
	assert.Equal(t, "Campus", c.Add(domain.RoleSite, "", "Campus", nil, "garbage"))
	assert.Equal(t, "unknown", c.Add(domain.RoleSite, "", "", nil, nil))
	assert.Equal(t, 4, c.Len())
}

func TestCollector_AddIsIdempotent(t *testing.T) {
	c := NewCollector()
	addr := &domain.Address{Street: "1 rue A", City: "Paris"}

	first := c.Add(domain.RoleSite, "S1", "Site", addr, []float64{1, 2})
	before := c.All()
	second := c.Add(domain.RoleSite, "S1", "Site", addr, []float64{1, 2})

	assert.Equal(t, first, second)
	assert.Equal(t, before, c.All())
	assert.Len(t, c.All(), 1)
}

func TestCollector_MergesAddressIntoNameOnlyLocation(t *testing.T) {
	c := NewCollector()

	id1 := c.Add(domain.RoleSite, "", "Campus Nord", nil, nil)
	id2 := c.Add(domain.RoleSite, "", "Campus Nord", &domain.Address{
		Street:     "12 avenue X",
		PostalCode: "59000",
		City:       "Lille",
	}, nil)

	require.Equal(t, id1, id2)
	all := c.All()
	require.Len(t, all, 1)
	require.NotNil(t, all[0].Address)
	assert.Equal(t, "12 avenue X", all[0].Address.Street)
	assert.Equal(t, "Lille", all[0].Address.City)
}

func TestCollector_KeepsIncumbentStreet(t *testing.T) {
	c := NewCollector()

	c.Add(domain.RoleSite, "S1", "Site", &domain.Address{Street: "1 rue A"}, nil)
	c.Add(domain.RoleSite, "S1", "Site", &domain.Address{Street: "2 rue B", City: "Lyon"}, nil)

	loc := c.All()[0]
	assert.Equal(t, "1 rue A", loc.Address.Street)
	assert.Empty(t, loc.Address.City)
}

func TestCollector_FillsAddressFieldByField(t *testing.T) {
	c := NewCollector()

	c.Add(domain.RoleSite, "S1", "Site", &domain.Address{City: "Lyon", SiteName: "Nord"}, nil)
	c.Add(domain.RoleSite, "S1", "Site", &domain.Address{Street: "2 rue B"}, nil)

	assert.Equal(t, domain.Address{Street: "2 rue B", City: "Lyon", SiteName: "Nord"}, *c.All()[0].Address)
}

func TestCollector_MergesRolesAndGeo(t *testing.T) {
	c := NewCollector()

	c.Add(domain.RoleInstitution, "X", "Univ", nil, nil)
	c.Add(domain.RoleSite, "X", "Univ", nil, []float64{3, 4})
	c.Add(domain.RoleSite, "X", "Univ", nil, nil)

	loc := c.All()[0]
	assert.Equal(t, []domain.LocationRole{domain.RoleInstitution, domain.RoleSite}, loc.Types)
	require.NotNil(t, loc.Geo)
	assert.Equal(t, []float64{3, 4}, loc.Geo.Coordinates)
}

func TestCollector_AllReturnsCopies(t *testing.T) {
	c := NewCollector()
	c.Add(domain.RoleSite, "S1", "Site", &domain.Address{City: "Lyon"}, nil)

	all := c.All()
	all[0].Address.City = "changed"
	all[0].Types[0] = domain.RoleInstitution

	fresh := c.All()[0]
	assert.Equal(t, "Lyon", fresh.Address.City)
	assert.Equal(t, domain.RoleSite, fresh.Types[0])
}

func TestCollector_AddFromSite(t *testing.T) {
	c := NewCollector()

	id := c.AddFromSite(map[string]any{
		"nom": "Site Sud",
		"adresse": map[string]any{
			"ligne1":      "3 place Y",
			"code_postal": "13000",
			"ville":       "Marseille",
			"nom_site":    "IUT Sud",
			"uai":         "0131234B",
			"geolocalisation": map[string]any{
				"type":        "Point",
				"coordinates": []any{5.37, 43.29},
			},
		},
	})

	assert.Equal(t, "0131234B", id)
	loc := c.All()[0]
	assert.Equal(t, "IUT Sud", loc.Name)
	assert.Equal(t, []domain.LocationRole{domain.RoleSite}, loc.Types)
	assert.Equal(t, domain.Address{
		Street:     "3 place Y",
		PostalCode: "13000",
		City:       "Marseille",
		SiteName:   "Site Sud",
	}, *loc.Address)
	assert.Equal(t, []float64{5.37, 43.29}, loc.Geo.Coordinates)
}

func TestCollector_AddFromSiteWithoutIdentifiers(t *testing.T) {
	c := NewCollector()

	id := c.AddFromSite(map[string]any{})

	assert.Equal(t, "Site", id)
	assert.Nil(t, c.All()[0].Address)
}

func TestCollector_AddFromStructure(t *testing.T) {
	c := NewCollector()

	id := c.AddFromStructure(domain.StructureRef{ID: "pay1", Name: "Univ", Geoloc: "Univ###48.85###2.35"})

	assert.Equal(t, "pay1", id)
	loc := c.All()[0]
	assert.Equal(t, []domain.LocationRole{domain.RoleInstitution}, loc.Types)
	assert.Equal(t, []float64{2.35, 48.85}, loc.Geo.Coordinates)
}

package overpass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infrastructure-search/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestNormalizer_Normalize(t *testing.T) {
	elements := []Element{
		{
			Type: "node", ID: 1, Lat: ptr(12.9), Lon: ptr(77.6),
			Tags: map[string]string{"man_made": "mast", "tower:type": "communication", "operator": "Jio", "ref": "BLR-17"},
		},
		{
			Type: "way", ID: 2, Center: &domain.Point{Lat: 37.4, Lon: -122.1},
			Tags: map[string]string{"building": "data_center", "name:en": "Campus A"},
		},
		{
			Type: "relation", ID: 3,
			Tags: map[string]string{"power": "plant"},
		},
		{
			Type: "node", ID: 4, Lat: ptr(1), Lon: ptr(2),
		},
	}

	assets := NewNormalizer().Normalize(elements)
	require.Len(t, assets, 3)

	assert.Equal(t, "node/1", assets[0].ID)
	assert.Equal(t, "BLR-17", assets[0].Name)
	assert.Equal(t, "telecom", assets[0].Type)
	require.NotNil(t, assets[0].Operator)
	assert.Equal(t, "Jio", *assets[0].Operator)
	assert.Equal(t, 12.9, assets[0].Lat)

	assert.Equal(t, "way/2", assets[1].ID)
	assert.Equal(t, "Campus A", assets[1].Name)
	assert.Equal(t, "data_center", assets[1].Type)
	assert.Nil(t, assets[1].Operator)
	assert.Equal(t, -122.1, assets[1].Lon)
	assert.Equal(t, "data_center", assets[1].Tags["building"])

	// relation без координат отброшен
	assert.Equal(t, "node/4", assets[2].ID)
	assert.Equal(t, domain.UnnamedAsset, assets[2].Name)
	assert.Equal(t, domain.GenericAssetType, assets[2].Type)
	assert.NotNil(t, assets[2].Tags)
}

func TestNormalizer_DropsOutOfRangeCoordinates(t *testing.T) {
	elements := []Element{
		{Type: "node", ID: 1, Lat: ptr(95), Lon: ptr(10)},
		{Type: "way", ID: 2, Center: &domain.Point{Lat: 10, Lon: 181}},
		{Type: "node", ID: 3, Lat: ptr(-90), Lon: ptr(180)},
	}

	assets := NewNormalizer().Normalize(elements)
	require.Len(t, assets, 1)
	assert.Equal(t, "node/3", assets[0].ID)
}

func TestInferType(t *testing.T) {
	tests := []struct {
		name     string
		tags     map[string]string
		expected string
	}{
		{"telecom tower", map[string]string{"man_made": "tower", "tower:type": "communication"}, "telecom"},
		{"plain mast", map[string]string{"man_made": "mast"}, "tower"},
		{"data center via telecom", map[string]string{"telecom": "data_center"}, "data_center"},
		{"solar plant", map[string]string{"power": "plant", "plant:source": "solar"}, "solar"},
		{"coal plant", map[string]string{"power": "plant", "plant:source": "coal"}, "power_plant"},
		{"wind generator", map[string]string{"power": "generator", "generator:source": "wind"}, "wind_turbine"},
		{"diesel generator", map[string]string{"power": "generator", "generator:source": "diesel"}, "generator"},
		{"substation", map[string]string{"power": "substation"}, "substation"},
		{"line", map[string]string{"power": "minor_line"}, "power_line"},
		{"pylon", map[string]string{"power": "tower"}, "power_tower"},
		{"airport", map[string]string{"aeroway": "aerodrome"}, "airport"},
		{"helipad", map[string]string{"aeroway": "helipad"}, "helipad"},
		{"water works", map[string]string{"man_made": "water_works"}, "water_treatment"},
		{"port landuse", map[string]string{"landuse": "port"}, "port"},
		{"charging", map[string]string{"amenity": "charging_station"}, "ev_charging"},
		{"exchange", map[string]string{"telecom": "exchange"}, "telecom_exchange"},
		{"industrial", map[string]string{"landuse": "industrial"}, "industrial"},
		{"nothing", map[string]string{"shop": "bakery"}, "infrastructure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferType(tt.tags))
		})
	}
}

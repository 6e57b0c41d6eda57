package domain

// GeoResult - результат геокодирования названия места
type GeoResult struct {
	DisplayName       string            `json:"display_name"`
	Lat               float64           `json:"lat"`
	Lon               float64           `json:"lon"`
	BoundingBox       BoundingBox       `json:"bounding_box"`
	Type              string            `json:"type"`
	Importance        float64           `json:"importance"`
	OSMType           ElementKind       `json:"osm_type"`
	OSMID             int64             `json:"osm_id"`
	AddressComponents AddressComponents `json:"address_components"`
}

// AddressComponents - частичный адрес найденного места
type AddressComponents struct {
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	State       string `json:"state,omitempty"`
	City        string `json:"city,omitempty"`
}

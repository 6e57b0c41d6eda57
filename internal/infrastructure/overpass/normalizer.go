package overpass

import (
	"fmt"

	"github.com/infrastructure-search/internal/domain"
	"github.com/infrastructure-search/internal/pkg/geo"
)

// nameKeys - порядок выбора имени объекта
var nameKeys = []string{"name", "name:en", "ref", "description", "operator"}

type inferenceRule struct {
	assetType string
	match     func(tags map[string]string) bool
}

func tagIs(key string, values ...string) func(map[string]string) bool {
	return func(tags map[string]string) bool {
		v, ok := tags[key]
		if !ok {
			return false
		}
		for _, want := range values {
			if v == want {
				return true
			}
		}
		return false
	}
}

func allOf(preds ...func(map[string]string) bool) func(map[string]string) bool {
	return func(tags map[string]string) bool {
		for _, p := range preds {
			if !p(tags) {
				return false
			}
		}
		return true
	}
}

func anyOf(preds ...func(map[string]string) bool) func(map[string]string) bool {
	return func(tags map[string]string) bool {
		for _, p := range preds {
			if p(tags) {
				return true
			}
		}
		return false
	}
}

var isMast = tagIs("man_made", "mast", "tower")

// inferenceRules - первое совпадение определяет тип; частные случаи идут раньше общих
var inferenceRules = []inferenceRule{
	{"telecom", allOf(isMast, tagIs("tower:type", "communication"))},
	{"data_center", anyOf(tagIs("telecom", "data_center"), tagIs("building", "data_center"))},
	{"solar", allOf(tagIs("power", "plant"), tagIs("plant:source", "solar"))},
	{"power_plant", tagIs("power", "plant")},
	{"wind_turbine", allOf(tagIs("power", "generator"), tagIs("generator:source", "wind"))},
	{"solar", allOf(tagIs("power", "generator"), tagIs("generator:source", "solar"))},
	{"generator", tagIs("power", "generator")},
	{"substation", tagIs("power", "substation")},
	{"power_line", tagIs("power", "line", "minor_line")},
	{"power_tower", tagIs("power", "tower", "pole")},
	{"airport", tagIs("aeroway", "aerodrome")},
	{"helipad", tagIs("aeroway", "helipad")},
	{"water_tower", tagIs("man_made", "water_tower")},
	{"water_treatment", tagIs("man_made", "wastewater_plant", "water_works")},
	{"pipeline", tagIs("man_made", "pipeline")},
	{"bridge", tagIs("man_made", "bridge")},
	{"railway_station", tagIs("railway", "station")},
	{"port", anyOf(tagIs("industrial", "port"), tagIs("landuse", "port"))},
	{"fuel", tagIs("amenity", "fuel")},
	{"ev_charging", tagIs("amenity", "charging_station")},
	{"hospital", tagIs("amenity", "hospital")},
	{"telecom_exchange", tagIs("telecom", "exchange")},
	{"tower", isMast},
	{"industrial", anyOf(tagIs("landuse", "industrial"), func(tags map[string]string) bool {
		_, ok := tags["industrial"]
		return ok
	})},
}

// Normalizer превращает элементы ответа в объекты Asset
type Normalizer struct{}

// NewNormalizer создает нормализатор
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize пропускает элементы без координат и без центра,
// а также элементы с координатами вне допустимого диапазона
func (n *Normalizer) Normalize(elements []Element) []domain.Asset {
	assets := make([]domain.Asset, 0, len(elements))
	for _, el := range elements {
		if asset, ok := n.normalizeElement(el); ok {
			assets = append(assets, asset)
		}
	}
	return assets
}

func (n *Normalizer) normalizeElement(el Element) (domain.Asset, bool) {
	var lat, lon float64
	switch {
	case el.Lat != nil && el.Lon != nil:
		lat, lon = *el.Lat, *el.Lon
	case el.Center != nil:
		lat, lon = el.Center.Lat, el.Center.Lon
	default:
		return domain.Asset{}, false
	}
	if !geo.ValidateCoordinates(lat, lon) {
		return domain.Asset{}, false
	}

	tags := make(map[string]string, len(el.Tags))
	for k, v := range el.Tags {
		tags[k] = v
	}

	return domain.Asset{
		ID:       fmt.Sprintf("%s/%d", el.Type, el.ID),
		Name:     assetName(tags),
		Type:     InferType(tags),
		Operator: domain.StringPtr(tags["operator"]),
		Lat:      lat,
		Lon:      lon,
		Tags:     tags,
	}, true
}

func assetName(tags map[string]string) string {
	for _, key := range nameKeys {
		if v := tags[key]; v != "" {
			return v
		}
	}
	return domain.UnnamedAsset
}

// InferType возвращает канонический тип объекта по тегам
func InferType(tags map[string]string) string {
	for _, rule := range inferenceRules {
		if rule.match(tags) {
			return rule.assetType
		}
	}
	return domain.GenericAssetType
}

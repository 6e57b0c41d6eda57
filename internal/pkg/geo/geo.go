// Package geo содержит геометрию поиска: прямоугольник вокруг точки,
// расширение прямоугольника и преобразование id элемента OSM в id области.
package geo

import (
	"math"

	"github.com/infrastructure-search/internal/domain"
)

const (
	// KmPerDegree - длина градуса широты в километрах (приближение)
	KmPerDegree = 111.0

	// DefaultExpandFactor - запас вокруг прямоугольника геокодера
	DefaultExpandFactor = 1.1

	// maxAbsLatitude - у полюса cos(lat) стремится к нулю, широта зажимается
	// перед делением, а долготный размах ограничивается всем диапазоном
	maxAbsLatitude = 89.9

	relationAreaOffset int64 = 3_600_000_000
	wayAreaOffset      int64 = 2_400_000_000
)

// BoundingBoxFromPoint строит прямоугольник радиусом radiusKm вокруг точки
func BoundingBoxFromPoint(lat, lon, radiusKm float64) domain.BoundingBox {
	latDelta := radiusKm / KmPerDegree

	safeLat := clamp(lat, -maxAbsLatitude, maxAbsLatitude)
	lonDelta := radiusKm / (KmPerDegree * math.Cos(safeLat*math.Pi/180.0))

	return normalize(domain.BoundingBox{
		South: lat - latDelta,
		North: lat + latDelta,
		West:  lon - lonDelta,
		East:  lon + lonDelta,
	})
}

// Expand масштабирует прямоугольник относительно его центра.
// factor <= 0 возвращает прямоугольник без изменений.
func Expand(b domain.BoundingBox, factor float64) domain.BoundingBox {
	if factor <= 0 {
		return b
	}

	center := b.Center()
	halfLat := (b.North - b.South) / 2 * factor
	halfLon := (b.East - b.West) / 2 * factor

	return normalize(domain.BoundingBox{
		South: center.Lat - halfLat,
		North: center.Lat + halfLat,
		West:  center.Lon - halfLon,
		East:  center.Lon + halfLon,
	})
}

// AreaID переводит id элемента в id области сервиса запросов.
// Для точек (node) области не существует.
func AreaID(kind domain.ElementKind, id int64) (int64, bool) {
	switch kind {
	case domain.ElementRelation:
		return id + relationAreaOffset, true
	case domain.ElementWay:
		return id + wayAreaOffset, true
	default:
		return 0, false
	}
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// normalize зажимает границы в допустимые диапазоны. Коробка, заходящая за
// антимеридиан, обрезается по ±180 и на другую сторону не переносится.
func normalize(b domain.BoundingBox) domain.BoundingBox {
	return domain.BoundingBox{
		South: clamp(b.South, -90, 90),
		North: clamp(b.North, -90, 90),
		West:  clamp(b.West, -180, 180),
		East:  clamp(b.East, -180, 180),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

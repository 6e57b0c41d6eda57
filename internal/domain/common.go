package domain

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BoundingBox - прямоугольная область в градусах WGS84
type BoundingBox struct {
	South float64 `json:"south"`
	North float64 `json:"north"`
	West  float64 `json:"west"`
	East  float64 `json:"east"`
}

// Center возвращает центр прямоугольника
func (b BoundingBox) Center() Point {
	return Point{
		Lat: (b.South + b.North) / 2,
		Lon: (b.West + b.East) / 2,
	}
}

// Contains проверяет, лежит ли точка внутри прямоугольника (границы включительно)
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.South && p.Lat <= b.North && p.Lon >= b.West && p.Lon <= b.East
}

// ElementKind - тип элемента OSM
type ElementKind string

const (
	ElementNode     ElementKind = "node"
	ElementWay      ElementKind = "way"
	ElementRelation ElementKind = "relation"
)

// ElementKinds - все типы элементов в порядке построения запроса
var ElementKinds = []ElementKind{ElementNode, ElementWay, ElementRelation}

// ParseElementKind нормализует строковое представление типа элемента.
// Nominatim отдаёт как полные имена, так и однобуквенные (N/W/R).
func ParseElementKind(s string) (ElementKind, bool) {
	switch s {
	case "node", "N", "n":
		return ElementNode, true
	case "way", "W", "w":
		return ElementWay, true
	case "relation", "R", "r":
		return ElementRelation, true
	}
	return "", false
}

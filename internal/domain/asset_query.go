package domain

// AssetQuery - фильтр поиска объектов: тип и/или оператор плюс географическая область.
// При заданном AreaID фильтром служит область, BBox остаётся границами результата.
type AssetQuery struct {
	Type     string
	Operator string
	AreaID   *int64
	BBox     BoundingBox
}

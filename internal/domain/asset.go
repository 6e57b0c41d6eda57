package domain

const (
	// UnnamedAsset - имя объекта без name/ref/description/operator
	UnnamedAsset = "Unnamed"
	// GenericAssetType - тип объекта, для которого не сработало ни одно правило
	GenericAssetType = "infrastructure"
	// UnknownOperator - корзина статистики для объектов без оператора
	UnknownOperator = "Unknown"
)

// Asset - нормализованный объект инфраструктуры
type Asset struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Operator *string           `json:"operator"`
	Lat      float64           `json:"lat"`
	Lon      float64           `json:"lon"`
	Tags     map[string]string `json:"tags"`
}

// SearchStats - агрегированная статистика по результатам
type SearchStats struct {
	Total     int            `json:"total"`
	Operators map[string]int `json:"operators"`
	Types     map[string]int `json:"types"`
}

// SearchResult - итог выполнения поискового конвейера
type SearchResult struct {
	Results []Asset      `json:"results"`
	Stats   SearchStats  `json:"stats"`
	Bounds  *BoundingBox `json:"bounds"`
	Query   ParsedQuery  `json:"query"`
}

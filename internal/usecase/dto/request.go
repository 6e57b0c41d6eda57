package dto

// SearchRequest - запрос на поиск объектов инфраструктуры
type SearchRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}

// GeocodeRequest - запрос на геокодирование названия места
type GeocodeRequest struct {
	Query   string `json:"query" validate:"required,max=500"`
	Country string `json:"country" validate:"omitempty,len=2,alpha"`
}

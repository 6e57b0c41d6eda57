package domain

const (
	// DefaultRadiusKm - радиус поиска по умолчанию
	DefaultRadiusKm = 50
	MinRadiusKm     = 1
	MaxRadiusKm     = 500

	// MaxQueryLength - максимальная длина пользовательского запроса (в символах)
	MaxQueryLength = 500
)

// ParsedQuery - каноническое представление поискового запроса.
// Nil-поля означают отсутствие значения. После создания не изменяется.
type ParsedQuery struct {
	Type     *string `json:"type"`
	Operator *string `json:"operator"`
	Region   *string `json:"region"`
	Country  *string `json:"country"`
	Near     *string `json:"near"`
	Radius   int     `json:"radius"`
	Raw      string  `json:"raw"`
}

// HasFilter - задан ли тип или оператор
func (q ParsedQuery) HasFilter() bool {
	return q.Type != nil || q.Operator != nil
}

// HasScope - задана ли географическая область
func (q ParsedQuery) HasScope() bool {
	return q.Region != nil || q.Near != nil || q.Country != nil
}

// ClampRadius ограничивает радиус диапазоном [MinRadiusKm, MaxRadiusKm]
func ClampRadius(r int) int {
	if r < MinRadiusKm {
		return MinRadiusKm
	}
	if r > MaxRadiusKm {
		return MaxRadiusKm
	}
	return r
}

// StringValue возвращает значение указателя или пустую строку
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr возвращает указатель на s, либо nil для пустой строки
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package usecase

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/infrastructure-search/internal/domain"
	"github.com/infrastructure-search/internal/taxonomy"
)

// typeRule - фраза запроса и канонический тип
type typeRule struct {
	pattern   *regexp.Regexp
	assetType string
}

// typeRules проверяются по порядку, срабатывает первое совпадение.
// Частные формулировки стоят раньше общих: "telecom tower" раньше "tower".
var typeRules = []typeRule{
	{regexp.MustCompile(`\bdata[\s-]*cent(?:er|re)s?\b`), "data_center"},
	{regexp.MustCompile(`\b(?:telecom(?:munications?)?|telephone)\s+exchanges?\b`), "telecom_exchange"},
	{regexp.MustCompile(`\b(?:telecom(?:munications?)?|cell(?:ular)?|mobile|communications?|radio)\s+(?:towers?|masts?)\b`), "telecom"},
	{regexp.MustCompile(`\bwind\s+(?:turbines?|farms?|parks?)\b`), "wind_turbine"},
	{regexp.MustCompile(`\bsolar(?:\s+(?:farms?|plants?|parks?|panels?|power\s+plants?))?\b`), "solar"},
	{regexp.MustCompile(`\bpower\s+(?:plants?|stations?)\b`), "power_plant"},
	{regexp.MustCompile(`\b(?:electrical\s+)?substations?\b`), "substation"},
	{regexp.MustCompile(`\b(?:power|transmission)\s+lines?\b`), "power_line"},
	{regexp.MustCompile(`\bwater\s+towers?\b`), "water_tower"},
	{regexp.MustCompile(`\b(?:water|wastewater|sewage)\s+treatment(?:\s+plants?)?\b`), "water_treatment"},
	{regexp.MustCompile(`\bpipelines?\b`), "pipeline"},
	{regexp.MustCompile(`\bbridges?\b`), "bridge"},
	{regexp.MustCompile(`\b(?:railway|train|rail)\s+stations?\b`), "railway_station"},
	{regexp.MustCompile(`\b(?:airports?|aerodromes?)\b`), "airport"},
	{regexp.MustCompile(`\b(?:helipads?|heliports?)\b`), "helipad"},
	{regexp.MustCompile(`\b(?:sea)?ports?\b|\bharbou?rs?\b`), "port"},
	{regexp.MustCompile(`\b(?:ev|electric\s+vehicle)\s+charg(?:ing|ers?)(?:\s+stations?)?\b|\bcharging\s+stations?\b`), "ev_charging"},
	{regexp.MustCompile(`\b(?:fuel|gas|petrol)\s+stations?\b|\bfuel\b`), "fuel"},
	{regexp.MustCompile(`\bhospitals?\b`), "hospital"},
	{regexp.MustCompile(`\btelecom\b`), "telecom"},
	{regexp.MustCompile(`\b(?:towers?|masts?)\b`), "telecom"},
}

var (
	structuredPrefix = regexp.MustCompile(`(?i)^(?:type|operator|region|country|near|radius):`)

	nearPattern   = regexp.MustCompile(`(?i)\bnear\s+(.+?)(?:\s+(?:in|within|radius)\b|$)`)
	inPattern     = regexp.MustCompile(`(?i)\bin\s+(.+?)(?:\s+(?:near|within)\b|$)`)
	radiusPattern = regexp.MustCompile(`(?i)\b(?:within|radius)\s*[:=]?\s*(\d+)\s*(?:km|kms|kilomet(?:er|re)s?)?\b`)

	whitespace = regexp.MustCompile(`\s+`)
)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "all": {}, "show": {}, "find": {}, "search": {}, "get": {}, "list": {},
}

// QueryParser превращает текст запроса в ParsedQuery. Разбор не выполняет I/O
// и не возвращает ошибок: полнота запроса проверяется отдельно.
type QueryParser struct {
	taxonomy *taxonomy.Taxonomy
}

// NewQueryParser создает парсер поверх справочника типов и операторов
func NewQueryParser(tax *taxonomy.Taxonomy) *QueryParser {
	return &QueryParser{taxonomy: tax}
}

// Parse выбирает структурный режим, если текст начинается с префикса поля,
// иначе разбирает естественный язык.
func (p *QueryParser) Parse(text string) domain.ParsedQuery {
	trimmed := strings.TrimSpace(text)

	if structuredPrefix.MatchString(trimmed) {
		return p.parseStructured(trimmed)
	}
	return p.parseNatural(trimmed)
}

func (p *QueryParser) parseStructured(text string) domain.ParsedQuery {
	q := domain.ParsedQuery{Radius: domain.DefaultRadiusKm, Raw: text}
	seen := make(map[string]bool)

	for _, token := range strings.Fields(text) {
		key, value, ok := strings.Cut(token, ":")
		if !ok || value == "" {
			continue
		}
		key = strings.ToLower(key)
		// первое вхождение поля выигрывает
		if seen[key] {
			continue
		}

		switch key {
		case "type":
			if t := strings.ToLower(value); p.taxonomy.Has(t) {
				q.Type = domain.StringPtr(t)
			}
		case "operator":
			q.Operator = domain.StringPtr(underscoresToSpaces(value))
		case "region":
			q.Region = domain.StringPtr(underscoresToSpaces(value))
		case "country":
			q.Country = domain.StringPtr(underscoresToSpaces(value))
		case "near":
			q.Near = domain.StringPtr(underscoresToSpaces(value))
		case "radius":
			if r, ok := parseRadius(value); ok {
				q.Radius = r
			}
		default:
			continue
		}
		seen[key] = true
	}

	return q
}

func underscoresToSpaces(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
}

func (p *QueryParser) parseNatural(text string) domain.ParsedQuery {
	lower := strings.ToLower(text)

	q := domain.ParsedQuery{
		Type:     domain.StringPtr(p.extractType(lower)),
		Operator: domain.StringPtr(p.extractOperator(lower)),
		Radius:   extractRadius(text),
		Raw:      text,
	}

	if m := nearPattern.FindStringSubmatch(text); m != nil {
		q.Near = domain.StringPtr(cleanLocation(m[1]))
	} else if m := inPattern.FindStringSubmatch(text); m != nil {
		q.Region = domain.StringPtr(cleanLocation(m[1]))
	} else if residual := p.residual(lower); utf8.RuneCountInString(residual) > 2 && utf8.RuneCountInString(residual) < 100 {
		q.Region = domain.StringPtr(residual)
	}

	return q
}

func (p *QueryParser) extractType(lower string) string {
	for _, rule := range typeRules {
		if rule.pattern.MatchString(lower) && p.taxonomy.Has(rule.assetType) {
			return rule.assetType
		}
	}
	return ""
}

// extractOperator - вхождение подстроки, а не слова: короткие имена могут
// совпасть внутри посторонних слов
func (p *QueryParser) extractOperator(lower string) string {
	for _, op := range p.taxonomy.Operators() {
		if strings.Contains(lower, op.Name) {
			return op.Name
		}
		for _, alias := range op.Aliases {
			if strings.Contains(lower, alias) {
				return op.Name
			}
		}
	}
	return ""
}

func extractRadius(text string) int {
	m := radiusPattern.FindStringSubmatch(text)
	if m == nil {
		return domain.DefaultRadiusKm
	}
	if r, ok := parseRadius(m[1]); ok {
		return r
	}
	return domain.DefaultRadiusKm
}

// parseRadius разбирает целое число километров и зажимает его в допустимый диапазон.
// Число за пределами int64 зажимается по знаку, не-число - ok == false.
func parseRadius(s string) (int, bool) {
	r, err := strconv.ParseInt(s, 10, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		if strings.HasPrefix(s, "-") {
			return domain.MinRadiusKm, true
		}
		return domain.MaxRadiusKm, true
	case err != nil:
		return 0, false
	}

	if r > domain.MaxRadiusKm {
		return domain.MaxRadiusKm, true
	}
	return domain.ClampRadius(int(r)), true
}

// cleanLocation убирает из названия места фразу радиуса и концевую пунктуацию
func cleanLocation(s string) string {
	s = radiusPattern.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.Trim(s, " ,.;!?")
}

// residual - текст без фраз типа, операторов, радиуса и стоп-слов
func (p *QueryParser) residual(lower string) string {
	s := lower
	for _, rule := range typeRules {
		s = rule.pattern.ReplaceAllString(s, " ")
	}
	for _, op := range p.taxonomy.Operators() {
		s = strings.ReplaceAll(s, op.Name, " ")
		for _, alias := range op.Aliases {
			s = strings.ReplaceAll(s, alias, " ")
		}
	}
	s = radiusPattern.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		if _, stop := stopWords[w]; !stop {
			kept = append(kept, w)
		}
	}

	return strings.Trim(whitespace.ReplaceAllString(strings.Join(kept, " "), " "), " ,.;!?")
}

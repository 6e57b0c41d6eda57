package overpass

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/infrastructure-search/internal/domain"
	"github.com/infrastructure-search/internal/domain/repository"
	"github.com/infrastructure-search/internal/taxonomy"
)

const (
	// DefaultResultLimit - предел числа элементов в ответе
	DefaultResultLimit = 1000
	// DefaultMaxSize - предел памяти запроса на стороне сервиса (байты)
	DefaultMaxSize int64 = 536870912
	// DefaultQueryTimeout - таймаут выполнения запроса на стороне сервиса
	DefaultQueryTimeout = 60 * time.Second

	areaSetName = "searchArea"
)

var (
	// ErrNoFilter - не задан ни тип, ни оператор
	ErrNoFilter = errors.New("overpass: query needs an asset type or an operator")
	// ErrUnknownType - тип отсутствует в справочнике
	ErrUnknownType = errors.New("overpass: unknown asset type")
)

// Builder собирает текст запроса на языке Overpass QL
type Builder struct {
	taxonomy     *taxonomy.Taxonomy
	queryTimeout time.Duration
	maxSize      int64
	resultLimit  int
}

var _ repository.QueryBuilder = (*Builder)(nil)

// NewBuilder создает построитель запросов; нулевые значения заменяются значениями по умолчанию
func NewBuilder(tax *taxonomy.Taxonomy, queryTimeout time.Duration, maxSize int64, resultLimit int) *Builder {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if resultLimit <= 0 {
		resultLimit = DefaultResultLimit
	}

	return &Builder{
		taxonomy:     tax,
		queryTimeout: queryTimeout,
		maxSize:      maxSize,
		resultLimit:  resultLimit,
	}
}

// Build возвращает запрос: объединение подзапросов node/way/relation по каждой группе тегов
// типа, с фильтром оператора и географическим фильтром.
func (b *Builder) Build(p domain.AssetQuery) (string, error) {
	if p.Type == "" && p.Operator == "" {
		return "", ErrNoFilter
	}

	var groups []taxonomy.TagGroup
	if p.Type != "" {
		def, ok := b.taxonomy.Lookup(p.Type)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownType, p.Type)
		}
		groups = def.Groups
	} else {
		// только оператор: одна группа без условий на теги
		groups = []taxonomy.TagGroup{nil}
	}

	operatorFilter := ""
	if p.Operator != "" {
		operatorFilter = operatorPredicate(p.Operator)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[out:json][timeout:%d][maxsize:%d];\n", int(b.queryTimeout.Seconds()), b.maxSize)

	locationFilter := bboxFilter(p.BBox)
	if p.AreaID != nil {
		fmt.Fprintf(&sb, "area(%d)->.%s;\n", *p.AreaID, areaSetName)
		locationFilter = "(area." + areaSetName + ")"
	}

	sb.WriteString("(\n")
	for _, group := range groups {
		tagFilter := groupFilter(group)
		for _, kind := range domain.ElementKinds {
			fmt.Fprintf(&sb, "  %s%s%s%s;\n", kind, tagFilter, operatorFilter, locationFilter)
		}
	}
	sb.WriteString(");\n")
	fmt.Fprintf(&sb, "out center %d;", b.resultLimit)

	return sb.String(), nil
}

func groupFilter(group taxonomy.TagGroup) string {
	var sb strings.Builder
	for _, pred := range group {
		switch t := pred.(type) {
		case taxonomy.ExactTag:
			fmt.Fprintf(&sb, `["%s"="%s"]`, qlString(t.Key), qlString(t.Value))
		case taxonomy.AnyOfTag:
			alternatives := make([]string, len(t.Values))
			for i, v := range t.Values {
				alternatives[i] = regexp.QuoteMeta(v)
			}
			fmt.Fprintf(&sb, `["%s"~"^(%s)$",i]`, qlString(t.Key), qlString(strings.Join(alternatives, "|")))
		}
	}
	return sb.String()
}

// operatorPredicate - регистронезависимое вхождение имени оператора
func operatorPredicate(operator string) string {
	return fmt.Sprintf(`["operator"~"%s",i]`, qlString(regexp.QuoteMeta(operator)))
}

// bboxFilter - порядок south, west, north, east
func bboxFilter(b domain.BoundingBox) string {
	return "(" + strings.Join([]string{
		formatCoord(b.South),
		formatCoord(b.West),
		formatCoord(b.North),
		formatCoord(b.East),
	}, ",") + ")"
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// qlString экранирует значение для строки в двойных кавычках
func qlString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

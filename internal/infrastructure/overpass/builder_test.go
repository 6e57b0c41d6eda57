package overpass

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infrastructure-search/internal/domain"
	"github.com/infrastructure-search/internal/taxonomy"
)

func newTestBuilder() *Builder {
	return NewBuilder(taxonomy.Default(), 25*time.Second, 0, 0)
}

func TestBuilder_AreaScopedType(t *testing.T) {
	area := int64(3602019939)

	q, err := newTestBuilder().Build(domain.AssetQuery{
		Type:     "telecom",
		Operator: "jio",
		AreaID:   &area,
	})
	require.NoError(t, err)

	expected := `[out:json][timeout:25][maxsize:536870912];
area(3602019939)->.searchArea;
(
  node["man_made"~"^(mast|tower)$",i]["tower:type"="communication"]["operator"~"jio",i](area.searchArea);
  way["man_made"~"^(mast|tower)$",i]["tower:type"="communication"]["operator"~"jio",i](area.searchArea);
  relation["man_made"~"^(mast|tower)$",i]["tower:type"="communication"]["operator"~"jio",i](area.searchArea);
);
out center 1000;`
	assert.Equal(t, expected, q)
}

func TestBuilder_BoundingBoxUnionOfGroups(t *testing.T) {
	q, err := newTestBuilder().Build(domain.AssetQuery{
		Type: "data_center",
		BBox: domain.BoundingBox{South: -1, North: 1, West: 10.5, East: 12},
	})
	require.NoError(t, err)

	assert.NotContains(t, q, "area(")
	assert.Contains(t, q, `  node["telecom"="data_center"](-1,10.5,1,12);`)
	assert.Contains(t, q, `  relation["building"="data_center"](-1,10.5,1,12);`)
	// 2 группы x 3 типа элементов
	assert.Equal(t, 6, strings.Count(q, "(-1,10.5,1,12);"))
}

func TestBuilder_OperatorOnly(t *testing.T) {
	q, err := newTestBuilder().Build(domain.AssetQuery{
		Operator: "at&t (us)",
		BBox:     domain.BoundingBox{South: 1, North: 2, West: 3, East: 4},
	})
	require.NoError(t, err)

	assert.Contains(t, q, `  node["operator"~"at&t \\(us\\)",i](1,3,2,4);`)
	assert.Contains(t, q, `  way["operator"~"at&t \\(us\\)",i](1,3,2,4);`)
	assert.Contains(t, q, `  relation["operator"~"at&t \\(us\\)",i](1,3,2,4);`)
}

func TestBuilder_EscapesQuotes(t *testing.T) {
	q, err := newTestBuilder().Build(domain.AssetQuery{
		Operator: `acme "north"`,
	})
	require.NoError(t, err)
	assert.Contains(t, q, `["operator"~"acme \"north\"",i]`)
}

func TestBuilder_Errors(t *testing.T) {
	_, err := newTestBuilder().Build(domain.AssetQuery{})
	assert.ErrorIs(t, err, ErrNoFilter)

	_, err = newTestBuilder().Build(domain.AssetQuery{Type: "castle"})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestBuilder_Defaults(t *testing.T) {
	q, err := NewBuilder(taxonomy.Default(), 0, 0, 0).Build(domain.AssetQuery{Type: "airport"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(q, "[out:json][timeout:60][maxsize:536870912];\n"))
	assert.True(t, strings.HasSuffix(q, "out center 1000;"))
}

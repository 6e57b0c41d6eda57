package usecase_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/infrastructure-search/internal/domain"
	"github.com/infrastructure-search/internal/taxonomy"
	"github.com/infrastructure-search/internal/usecase"
)

func TestQueryParser_Parse(t *testing.T) {
	parser := usecase.NewQueryParser(taxonomy.Default())

	tests := []struct {
		name     string
		text     string
		expected domain.ParsedQuery
	}{
		{
			name: "structured",
			text: "type:data_center operator:google region:california",
			expected: domain.ParsedQuery{
				Type:     ptrString("data_center"),
				Operator: ptrString("google"),
				Region:   ptrString("california"),
				Radius:   50,
			},
		},
		{
			name: "natural with in",
			text: "telecom towers in karnataka",
			expected: domain.ParsedQuery{
				Type:   ptrString("telecom"),
				Region: ptrString("karnataka"),
				Radius: 50,
			},
		},
		{
			name:     "empty",
			text:     "",
			expected: domain.ParsedQuery{Radius: 50},
		},
		{
			name: "structured underscores and case",
			text: "Type:Wind_Turbine country:united_states radius:900",
			expected: domain.ParsedQuery{
				Type:    ptrString("wind_turbine"),
				Country: ptrString("united states"),
				Radius:  500,
			},
		},
		{
			name: "structured unknown type and bad radius",
			text: "type:castle region:x radius:abc",
			expected: domain.ParsedQuery{
				Region: ptrString("x"),
				Radius: 50,
			},
		},
		{
			name: "structured first occurrence wins",
			text: "near:pune near:mumbai type:fuel",
			expected: domain.ParsedQuery{
				Type:   ptrString("fuel"),
				Near:   ptrString("pune"),
				Radius: 50,
			},
		},
		{
			name: "near with radius",
			text: "google data centers near mountain view within 20 km",
			expected: domain.ParsedQuery{
				Type:     ptrString("data_center"),
				Operator: ptrString("google"),
				Near:     ptrString("mountain view"),
				Radius:   20,
			},
		},
		{
			name: "near wins over in",
			text: "substations near pune in maharashtra",
			expected: domain.ParsedQuery{
				Type:   ptrString("substation"),
				Near:   ptrString("pune"),
				Radius: 50,
			},
		},
		{
			name: "in bounded by within and radius clamped",
			text: "airtel towers in delhi within 0 km",
			expected: domain.ParsedQuery{
				Type:     ptrString("telecom"),
				Operator: ptrString("airtel"),
				Region:   ptrString("delhi"),
				Radius:   1,
			},
		},
		{
			name: "alias and residual region",
			text: "aws data centres ireland",
			expected: domain.ParsedQuery{
				Type:     ptrString("data_center"),
				Operator: ptrString("amazon"),
				Region:   ptrString("ireland"),
				Radius:   50,
			},
		},
		{
			name: "specific phrase before generic tower",
			text: "show all water towers",
			expected: domain.ParsedQuery{
				Type:   ptrString("water_tower"),
				Radius: 50,
			},
		},
		{
			name: "region keeps original case",
			text: "Solar farms in Rajasthan",
			expected: domain.ParsedQuery{
				Type:   ptrString("solar"),
				Region: ptrString("Rajasthan"),
				Radius: 50,
			},
		},
		{
			name: "residual too short",
			text: "find ev charging stations in",
			expected: domain.ParsedQuery{
				Type:   ptrString("ev_charging"),
				Radius: 50,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.expected.Raw = tt.text
			assert.Equal(t, tt.expected, parser.Parse(tt.text))
		})
	}
}

func TestQueryParser_RadiusIsClamped(t *testing.T) {
	parser := usecase.NewQueryParser(taxonomy.Default())

	tests := []struct {
		radius   string
		expected int
	}{
		{"-5", 1},
		{"0", 1},
		{"1", 1},
		{"20", 20},
		{"500", 500},
		{"501", 500},
		{"99999999999999999999", 500},
		{"-99999999999999999999", 1},
		{"ten", 50},
	}

	for _, tt := range tests {
		t.Run(tt.radius, func(t *testing.T) {
			q := parser.Parse(fmt.Sprintf("type:airport country:india radius:%s", tt.radius))
			assert.Equal(t, tt.expected, q.Radius)
		})
	}

	assert.Equal(t, 50, parser.Parse("airports in india").Radius)
	assert.Equal(t, 120, parser.Parse("airports near delhi radius: 120 kilometers").Radius)
	assert.Equal(t, 75, parser.Parse("airports near delhi radius=75km").Radius)

	q := parser.Parse("airports near delhi within 99999999999999999999 km")
	assert.Equal(t, 500, q.Radius)
	assert.Equal(t, "delhi", domain.StringValue(q.Near))
}

func TestQueryParser_OperatorSubstring(t *testing.T) {
	parser := usecase.NewQueryParser(taxonomy.Default())

	// совпадение подстроки, а не слова
	q := parser.Parse("metal bridges in ohio")
	assert.Equal(t, "meta", domain.StringValue(q.Operator))
	assert.Equal(t, "bridge", domain.StringValue(q.Type))
}

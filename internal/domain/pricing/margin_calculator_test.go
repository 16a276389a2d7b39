package pricing

import (
	"testing"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rule(t *testing.T, name, category string, basis valueobject.UnitBasis, mt MarginType, value string, priority int) MarginRule {
	t.Helper()
	r, err := NewMarginRule(name, category, basis, mt, decimal.RequireFromString(value))
	require.NoError(t, err)
	r.Priority = priority
	return *r
}

func TestNewMarginRule(t *testing.T) {
	t.Run("normalises category", func(t *testing.T) {
		r, err := NewMarginRule("cars", "  CAR ", valueobject.UnitBasisUnit, MarginTypeFixed, decimal.NewFromInt(50))
		require.NoError(t, err)
		assert.Equal(t, "car", r.VehicleCategory)
		assert.True(t, r.IsActive)
	})

	t.Run("rejects negative value", func(t *testing.T) {
		_, err := NewMarginRule("neg", "", "", MarginTypeFixed, decimal.NewFromInt(-1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ">= 0")
	})

	t.Run("rejects unknown margin type", func(t *testing.T) {
		_, err := NewMarginRule("bad", "", "", MarginType("markup"), decimal.NewFromInt(1))
		assert.Error(t, err)
	})

	t.Run("rejects unknown basis", func(t *testing.T) {
		_, err := NewMarginRule("bad", "", valueobject.UnitBasis("PALLET"), MarginTypeFixed, decimal.NewFromInt(1))
		assert.Error(t, err)
	})
}

func TestMarginCalculator_CalculateMargin(t *testing.T) {
	base := decimal.NewFromInt(1000)

	rules := []MarginRule{
		rule(t, "global", "", "", MarginTypePercentage, "5", 0),
		rule(t, "lm basis", "", valueobject.UnitBasisLM, MarginTypePercentage, "8", 0),
		rule(t, "truck category", "truck", "", MarginTypeFixed, "120", 0),
		rule(t, "car per unit", "car", valueobject.UnitBasisUnit, MarginTypePercentage, "10", 0),
		rule(t, "car category", "car", "", MarginTypePercentage, "12", 0),
	}
	calc := NewMarginCalculator(rules)

	tests := []struct {
		name     string
		category string
		basis    valueobject.UnitBasis
		want     string
		tier     MatchTier
	}{
		{"exact match wins", "car", valueobject.UnitBasisUnit, "100", MatchTierExact},
		{"category only when basis differs", "car", valueobject.UnitBasisLM, "120", MatchTierCategory},
		{"category only fixed amount", "truck", valueobject.UnitBasisUnit, "120", MatchTierCategory},
		{"basis only", "van", valueobject.UnitBasisLM, "80", MatchTierBasis},
		{"global fallback", "van", valueobject.UnitBasisCBM, "50", MatchTierGlobal},
		{"empty request falls to global", "", "", "50", MatchTierGlobal},
		{"category match is case insensitive", "CAR", valueobject.UnitBasisUnit, "100", MatchTierExact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := calc.Resolve(base, tt.category, tt.basis)
			assert.Equal(t, tt.tier, res.Tier)
			assert.True(t, res.Margin.Equal(decimal.RequireFromString(tt.want)), "got %s", res.Margin)
			assert.True(t, calc.CalculateMargin(base, tt.category, tt.basis).Equal(res.Margin))
		})
	}
}

func TestMarginCalculator_NoMatch(t *testing.T) {
	calc := NewMarginCalculator([]MarginRule{
		rule(t, "car only", "car", valueobject.UnitBasisUnit, MarginTypeFixed, "25", 0),
	})

	res := calc.Resolve(decimal.NewFromInt(500), "truck", valueobject.UnitBasisLM)
	assert.Equal(t, MatchTierNone, res.Tier)
	assert.Nil(t, res.Rule)
	assert.True(t, res.Margin.IsZero())

	empty := NewMarginCalculator(nil)
	assert.True(t, empty.CalculateMargin(decimal.NewFromInt(500), "car", valueobject.UnitBasisUnit).IsZero())
}

func TestMarginCalculator_PriorityAndInactive(t *testing.T) {
	low := rule(t, "low", "", "", MarginTypeFixed, "10", 1)
	high := rule(t, "high", "", "", MarginTypeFixed, "30", 5)
	tie := rule(t, "tie", "", "", MarginTypeFixed, "40", 5)
	inactive := rule(t, "inactive", "", "", MarginTypeFixed, "99", 10)
	inactive.IsActive = false

	calc := NewMarginCalculator([]MarginRule{low, high, tie, inactive})
	res := calc.Resolve(decimal.NewFromInt(100), "", "")
	require.NotNil(t, res.Rule)
	assert.Equal(t, "high", res.Rule.Name)
	assert.Len(t, calc.Rules(), 3)
}

func TestMarginCalculator_SellingPrice(t *testing.T) {
	calc := NewMarginCalculator([]MarginRule{
		rule(t, "pct", "", "", MarginTypePercentage, "7.5", 0),
	})
	got := calc.SellingPrice(decimal.RequireFromString("333.33"), "car", valueobject.UnitBasisUnit)
	// 333.33 * 7.5% = 24.99975 -> 25.00
	assert.True(t, got.Equal(decimal.RequireFromString("358.33")), "got %s", got)
}

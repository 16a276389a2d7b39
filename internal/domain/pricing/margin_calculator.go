package pricing

import (
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MatchTier identifies which fallback tier produced a margin
type MatchTier string

const (
	MatchTierExact    MatchTier = "exact"
	MatchTierCategory MatchTier = "category"
	MatchTierBasis    MatchTier = "basis"
	MatchTierGlobal   MatchTier = "global"
	MatchTierNone     MatchTier = "none"
)

// MarginResult describes a resolved margin
type MarginResult struct {
	Margin decimal.Decimal
	Tier   MatchTier
	Rule   *MarginRule
}

// MarginCalculator resolves margins from an in-memory list of rules.
//
// Resolution falls back through four tiers and stops at the first that
// has a candidate:
//  1. exact: rule category and basis both equal the request
//  2. category: rule category equals the request, rule basis empty
//  3. basis: rule basis equals the request, rule category empty
//  4. global: rule category and basis both empty
//
// Inside a tier the highest Priority wins; ties keep list order.
type MarginCalculator struct {
	rules []MarginRule
}

// NewMarginCalculator creates a calculator over the active rules of the list
func NewMarginCalculator(rules []MarginRule) *MarginCalculator {
	active := make([]MarginRule, 0, len(rules))
	for _, r := range rules {
		if r.IsActive {
			active = append(active, r)
		}
	}
	return &MarginCalculator{rules: active}
}

// Rules returns the active rules the calculator works on
func (c *MarginCalculator) Rules() []MarginRule {
	return c.rules
}

// CalculateMargin returns the margin for basePrice, or zero when no rule matches
func (c *MarginCalculator) CalculateMargin(basePrice decimal.Decimal, vehicleCategory string, basis valueobject.UnitBasis) decimal.Decimal {
	return c.Resolve(basePrice, vehicleCategory, basis).Margin
}

// SellingPrice returns basePrice plus the resolved margin
func (c *MarginCalculator) SellingPrice(basePrice decimal.Decimal, vehicleCategory string, basis valueobject.UnitBasis) decimal.Decimal {
	return valueobject.RoundMoney(basePrice.Add(c.CalculateMargin(basePrice, vehicleCategory, basis)))
}

// Resolve runs the fallback chain and reports which rule matched
func (c *MarginCalculator) Resolve(basePrice decimal.Decimal, vehicleCategory string, basis valueobject.UnitBasis) MarginResult {
	category := normalizeCategory(vehicleCategory)

	tiers := []struct {
		tier  MatchTier
		match func(r *MarginRule) bool
	}{
		{MatchTierExact, func(r *MarginRule) bool {
			return category != "" && basis != "" && r.VehicleCategory == category && r.UnitBasis == basis
		}},
		{MatchTierCategory, func(r *MarginRule) bool {
			return category != "" && r.VehicleCategory == category && !r.hasBasis()
		}},
		{MatchTierBasis, func(r *MarginRule) bool {
			return basis != "" && r.UnitBasis == basis && !r.hasCategory()
		}},
		{MatchTierGlobal, func(r *MarginRule) bool {
			return !r.hasCategory() && !r.hasBasis()
		}},
	}

	for _, t := range tiers {
		if rule := c.best(t.match); rule != nil {
			return MarginResult{Margin: rule.Apply(basePrice), Tier: t.tier, Rule: rule}
		}
	}
	return MarginResult{Margin: decimal.Zero, Tier: MatchTierNone}
}

func (c *MarginCalculator) best(match func(r *MarginRule) bool) *MarginRule {
	var found *MarginRule
	for i := range c.rules {
		r := &c.rules[i]
		if !match(r) {
			continue
		}
		if found == nil || r.Priority > found.Priority {
			found = r
		}
	}
	return found
}

package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profile(t *testing.T, name string) PricingProfile {
	t.Helper()
	p, err := NewPricingProfile(name)
	require.NoError(t, err)
	return *p
}

func TestPricingProfileResolver_Resolve(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	def := profile(t, "default")
	def.MarkDefault()

	forwarders := profile(t, "forwarders")
	forwarders.AssignToCustomerType("Forwarder")

	acme := profile(t, "acme")
	acme.AssignToCustomer("4711")

	expired := profile(t, "old acme")
	expired.AssignToCustomer("4712")
	past := now.AddDate(0, -2, 0)
	until := now.AddDate(0, -1, 0)
	require.NoError(t, expired.SetValidity(&past, &until))

	resolver := NewPricingProfileResolver([]PricingProfile{def, forwarders, acme, expired})

	tests := []struct {
		name     string
		customer Customer
		want     string
	}{
		{"customer specific", Customer{RobawsClientID: "4711", CustomerType: "forwarder"}, "acme"},
		{"customer type", Customer{RobawsClientID: "9999", CustomerType: "FORWARDER"}, "forwarders"},
		{"default", Customer{CustomerType: "private"}, "default"},
		{"expired customer profile falls through", Customer{RobawsClientID: "4712"}, "default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := resolver.Resolve(tt.customer, now)
			require.NotNil(t, p)
			assert.Equal(t, tt.want, p.Name)
		})
	}
}

func TestPricingProfileResolver_NoProfile(t *testing.T) {
	inactive := profile(t, "inactive default")
	inactive.MarkDefault()
	inactive.SetActive(false)

	resolver := NewPricingProfileResolver([]PricingProfile{inactive})
	assert.Nil(t, resolver.Resolve(Customer{}, time.Now()))

	calc, p := resolver.ResolveCalculator(Customer{}, time.Now())
	assert.Nil(t, p)
	assert.True(t, calc.CalculateMargin(decimal.NewFromInt(100), "car", "UNIT").IsZero())
}

func TestPricingProfileResolver_ResolveCalculator(t *testing.T) {
	def := profile(t, "default")
	def.MarkDefault()
	r, err := NewMarginRule("all", "", "", MarginTypePercentage, decimal.NewFromInt(10))
	require.NoError(t, err)
	def.Rules = []MarginRule{*r}

	calc, p := NewPricingProfileResolver([]PricingProfile{def}).ResolveCalculator(Customer{}, time.Now())
	require.NotNil(t, p)
	assert.True(t, calc.CalculateMargin(decimal.NewFromInt(200), "", "").Equal(decimal.NewFromInt(20)))
}

func TestPricingProfile_SetValidity(t *testing.T) {
	p := profile(t, "p")
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Error(t, p.SetValidity(&from, &until))

	require.NoError(t, p.SetValidity(&until, &from))
	assert.True(t, p.IsValidOn(time.Date(2026, 2, 1, 23, 0, 0, 0, time.UTC)))
	assert.False(t, p.IsValidOn(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)))
}

func TestNewPricingProfile_Validation(t *testing.T) {
	_, err := NewPricingProfile("  ")
	assert.Error(t, err)
}

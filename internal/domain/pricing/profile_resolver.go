package pricing

import (
	"strings"
	"time"
)

// Customer is what the resolver needs to know about the buyer
type Customer struct {
	RobawsClientID string
	CustomerType   string
}

// PricingProfileResolver picks the most specific profile for a customer.
// Order: customer-specific, then customer type, then the default profile.
type PricingProfileResolver struct {
	profiles []PricingProfile
}

// NewPricingProfileResolver creates a resolver over a pre-fetched profile list
func NewPricingProfileResolver(profiles []PricingProfile) *PricingProfileResolver {
	return &PricingProfileResolver{profiles: profiles}
}

// Resolve returns the profile that applies at the given time, or nil
func (r *PricingProfileResolver) Resolve(customer Customer, at time.Time) *PricingProfile {
	clientID := strings.TrimSpace(customer.RobawsClientID)
	customerType := strings.ToLower(strings.TrimSpace(customer.CustomerType))

	if clientID != "" {
		if p := r.first(at, func(p *PricingProfile) bool { return p.RobawsClientID == clientID }); p != nil {
			return p
		}
	}
	if customerType != "" {
		if p := r.first(at, func(p *PricingProfile) bool {
			return p.RobawsClientID == "" && p.CustomerType == customerType
		}); p != nil {
			return p
		}
	}
	return r.first(at, func(p *PricingProfile) bool { return p.IsDefault })
}

// ResolveCalculator returns a margin calculator for the resolved profile.
// With no profile the calculator has no rules and yields a zero margin.
func (r *PricingProfileResolver) ResolveCalculator(customer Customer, at time.Time) (*MarginCalculator, *PricingProfile) {
	p := r.Resolve(customer, at)
	if p == nil {
		return NewMarginCalculator(nil), nil
	}
	return NewMarginCalculator(p.Rules), p
}

func (r *PricingProfileResolver) first(at time.Time, match func(p *PricingProfile) bool) *PricingProfile {
	for i := range r.profiles {
		p := &r.profiles[i]
		if p.IsValidOn(at) && match(p) {
			return p
		}
	}
	return nil
}

package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/pricing"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PricingService manages margin rules and pricing profiles and answers
// margin and VAT questions for the quotation flow
type PricingService struct {
	ruleRepo    pricing.MarginRuleRepository
	profileRepo pricing.PricingProfileRepository
	vat         *pricing.VatResolver
}

// NewPricingService creates a new PricingService
func NewPricingService(ruleRepo pricing.MarginRuleRepository, profileRepo pricing.PricingProfileRepository) *PricingService {
	return &PricingService{
		ruleRepo:    ruleRepo,
		profileRepo: profileRepo,
		vat:         pricing.NewVatResolver(),
	}
}

// CreateRule creates a margin rule
func (s *PricingService) CreateRule(ctx context.Context, req MarginRuleRequest) (*MarginRuleResponse, error) {
	if err := s.ensureProfile(ctx, req.ProfileID); err != nil {
		return nil, err
	}
	rule, err := pricing.NewMarginRule(req.Name, req.VehicleCategory, valueobject.UnitBasis(strings.ToUpper(req.UnitBasis)), pricing.MarginType(req.MarginType), req.Value)
	if err != nil {
		return nil, err
	}
	rule.ProfileID = req.ProfileID
	rule.Priority = req.Priority
	if req.IsActive != nil {
		rule.SetActive(*req.IsActive)
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to save margin rule: %w", err)
	}
	resp := ToMarginRuleResponse(rule)
	return &resp, nil
}

// UpdateRule replaces a margin rule
func (s *PricingService) UpdateRule(ctx context.Context, id uuid.UUID, req MarginRuleRequest) (*MarginRuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureProfile(ctx, req.ProfileID); err != nil {
		return nil, err
	}
	if err := rule.Update(req.Name, req.VehicleCategory, valueobject.UnitBasis(strings.ToUpper(req.UnitBasis)), pricing.MarginType(req.MarginType), req.Value, req.Priority); err != nil {
		return nil, err
	}
	rule.ProfileID = req.ProfileID
	if req.IsActive != nil {
		rule.SetActive(*req.IsActive)
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to save margin rule: %w", err)
	}
	resp := ToMarginRuleResponse(rule)
	return &resp, nil
}

// GetRule returns a margin rule
func (s *PricingService) GetRule(ctx context.Context, id uuid.UUID) (*MarginRuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToMarginRuleResponse(rule)
	return &resp, nil
}

// ListRules returns one page of margin rules. profile_id "global" lists rules without a profile.
func (s *PricingService) ListRules(ctx context.Context, filter ListFilter) (*shared.Paginated[MarginRuleResponse], error) {
	f, err := toFilter(filter)
	if err != nil {
		return nil, err
	}
	rules, err := s.ruleRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.ruleRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]MarginRuleResponse, len(rules))
	for i := range rules {
		items[i] = ToMarginRuleResponse(&rules[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// DeleteRule removes a margin rule
func (s *PricingService) DeleteRule(ctx context.Context, id uuid.UUID) error {
	return s.ruleRepo.Delete(ctx, id)
}

// CreateProfile creates a pricing profile
func (s *PricingService) CreateProfile(ctx context.Context, req ProfileRequest) (*ProfileResponse, error) {
	profile, err := pricing.NewPricingProfile(req.Name)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(profile, req); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save pricing profile: %w", err)
	}
	resp := ToProfileResponse(profile)
	return &resp, nil
}

// UpdateProfile updates a pricing profile
func (s *PricingService) UpdateProfile(ctx context.Context, id uuid.UUID, req ProfileRequest) (*ProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(profile, req); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save pricing profile: %w", err)
	}
	resp := ToProfileResponse(profile)
	return &resp, nil
}

// GetProfile returns a profile with its rules
func (s *PricingService) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(profile)
	return &resp, nil
}

// ListProfiles returns one page of profiles
func (s *PricingService) ListProfiles(ctx context.Context, filter ListFilter) (*shared.Paginated[ProfileResponse], error) {
	filter.ProfileID = ""
	f, err := toFilter(filter)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profileRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.profileRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		items[i] = ToProfileResponse(&profiles[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// DeleteProfile removes a profile and its rules
func (s *PricingService) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return s.profileRepo.Delete(ctx, id)
}

// CalculatorFor returns the margin calculator that applies to a customer on a day.
// When no profile resolves, active rules outside any profile are used.
func (s *PricingService) CalculatorFor(ctx context.Context, customer pricing.Customer, at time.Time) (*pricing.MarginCalculator, *pricing.PricingProfile, error) {
	profiles, err := s.profileRepo.FindActive(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load pricing profiles: %w", err)
	}
	calc, profile := pricing.NewPricingProfileResolver(profiles).ResolveCalculator(customer, at)
	if profile != nil {
		return calc, profile, nil
	}
	global, err := s.ruleRepo.FindActiveGlobal(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load margin rules: %w", err)
	}
	return pricing.NewMarginCalculator(global), nil, nil
}

// Preview resolves the margin a customer would get on a base price
func (s *PricingService) Preview(ctx context.Context, req PreviewRequest) (*PreviewResponse, error) {
	if req.BasePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Base price must be >= 0")
	}
	at := time.Now()
	if req.At != nil {
		at = *req.At
	}
	calc, profile, err := s.CalculatorFor(ctx, pricing.Customer{RobawsClientID: req.RobawsClientID, CustomerType: req.CustomerType}, at)
	if err != nil {
		return nil, err
	}
	result := calc.Resolve(req.BasePrice, req.VehicleCategory, valueobject.UnitBasis(strings.ToUpper(req.UnitBasis)))
	resp := &PreviewResponse{
		BasePrice:    req.BasePrice,
		Margin:       result.Margin,
		SellingPrice: valueobject.RoundMoney(req.BasePrice.Add(result.Margin)),
		Tier:         string(result.Tier),
	}
	if result.Rule != nil {
		id := result.Rule.ID
		resp.RuleID = &id
		resp.RuleName = result.Rule.Name
	}
	if profile != nil {
		id := profile.ID
		resp.ProfileID = &id
		resp.ProfileName = profile.Name
	}
	return resp, nil
}

// DetermineVat returns the VAT code of a route between two countries
func (s *PricingService) DetermineVat(req VatRequest) pricing.VatDecision {
	return s.vat.Decide(valueobject.NewCountry(req.OriginCountry), valueobject.NewCountry(req.DestinationCountry))
}

func (s *PricingService) ensureProfile(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.profileRepo.FindByID(ctx, *id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_PROFILE", "Pricing profile not found")
		}
		return err
	}
	return nil
}

func applyProfile(p *pricing.PricingProfile, req ProfileRequest) error {
	if err := p.Rename(req.Name, req.Description); err != nil {
		return err
	}
	scopes := 0
	if req.RobawsClientID != "" {
		scopes++
	}
	if req.CustomerType != "" {
		scopes++
	}
	if req.IsDefault {
		scopes++
	}
	if scopes > 1 {
		return shared.NewDomainError("INVALID_SCOPE", "A profile applies to a client, a customer type or everybody, not several")
	}
	switch {
	case req.RobawsClientID != "":
		p.AssignToCustomer(req.RobawsClientID)
	case req.CustomerType != "":
		p.AssignToCustomerType(req.CustomerType)
	case req.IsDefault:
		p.MarkDefault()
	}
	if err := p.SetValidity(req.ValidFrom, req.ValidUntil); err != nil {
		return err
	}
	if req.IsActive != nil {
		p.SetActive(*req.IsActive)
	}
	return nil
}

func toFilter(filter ListFilter) (shared.Filter, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   strings.TrimSpace(filter.Search),
	}.Normalize()
	switch filter.ProfileID {
	case "":
	case "global":
		f.Filters["profile_id"] = nil
	default:
		id, err := uuid.Parse(filter.ProfileID)
		if err != nil {
			return f, shared.NewDomainError("INVALID_INPUT", "Invalid profile id")
		}
		f.Filters["profile_id"] = id
	}
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}
	return f, nil
}

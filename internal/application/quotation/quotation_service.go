package quotation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/port"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/pricing"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/schedule"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ArticleFinder reads articles from the cached catalog
type ArticleFinder interface {
	GetArticle(ctx context.Context, id uuid.UUID) (*catalog.Article, error)
	SuggestArticles(ctx context.Context, criteria catalog.SuggestCriteria, limit int) ([]catalog.Suggestion, error)
}

// MarginSource resolves the margin calculator that applies to a customer
type MarginSource interface {
	CalculatorFor(ctx context.Context, customer pricing.Customer, at time.Time) (*pricing.MarginCalculator, *pricing.PricingProfile, error)
}

// PortResolver turns a code, alias or name into a port
type PortResolver interface {
	ResolveOne(ctx context.Context, input string) (*port.Port, error)
}

// PortDirectory looks ports up by code
type PortDirectory interface {
	FindByCodes(ctx context.Context, codes []string) (map[string]*port.Port, error)
}

const defaultAutoSelectLimit = 10

// QuotationService handles quotation request operations
type QuotationService struct {
	txScope       TransactionScope
	quotationRepo quotation.QuotationRepository
	scheduleRepo  schedule.ScheduleRepository
	articles      ArticleFinder
	margins       MarginSource
	resolver      PortResolver
	ports         PortDirectory
	vat           *pricing.VatResolver
	publisher     shared.EventPublisher
	logger        *zap.Logger
	now           func() time.Time
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	txScope TransactionScope,
	quotationRepo quotation.QuotationRepository,
	scheduleRepo schedule.ScheduleRepository,
	articles ArticleFinder,
	margins MarginSource,
	resolver PortResolver,
	ports PortDirectory,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *QuotationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuotationService{
		txScope:       txScope,
		quotationRepo: quotationRepo,
		scheduleRepo:  scheduleRepo,
		articles:      articles,
		margins:       margins,
		resolver:      resolver,
		ports:         ports,
		vat:           pricing.NewVatResolver(),
		publisher:     publisher,
		logger:        logger,
		now:           time.Now,
	}
}

// Submit creates a quotation request with the next QR number of the year
func (s *QuotationService) Submit(ctx context.Context, actor Actor, req SubmitRequest) (*QuotationResponse, error) {
	route, err := s.resolveRoute(ctx, req.Route)
	if err != nil {
		return nil, err
	}

	contact := quotation.Contact{
		ContactName:     req.Contact.ContactName,
		ContactEmail:    req.Contact.ContactEmail,
		ContactPhone:    strings.TrimSpace(req.Contact.ContactPhone),
		ClientName:      strings.TrimSpace(req.Contact.ClientName),
		RobawsClientID:  strings.TrimSpace(req.Contact.RobawsClientID),
		CustomerType:    strings.TrimSpace(req.Contact.CustomerType),
		CustomerCountry: countryOf(req.Contact.CustomerCountry),
		ClientReference: strings.TrimSpace(req.Contact.ClientReference),
	}
	source := quotation.Source(req.Source)
	if !actor.Staff {
		// customers always submit for themselves
		source = quotation.SourceCustomer
		if actor.Email != "" {
			contact.ContactEmail = actor.Email
		}
		contact.RobawsClientID = actor.RobawsClientID
		if actor.CustomerType != "" {
			contact.CustomerType = actor.CustomerType
		}
	} else if source == "" {
		source = quotation.SourceStaff
	}

	items, err := toCommodityItems(req.CommodityItems)
	if err != nil {
		return nil, err
	}
	if req.ScheduleID != nil {
		if _, err := s.loadSchedule(ctx, *req.ScheduleID); err != nil {
			return nil, err
		}
	}

	var q *quotation.QuotationRequest
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		year := s.now().Year()
		seq, err := repos.Sequence().Next(ctx, year)
		if err != nil {
			return fmt.Errorf("failed to allocate request number: %w", err)
		}
		q, err = quotation.NewQuotationRequest(quotation.FormatRequestNumber(year, seq), source, req.ServiceType, contact, route)
		if err != nil {
			return err
		}
		q.SubmittedBy = actor.UserID
		if err := q.UpdateDetails(req.ServiceType, req.CargoDescription, req.Notes, req.Urgent); err != nil {
			return err
		}
		if req.ScheduleID != nil {
			if err := q.LinkSchedule(req.ScheduleID); err != nil {
				return err
			}
		}
		if len(items) > 0 {
			if err := q.SetCommodityItems(items); err != nil {
				return err
			}
		}
		return repos.QuotationRepo().Save(ctx, q)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quotation request submitted",
		zap.String("request_number", q.RequestNumber),
		zap.String("source", string(q.Source)),
		zap.String("pol", q.Route.PolCode),
		zap.String("pod", q.Route.PodCode))
	s.publish(ctx, q)

	resp := ToQuotationResponse(q)
	return &resp, nil
}

// GetByID retrieves a request the actor may see
func (s *QuotationService) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*QuotationResponse, error) {
	q, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToQuotationResponse(q)
	return &resp, nil
}

// GetByNumber retrieves a request by its QR number
func (s *QuotationService) GetByNumber(ctx context.Context, actor Actor, number string) (*QuotationResponse, error) {
	q, err := s.quotationRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, q) {
		return nil, shared.ErrNotFound
	}
	resp := ToQuotationResponse(q)
	return &resp, nil
}

// List returns a page of requests. Customers only see their own.
func (s *QuotationService) List(ctx context.Context, actor Actor, filter ListFilter) (*shared.Paginated[QuotationResponse], error) {
	f := quotation.ListFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Status: quotation.Status(filter.Status),
		Source: quotation.Source(filter.Source),
	}
	f.Filter = f.Filter.Normalize()
	if filter.PolCode != "" {
		f.Filters["pol_code"] = strings.ToUpper(filter.PolCode)
	}
	if filter.PodCode != "" {
		f.Filters["pod_code"] = strings.ToUpper(filter.PodCode)
	}
	if filter.ServiceType != "" {
		f.Filters["service_type"] = filter.ServiceType
	}
	if filter.Urgent != nil {
		f.Filters["urgent"] = *filter.Urgent
	}
	if filter.Exported != nil {
		f.Filters["exported"] = *filter.Exported
	}
	if filter.CreatedFrom != nil {
		f.Filters["created_from"] = *filter.CreatedFrom
	}
	if filter.CreatedTo != nil {
		// inclusive of the whole day
		f.Filters["created_to"] = filter.CreatedTo.Add(24*time.Hour - time.Nanosecond)
	}
	if actor.Staff {
		f.IncludeDeleted = filter.IncludeDeleted
	} else {
		f.OwnerOnly = true
		f.ContactEmail = actor.Email
		f.RobawsClientID = actor.RobawsClientID
	}

	items, total, err := s.quotationRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]QuotationResponse, len(items))
	for i := range items {
		out[i] = ToQuotationResponse(&items[i])
	}
	page := shared.NewPaginated(out, total, f.Page, f.PageSize)
	return &page, nil
}

// UpdateRoute replaces the route; pricing is cleared when it changes
func (s *QuotationService) UpdateRoute(ctx context.Context, actor Actor, id uuid.UUID, req RouteInput) (*QuotationResponse, error) {
	route, err := s.resolveRoute(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, func(q *quotation.QuotationRequest) error {
		return q.UpdateRoute(route)
	})
}

// UpdateDetails changes service type, description, notes, urgency and the linked sailing
func (s *QuotationService) UpdateDetails(ctx context.Context, actor Actor, id uuid.UUID, req UpdateDetailsRequest) (*QuotationResponse, error) {
	if req.ScheduleID != nil && !req.ClearSchedule {
		if _, err := s.loadSchedule(ctx, *req.ScheduleID); err != nil {
			return nil, err
		}
	}
	return s.mutate(ctx, actor, id, func(q *quotation.QuotationRequest) error {
		if err := q.UpdateDetails(req.ServiceType, req.CargoDescription, req.Notes, req.Urgent); err != nil {
			return err
		}
		switch {
		case req.ClearSchedule:
			return q.LinkSchedule(nil)
		case req.ScheduleID != nil:
			return q.LinkSchedule(req.ScheduleID)
		}
		return nil
	})
}

// SetCommodityItems replaces the cargo lines
func (s *QuotationService) SetCommodityItems(ctx context.Context, actor Actor, id uuid.UUID, req CommodityItemsRequest) (*QuotationResponse, error) {
	items, err := toCommodityItems(req.Items)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, func(q *quotation.QuotationRequest) error {
		return q.SetCommodityItems(items)
	})
}

// AddArticle adds a catalog article, optionally with its required add-ons
func (s *QuotationService) AddArticle(ctx context.Context, id uuid.UUID, req AddArticleRequest) (*QuotationResponse, error) {
	article, err := s.articles.GetArticle(ctx, req.ArticleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_ARTICLE", "Article not found")
		}
		return nil, err
	}
	if !article.IsActive {
		return nil, shared.NewDomainError("INVALID_ARTICLE", "Article is not active")
	}

	return s.mutate(ctx, Actor{Staff: true}, id, func(q *quotation.QuotationRequest) error {
		quantity := quantityFor(q, article.UnitType)
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		line, err := lineFor(article, quantity, nil)
		if err != nil {
			return err
		}
		if req.UnitPrice != nil {
			if err := line.ApplyMargin(*req.UnitPrice, decimal.Zero); err != nil {
				return err
			}
		}
		if err := q.AddArticle(*line); err != nil {
			return err
		}
		if req.IncludeRequired {
			_, err := s.addRequiredChildren(q, article, line.ID)
			return err
		}
		return nil
	})
}

// RemoveArticle removes a line together with its add-on lines
func (s *QuotationService) RemoveArticle(ctx context.Context, id, lineID uuid.UUID) (*QuotationResponse, error) {
	return s.mutate(ctx, Actor{Staff: true}, id, func(q *quotation.QuotationRequest) error {
		return q.RemoveArticle(lineID)
	})
}

// UpdateArticleQuantity changes the quantity of one line
func (s *QuotationService) UpdateArticleQuantity(ctx context.Context, id, lineID uuid.UUID, req UpdateArticleQuantityRequest) (*QuotationResponse, error) {
	return s.mutate(ctx, Actor{Staff: true}, id, func(q *quotation.QuotationRequest) error {
		return q.UpdateArticleQuantity(lineID, req.Quantity)
	})
}

// AutoSelectArticles adds the best matching catalog articles for the route,
// service type and cargo. Articles already on the request are skipped.
func (s *QuotationService) AutoSelectArticles(ctx context.Context, id uuid.UUID, req AutoSelectRequest) (*AutoSelectResponse, error) {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	criteria := catalog.SuggestCriteria{
		ServiceType:   q.ServiceType,
		Carrier:       req.Carrier,
		PolCode:       q.Route.PolCode,
		PodCode:       q.Route.PodCode,
		CommodityType: req.CommodityType,
		Date:          s.now(),
	}
	if criteria.CommodityType == "" && len(q.CommodityItems) > 0 {
		criteria.CommodityType = string(q.CommodityItems[0].Type)
	}
	if criteria.Carrier == "" && q.ScheduleID != nil {
		if sched, err := s.scheduleRepo.FindByID(ctx, *q.ScheduleID); err == nil {
			criteria.Carrier = sched.Carrier
		}
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultAutoSelectLimit
	}

	suggestions, err := s.articles.SuggestArticles(ctx, criteria, limit)
	if err != nil {
		return nil, err
	}

	added := make([]ArticleLineResponse, 0)
	skipped := 0
	for _, sg := range suggestions {
		if sg.Score < req.MinScore || q.HasArticle(sg.Article.ID) {
			skipped++
			continue
		}
		line, err := lineFor(sg.Article, quantityFor(q, sg.Article.UnitType), nil)
		if err != nil {
			s.logger.Warn("skipping suggested article", zap.String("article_id", sg.Article.ID.String()), zap.Error(err))
			skipped++
			continue
		}
		if err := q.AddArticle(*line); err != nil {
			return nil, err
		}
		added = append(added, ToArticleLineResponse(line))
		if !req.SkipRequired {
			children, err := s.addRequiredChildren(q, sg.Article, line.ID)
			if err != nil {
				return nil, err
			}
			added = append(added, children...)
		}
	}

	if len(added) > 0 {
		if err := s.quotationRepo.Save(ctx, q); err != nil {
			return nil, fmt.Errorf("failed to save quotation: %w", err)
		}
	}
	s.logger.Info("articles auto-selected",
		zap.String("request_number", q.RequestNumber),
		zap.Int("added", len(added)),
		zap.Int("skipped", skipped))

	return &AutoSelectResponse{Added: added, Skipped: skipped, Quotation: ToQuotationResponse(q)}, nil
}

// Price applies the customer's margin rules to every line and resolves VAT
// from the countries of the loading and discharge ports
func (s *QuotationService) Price(ctx context.Context, id uuid.UUID) (*PriceResponse, error) {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer := pricing.Customer{RobawsClientID: q.Contact.RobawsClientID, CustomerType: q.Contact.CustomerType}
	calc, profile, err := s.margins.CalculatorFor(ctx, customer, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve margin rules: %w", err)
	}
	for i := range q.Articles {
		line := &q.Articles[i]
		margin := calc.CalculateMargin(line.PurchasePrice, line.VehicleCategory, line.UnitType)
		if err := line.ApplyMargin(line.PurchasePrice, margin); err != nil {
			return nil, err
		}
	}

	ports, err := s.ports.FindByCodes(ctx, []string{q.Route.PolCode, q.Route.PodCode})
	if err != nil {
		return nil, err
	}
	decision := s.vat.Decide(countryOfPort(ports[q.Route.PolCode]), countryOfPort(ports[q.Route.PodCode]))

	var profileID *uuid.UUID
	profileName := ""
	if profile != nil {
		pid := profile.ID
		profileID = &pid
		profileName = profile.Name
	}
	if err := q.ApplyPricing(profileID, decision.Code, decision.Rate); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Save(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to save quotation: %w", err)
	}

	s.logger.Info("quotation priced",
		zap.String("request_number", q.RequestNumber),
		zap.String("vat_code", decision.Code),
		zap.String("total", q.Totals.Total.StringFixed(2)))
	s.publish(ctx, q)

	return &PriceResponse{
		Quotation:    ToQuotationResponse(q),
		VatTreatment: string(decision.Treatment),
		ProfileName:  profileName,
	}, nil
}

// ChangeStatus moves a request through its lifecycle
func (s *QuotationService) ChangeStatus(ctx context.Context, id uuid.UUID, req ChangeStatusRequest) (*QuotationResponse, error) {
	return s.mutate(ctx, Actor{Staff: true}, id, func(q *quotation.QuotationRequest) error {
		return q.ChangeStatus(quotation.Status(req.Status), req.Reason)
	})
}

// Delete soft deletes a request. The number is not reused.
func (s *QuotationService) Delete(ctx context.Context, id uuid.UUID) error {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := q.SoftDelete(); err != nil {
		return err
	}
	return s.quotationRepo.Save(ctx, q)
}

// Restore brings back a soft deleted request
func (s *QuotationService) Restore(ctx context.Context, id uuid.UUID) (*QuotationResponse, error) {
	q, err := s.quotationRepo.FindByIDWithDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := q.Restore(); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	resp := ToQuotationResponse(q)
	return &resp, nil
}

func (s *QuotationService) mutate(ctx context.Context, actor Actor, id uuid.UUID, fn func(q *quotation.QuotationRequest) error) (*QuotationResponse, error) {
	q, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := fn(q); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Save(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to save quotation: %w", err)
	}
	s.publish(ctx, q)
	resp := ToQuotationResponse(q)
	return &resp, nil
}

func (s *QuotationService) load(ctx context.Context, actor Actor, id uuid.UUID) (*quotation.QuotationRequest, error) {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, q) {
		return nil, shared.ErrNotFound
	}
	return q, nil
}

func (s *QuotationService) loadSchedule(ctx context.Context, id uuid.UUID) (*schedule.SailingSchedule, error) {
	sched, err := s.scheduleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_SCHEDULE", "Sailing schedule not found")
		}
		return nil, err
	}
	return sched, nil
}

// resolveRoute maps free-text ports onto UN/LOCODEs. POL and POD are required.
func (s *QuotationService) resolveRoute(ctx context.Context, in RouteInput) (quotation.Route, error) {
	var route quotation.Route
	fields := []struct {
		label    string
		input    string
		required bool
		target   *string
	}{
		{"place of receipt", in.Por, false, &route.PorCode},
		{"port of loading", in.Pol, true, &route.PolCode},
		{"port of discharge", in.Pod, true, &route.PodCode},
		{"final destination", in.Fdest, false, &route.FdestCode},
	}
	for _, f := range fields {
		input := strings.TrimSpace(f.input)
		if input == "" {
			if f.required {
				return route, shared.NewDomainError("INVALID_ROUTE", "The "+f.label+" is required")
			}
			continue
		}
		p, err := s.resolver.ResolveOne(ctx, input)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return route, shared.NewDomainError("INVALID_ROUTE", fmt.Sprintf("Unknown %s: %s", f.label, input))
			}
			return route, err
		}
		*f.target = p.Code
	}
	return route, route.Validate()
}

func (s *QuotationService) addRequiredChildren(q *quotation.QuotationRequest, parent *catalog.Article, parentLineID uuid.UUID) ([]ArticleLineResponse, error) {
	required, _ := catalog.AdditionalServices(parent)
	added := make([]ArticleLineResponse, 0, len(required))
	for _, child := range required {
		line, err := lineFor(child, quantityFor(q, child.UnitType), &parentLineID)
		if err != nil {
			return nil, err
		}
		if err := q.AddArticle(*line); err != nil {
			if shared.IsDomainError(err, "DUPLICATE_ARTICLE") {
				continue
			}
			return nil, err
		}
		added = append(added, ToArticleLineResponse(line))
	}
	return added, nil
}

func (s *QuotationService) publish(ctx context.Context, q *quotation.QuotationRequest) {
	if err := shared.PublishAndClear(ctx, s.publisher, q); err != nil {
		s.logger.Error("failed to publish quotation events",
			zap.String("request_number", q.RequestNumber),
			zap.Error(err))
	}
}

// canSee reports whether the actor may read a request. Others' requests look missing.
func canSee(actor Actor, q *quotation.QuotationRequest) bool {
	return actor.Staff || q.IsOwnedBy(actor.Email, actor.RobawsClientID)
}

func lineFor(a *catalog.Article, quantity decimal.Decimal, parentLineID *uuid.UUID) (*quotation.ArticleLine, error) {
	id := a.ID
	line, err := quotation.NewArticleLine(&id, a.RobawsArticleID, a.Name, a.UnitType, quantity, a.UnitPrice)
	if err != nil {
		return nil, err
	}
	line.VehicleCategory = a.VehicleCategory
	line.ParentLineID = parentLineID
	return line, nil
}

func quantityFor(q *quotation.QuotationRequest, basis valueobject.UnitBasis) decimal.Decimal {
	quantity := q.Cargo().QuantityFor(basis)
	if !quantity.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return quantity
}

func toCommodityItems(in []CommodityItemInput) ([]quotation.CommodityItem, error) {
	items := make([]quotation.CommodityItem, 0, len(in))
	for _, input := range in {
		item, err := input.toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

func countryOfPort(p *port.Port) valueobject.Country {
	if p == nil {
		return ""
	}
	return p.CountryCode()
}

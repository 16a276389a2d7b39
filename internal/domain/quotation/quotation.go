package quotation

import (
	"strings"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeQuotation is the aggregate type name used on events
const AggregateTypeQuotation = "QuotationRequest"

// Route is the POR -> POL -> POD -> FDEST chain of UN/LOCODEs
type Route struct {
	PorCode   string
	PolCode   string
	PodCode   string
	FdestCode string
}

// Normalized returns the route with upper-cased, trimmed codes
func (r Route) Normalized() Route {
	return Route{
		PorCode:   normalizeCode(r.PorCode),
		PolCode:   normalizeCode(r.PolCode),
		PodCode:   normalizeCode(r.PodCode),
		FdestCode: normalizeCode(r.FdestCode),
	}
}

// Validate requires at least a port of loading and discharge
func (r Route) Validate() error {
	if r.PolCode == "" {
		return shared.NewDomainError("INVALID_ROUTE", "Port of loading is required")
	}
	if r.PodCode == "" {
		return shared.NewDomainError("INVALID_ROUTE", "Port of discharge is required")
	}
	if r.PolCode == r.PodCode {
		return shared.NewDomainError("INVALID_ROUTE", "Port of loading and discharge must differ")
	}
	return nil
}

func normalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Contact is the customer side of a quotation request
type Contact struct {
	ContactName     string
	ContactEmail    string
	ContactPhone    string
	ClientName      string
	RobawsClientID  string
	CustomerType    string
	CustomerCountry valueobject.Country
	ClientReference string
}

// Totals holds the priced amounts of a quotation request
type Totals struct {
	Subtotal  decimal.Decimal
	VatCode   string
	VatRate   decimal.Decimal
	VatAmount decimal.Decimal
	Total     decimal.Decimal
}

// QuotationRequest is the aggregate root for a customer pricing request
type QuotationRequest struct {
	shared.BaseAggregateRoot
	RequestNumber    string
	Source           Source
	Status           Status
	ServiceType      string
	Contact          Contact
	Route            Route
	CargoDescription string
	CommodityItems   []CommodityItem
	ScheduleID       *uuid.UUID
	Articles         []ArticleLine
	PricingProfileID *uuid.UUID
	Totals           Totals
	Currency         valueobject.Currency
	RobawsOfferID    string
	ExportedAt       *time.Time
	PricedAt         *time.Time
	Urgent           bool
	Notes            string
	SubmittedBy      *uuid.UUID
	DeletedAt        *time.Time
}

// NewQuotationRequest creates a pending request. The request number is
// assigned by the caller from the yearly sequence.
func NewQuotationRequest(number string, source Source, serviceType string, contact Contact, route Route) (*QuotationRequest, error) {
	if !IsRequestNumber(number) {
		return nil, shared.NewDomainError("INVALID_REQUEST_NUMBER", "Invalid request number: "+number)
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Unknown source: "+string(source))
	}
	contact.ContactEmail = strings.ToLower(strings.TrimSpace(contact.ContactEmail))
	contact.ContactName = strings.TrimSpace(contact.ContactName)
	if contact.ContactEmail == "" {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Contact email is required")
	}
	route = route.Normalized()
	if err := route.Validate(); err != nil {
		return nil, err
	}

	q := &QuotationRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RequestNumber:     number,
		Source:            source,
		Status:            StatusPending,
		ServiceType:       strings.TrimSpace(serviceType),
		Contact:           contact,
		Route:             route,
		Currency:          valueobject.DefaultCurrency,
		Totals:            zeroTotals(),
	}
	q.AddDomainEvent(NewQuotationSubmittedEvent(q))
	return q, nil
}

func zeroTotals() Totals {
	return Totals{
		Subtotal:  decimal.Zero,
		VatRate:   decimal.Zero,
		VatAmount: decimal.Zero,
		Total:     decimal.Zero,
	}
}

// IsDeleted reports whether the request has been soft deleted
func (q *QuotationRequest) IsDeleted() bool {
	return q.DeletedAt != nil
}

// IsEditable reports whether route, cargo and lines can still change
func (q *QuotationRequest) IsEditable() bool {
	return !q.IsDeleted() && !q.Status.IsTerminal()
}

func (q *QuotationRequest) ensureEditable() error {
	if q.IsDeleted() {
		return shared.NewDomainError("QUOTATION_DELETED", "Quotation request is deleted")
	}
	if q.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Quotation request is "+string(q.Status)+" and can no longer change")
	}
	return nil
}

// UpdateRoute replaces the route. Prices depend on the route so the
// totals are cleared. Changes to cargo or lines clear them the same way.
func (q *QuotationRequest) UpdateRoute(route Route) error {
	if err := q.ensureEditable(); err != nil {
		return err
	}
	route = route.Normalized()
	if err := route.Validate(); err != nil {
		return err
	}
	if route == q.Route {
		return nil
	}
	q.Route = route
	q.clearPricing()
	q.touch()
	return nil
}

// UpdateDetails changes the free-form fields of the request
func (q *QuotationRequest) UpdateDetails(serviceType, cargoDescription, notes string, urgent bool) error {
	if err := q.ensureEditable(); err != nil {
		return err
	}
	q.ServiceType = strings.TrimSpace(serviceType)
	q.CargoDescription = strings.TrimSpace(cargoDescription)
	q.Notes = strings.TrimSpace(notes)
	q.Urgent = urgent
	q.touch()
	return nil
}

// LinkSchedule attaches (or with nil, detaches) a sailing
func (q *QuotationRequest) LinkSchedule(scheduleID *uuid.UUID) error {
	if err := q.ensureEditable(); err != nil {
		return err
	}
	q.ScheduleID = scheduleID
	q.touch()
	return nil
}

// SetCommodityItems replaces the cargo lines
func (q *QuotationRequest) SetCommodityItems(items []CommodityItem) error {
	if err := q.ensureEditable(); err != nil {
		return err
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return err
		}
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].SortOrder = i
	}
	q.CommodityItems = items
	q.clearPricing()
	q.touch()
	return nil
}

// Cargo returns the totals of the commodity lines
func (q *QuotationRequest) Cargo() CargoTotals {
	return SumCargo(q.CommodityItems)
}

// AddArticle appends an article line. The same article cannot be added twice
// under the same parent.
func (q *QuotationRequest) AddArticle(line ArticleLine) error {
	if err := q.ensureEditable(); err != nil {
		return err
	}
	if line.ArticleID != nil {
		for _, existing := range q.Articles {
			if existing.ArticleID != nil && *existing.ArticleID == *line.ArticleID && sameParent(existing.ParentLineID, line.ParentLineID) {
				return shared.NewDomainError("DUPLICATE_ARTICLE", "Article is already on this quotation")
			}
		}
	}
	line.SortOrder = len(q.Articles)
	q.Articles = append(q.Articles, line)
	q.clearPricing()
	q.touch()
	return nil
}

// HasArticle reports whether an article is already on the quotation
func (q *QuotationRequest) HasArticle(articleID uuid.UUID) bool {
	for _, l := range q.Articles {
		if l.ArticleID != nil && *l.ArticleID == articleID {
			return true
		}
	}
	return false
}

// RemoveArticle removes a line and any lines attached to it
func (q *QuotationRequest) RemoveArticle(lineID uuid.UUID) error {
	if err := q.ensureEditable(); err != nil {
		return err
	}
	kept := make([]ArticleLine, 0, len(q.Articles))
	found := false
	for _, l := range q.Articles {
		if l.ID == lineID {
			found = true
			continue
		}
		if l.ParentLineID != nil && *l.ParentLineID == lineID {
			continue
		}
		kept = append(kept, l)
	}
	if !found {
		return shared.NewDomainError("NOT_FOUND", "Article line not found")
	}
	for i := range kept {
		kept[i].SortOrder = i
	}
	q.Articles = kept
	q.clearPricing()
	q.touch()
	return nil
}

// UpdateArticleQuantity changes the quantity of a line
func (q *QuotationRequest) UpdateArticleQuantity(lineID uuid.UUID, quantity decimal.Decimal) error {
	if err := q.ensureEditable(); err != nil {
		return err
	}
	for i := range q.Articles {
		if q.Articles[i].ID == lineID {
			if err := q.Articles[i].SetQuantity(quantity); err != nil {
				return err
			}
			q.clearPricing()
			q.touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Article line not found")
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ApplyPricing stores the priced totals. Line prices must already carry
// their margins.
func (q *QuotationRequest) ApplyPricing(profileID *uuid.UUID, vatCode string, vatRate decimal.Decimal) error {
	if err := q.ensureEditable(); err != nil {
		return err
	}
	if len(q.Articles) == 0 {
		return shared.NewDomainError("NO_ARTICLES", "Quotation has no articles to price")
	}
	q.PricingProfileID = profileID
	q.recalculateSubtotal()
	q.Totals.VatCode = vatCode
	q.Totals.VatRate = vatRate
	q.Totals.VatAmount = valueobject.RoundMoney(q.Totals.Subtotal.Mul(vatRate).Div(decimal.NewFromInt(100)))
	q.Totals.Total = q.Totals.Subtotal.Add(q.Totals.VatAmount)
	now := time.Now()
	q.PricedAt = &now
	q.touch()
	q.AddDomainEvent(NewQuotationPricedEvent(q))
	return nil
}

// IsPriced reports whether totals were computed for the current lines
func (q *QuotationRequest) IsPriced() bool {
	return q.PricedAt != nil
}

func (q *QuotationRequest) recalculateSubtotal() {
	sum := decimal.Zero
	for _, l := range q.Articles {
		sum = sum.Add(l.Subtotal)
	}
	q.Totals.Subtotal = valueobject.RoundMoney(sum)
	if q.Totals.VatRate.IsZero() {
		q.Totals.VatAmount = decimal.Zero
	} else {
		q.Totals.VatAmount = valueobject.RoundMoney(q.Totals.Subtotal.Mul(q.Totals.VatRate).Div(decimal.NewFromInt(100)))
	}
	q.Totals.Total = q.Totals.Subtotal.Add(q.Totals.VatAmount)
}

func (q *QuotationRequest) clearPricing() {
	q.PricedAt = nil
	q.PricingProfileID = nil
	q.Totals.VatCode = ""
	q.Totals.VatRate = decimal.Zero
	q.recalculateSubtotal()
}

// ChangeStatus moves the request through its lifecycle
func (q *QuotationRequest) ChangeStatus(next Status, reason string) error {
	if q.IsDeleted() {
		return shared.NewDomainError("QUOTATION_DELETED", "Quotation request is deleted")
	}
	if !next.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown status: "+string(next))
	}
	if !q.Status.CanTransitionTo(next) {
		return shared.NewDomainError("INVALID_STATE_TRANSITION", "Cannot move from "+string(q.Status)+" to "+string(next))
	}
	if next == StatusQuoted && !q.IsPriced() {
		return shared.NewDomainError("NOT_PRICED", "Quotation must be priced before it is quoted")
	}
	old := q.Status
	q.Status = next
	q.touch()
	q.AddDomainEvent(NewQuotationStatusChangedEvent(q, old, next, reason))
	return nil
}

// MarkExported records the offer id returned by Robaws
func (q *QuotationRequest) MarkExported(offerID string) error {
	offerID = strings.TrimSpace(offerID)
	if offerID == "" {
		return shared.NewDomainError("INVALID_OFFER_ID", "Robaws offer id cannot be empty")
	}
	now := time.Now()
	q.RobawsOfferID = offerID
	q.ExportedAt = &now
	q.touch()
	return nil
}

// IsExported reports whether an offer exists in Robaws
func (q *QuotationRequest) IsExported() bool {
	return q.RobawsOfferID != ""
}

// SoftDelete hides the request. Its number stays allocated.
func (q *QuotationRequest) SoftDelete() error {
	if q.IsDeleted() {
		return shared.NewDomainError("ALREADY_DELETED", "Quotation request is already deleted")
	}
	now := time.Now()
	q.DeletedAt = &now
	q.touch()
	return nil
}

// Restore brings a soft deleted request back
func (q *QuotationRequest) Restore() error {
	if !q.IsDeleted() {
		return shared.NewDomainError("NOT_DELETED", "Quotation request is not deleted")
	}
	q.DeletedAt = nil
	q.touch()
	return nil
}

// IsOwnedBy reports whether a customer identified by email or Robaws client
// id may see this request
func (q *QuotationRequest) IsOwnedBy(email, robawsClientID string) bool {
	if robawsClientID != "" && q.Contact.RobawsClientID == robawsClientID {
		return true
	}
	email = strings.ToLower(strings.TrimSpace(email))
	return email != "" && q.Contact.ContactEmail == email
}

func (q *QuotationRequest) touch() {
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
}

package quotation

import (
	"strings"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ArticleLine is a priced article on a quotation request
type ArticleLine struct {
	ID              uuid.UUID
	ArticleID       *uuid.UUID
	RobawsArticleID string
	ParentLineID    *uuid.UUID
	Description     string
	VehicleCategory string
	UnitType        valueobject.UnitBasis
	Quantity        decimal.Decimal
	PurchasePrice   decimal.Decimal
	MarginAmount    decimal.Decimal
	UnitPrice       decimal.Decimal
	Subtotal        decimal.Decimal
	SortOrder       int
}

// NewArticleLine creates a line. Quantity is kept at four decimals and the
// subtotal is quantity x unit price rounded to cents.
func NewArticleLine(articleID *uuid.UUID, robawsArticleID, description string, unitType valueobject.UnitBasis, quantity, unitPrice decimal.Decimal) (*ArticleLine, error) {
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Article line description cannot be empty")
	}
	if unitType == "" {
		unitType = valueobject.UnitBasisUnit
	}
	if !unitType.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT_TYPE", "Unknown unit type: "+string(unitType))
	}
	line := &ArticleLine{
		ID:              uuid.New(),
		ArticleID:       articleID,
		RobawsArticleID: robawsArticleID,
		Description:     strings.TrimSpace(description),
		UnitType:        unitType,
		PurchasePrice:   unitPrice,
		MarginAmount:    decimal.Zero,
	}
	if err := line.SetQuantity(quantity); err != nil {
		return nil, err
	}
	if err := line.SetUnitPrice(unitPrice); err != nil {
		return nil, err
	}
	return line, nil
}

// SetQuantity sets the quantity (rounded to 4 decimals) and recomputes the subtotal
func (l *ArticleLine) SetQuantity(q decimal.Decimal) error {
	q = valueobject.RoundQuantity(q)
	if !q.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	if !l.UnitType.IsFractional() && !q.Equal(q.Truncate(0)) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a whole number for unit type "+string(l.UnitType))
	}
	l.Quantity = q
	l.recompute()
	return nil
}

// SetUnitPrice sets the selling price per unit and recomputes the subtotal
func (l *ArticleLine) SetUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price must be >= 0")
	}
	l.UnitPrice = valueobject.RoundMoney(price)
	l.recompute()
	return nil
}

// ApplyMargin sets purchase price and margin; unit price becomes their sum
func (l *ArticleLine) ApplyMargin(purchase, margin decimal.Decimal) error {
	if purchase.IsNegative() || margin.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Purchase price and margin must be >= 0")
	}
	l.PurchasePrice = valueobject.RoundMoney(purchase)
	l.MarginAmount = valueobject.RoundMoney(margin)
	return l.SetUnitPrice(l.PurchasePrice.Add(l.MarginAmount))
}

func (l *ArticleLine) recompute() {
	l.Subtotal = valueobject.LineSubtotal(l.Quantity, l.UnitPrice)
}

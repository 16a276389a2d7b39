package valueobject

import (
	"github.com/shopspring/decimal"
)

// QuantityScale is the precision kept for fractional freight quantities (LM, CBM)
const QuantityScale int32 = 4

// UnitBasis is the unit a freight price is expressed in
type UnitBasis string

const (
	UnitBasisLM       UnitBasis = "LM"       // lane metre
	UnitBasisCBM      UnitBasis = "CBM"      // cubic metre
	UnitBasisWM       UnitBasis = "WM"       // weight/measure, the greater of tonnes and CBM
	UnitBasisUnit     UnitBasis = "UNIT"     // per vehicle or piece
	UnitBasisShipment UnitBasis = "SHIPMENT" // lump sum per shipment
)

// IsValid reports whether the basis is known
func (u UnitBasis) IsValid() bool {
	switch u {
	case UnitBasisLM, UnitBasisCBM, UnitBasisWM, UnitBasisUnit, UnitBasisShipment:
		return true
	}
	return false
}

// IsFractional reports whether quantities on this basis are measured rather than counted
func (u UnitBasis) IsFractional() bool {
	return u == UnitBasisLM || u == UnitBasisCBM || u == UnitBasisWM
}

// RoundQuantity rounds a quantity to QuantityScale decimals
func RoundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityScale)
}

// LineSubtotal computes quantity x unit price with the quantity held at
// four decimals and the result rounded to money precision
func LineSubtotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return RoundMoney(RoundQuantity(quantity).Mul(unitPrice))
}

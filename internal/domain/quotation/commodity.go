package quotation

import (
	"strings"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommodityType classifies a cargo line
type CommodityType string

const (
	CommodityCar       CommodityType = "car"
	CommoditySUV       CommodityType = "suv"
	CommodityVan       CommodityType = "van"
	CommodityTruck     CommodityType = "truck"
	CommodityMachinery CommodityType = "machinery"
	CommodityContainer CommodityType = "container"
	CommodityBreakbulk CommodityType = "breakbulk"
	CommodityOther     CommodityType = "other"
)

// IsValid returns true if the commodity type is known
func (c CommodityType) IsValid() bool {
	switch c {
	case CommodityCar, CommoditySUV, CommodityVan, CommodityTruck, CommodityMachinery,
		CommodityContainer, CommodityBreakbulk, CommodityOther:
		return true
	}
	return false
}

// IsVehicle reports whether the commodity rolls on its own wheels
func (c CommodityType) IsVehicle() bool {
	switch c {
	case CommodityCar, CommoditySUV, CommodityVan, CommodityTruck:
		return true
	}
	return false
}

var (
	cm3PerM3    = decimal.NewFromInt(1_000_000)
	cm2PerM2    = decimal.NewFromInt(10_000)
	laneWidthM  = decimal.RequireFromString("2.5")
	kgPerTonne  = decimal.NewFromInt(1000)
	maxQuantity = 999
)

// CommodityItem is one cargo line of a quotation request
type CommodityItem struct {
	ID          uuid.UUID
	Type        CommodityType
	Description string
	Make        string
	Model       string
	Quantity    int
	LengthCm    decimal.Decimal
	WidthCm     decimal.Decimal
	HeightCm    decimal.Decimal
	WeightKg    decimal.Decimal
	SortOrder   int
}

// NewCommodityItem creates a validated cargo line
func NewCommodityItem(itemType CommodityType, description string, quantity int, lengthCm, widthCm, heightCm, weightKg decimal.Decimal) (*CommodityItem, error) {
	item := &CommodityItem{
		ID:          uuid.New(),
		Type:        itemType,
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		LengthCm:    lengthCm,
		WidthCm:     widthCm,
		HeightCm:    heightCm,
		WeightKg:    weightKg,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks the cargo line
func (i *CommodityItem) Validate() error {
	if !i.Type.IsValid() {
		return shared.NewDomainError("INVALID_COMMODITY_TYPE", "Unknown commodity type: "+string(i.Type))
	}
	if i.Quantity < 1 || i.Quantity > maxQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Commodity quantity must be between 1 and 999")
	}
	for _, v := range []decimal.Decimal{i.LengthCm, i.WidthCm, i.HeightCm, i.WeightKg} {
		if v.IsNegative() {
			return shared.NewDomainError("INVALID_DIMENSION", "Dimensions and weight must be >= 0")
		}
	}
	return nil
}

// CBM returns the cubic metres of the line (all units), rounded to 4 decimals
func (i *CommodityItem) CBM() decimal.Decimal {
	per := i.LengthCm.Mul(i.WidthCm).Mul(i.HeightCm).Div(cm3PerM3)
	return valueobject.RoundQuantity(per.Mul(decimal.NewFromInt(int64(i.Quantity))))
}

// LM returns the lane metres of the line (all units), rounded to 4 decimals.
// One lane metre is one metre of a 2.5 m wide deck lane.
func (i *CommodityItem) LM() decimal.Decimal {
	areaM2 := i.LengthCm.Mul(i.WidthCm).Div(cm2PerM2)
	per := areaM2.Div(laneWidthM)
	return valueobject.RoundQuantity(per.Mul(decimal.NewFromInt(int64(i.Quantity))))
}

// TotalWeightKg returns the weight of all units of the line
func (i *CommodityItem) TotalWeightKg() decimal.Decimal {
	return i.WeightKg.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CargoTotals aggregates the commodity lines of a request
type CargoTotals struct {
	Units    int
	CBM      decimal.Decimal
	LM       decimal.Decimal
	WeightKg decimal.Decimal
}

// SumCargo totals a list of commodity lines
func SumCargo(items []CommodityItem) CargoTotals {
	t := CargoTotals{CBM: decimal.Zero, LM: decimal.Zero, WeightKg: decimal.Zero}
	for i := range items {
		t.Units += items[i].Quantity
		t.CBM = t.CBM.Add(items[i].CBM())
		t.LM = t.LM.Add(items[i].LM())
		t.WeightKg = t.WeightKg.Add(items[i].TotalWeightKg())
	}
	return t
}

// QuantityFor returns the quantity an article priced on basis should be charged for
func (t CargoTotals) QuantityFor(basis valueobject.UnitBasis) decimal.Decimal {
	switch basis {
	case valueobject.UnitBasisLM:
		return valueobject.RoundQuantity(t.LM)
	case valueobject.UnitBasisCBM:
		return valueobject.RoundQuantity(t.CBM)
	case valueobject.UnitBasisWM:
		tonnes := t.WeightKg.Div(kgPerTonne)
		return valueobject.RoundQuantity(decimal.Max(tonnes, t.CBM))
	case valueobject.UnitBasisShipment:
		return decimal.NewFromInt(1)
	}
	if t.Units == 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(t.Units))
}

package pricing

import (
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// VAT codes as they are known in Robaws
const (
	VatCodeDomestic       = "21% VF"
	VatCodeIntraCommunity = "intracommunautair VF"
	VatCodeExport         = "vrijgesteld VF"
	VatCodeImport         = "vrijgesteld import VF"
	VatCodeDefault        = VatCodeDomestic
)

// VatTreatment names the branch of the decision table that produced a code
type VatTreatment string

const (
	VatTreatmentDomestic       VatTreatment = "domestic"
	VatTreatmentIntraCommunity VatTreatment = "intra_community"
	VatTreatmentExport         VatTreatment = "export"
	VatTreatmentImport         VatTreatment = "import"
	VatTreatmentDefault        VatTreatment = "default"
)

// VatDecision is the resolved VAT code with the rule that produced it
type VatDecision struct {
	Code      string          `json:"code"`
	Treatment VatTreatment    `json:"treatment"`
	Rate      decimal.Decimal `json:"rate"`
}

// VatResolver maps a transport route onto a Belgian VAT code
type VatResolver struct{}

// NewVatResolver creates a VAT resolver
func NewVatResolver() *VatResolver {
	return &VatResolver{}
}

// DetermineProjectVatCode returns the VAT code for a route between two countries
func (v *VatResolver) DetermineProjectVatCode(origin, destination valueobject.Country) string {
	return v.Decide(origin, destination).Code
}

// Decide evaluates the decision table:
//
//	BE -> BE      21% VF
//	BE -> EU      intracommunautair VF
//	BE -> non-EU  vrijgesteld VF (export)
//	xx -> BE      vrijgesteld import VF
//	otherwise     21% VF
func (v *VatResolver) Decide(origin, destination valueobject.Country) VatDecision {
	if origin.IsEmpty() || destination.IsEmpty() {
		return decision(VatCodeDefault, VatTreatmentDefault)
	}
	switch {
	case origin.IsBelgium() && destination.IsBelgium():
		return decision(VatCodeDomestic, VatTreatmentDomestic)
	case origin.IsBelgium() && destination.IsEU():
		return decision(VatCodeIntraCommunity, VatTreatmentIntraCommunity)
	case origin.IsBelgium():
		return decision(VatCodeExport, VatTreatmentExport)
	case destination.IsBelgium():
		return decision(VatCodeImport, VatTreatmentImport)
	}
	return decision(VatCodeDefault, VatTreatmentDefault)
}

// VatRateFor returns the percentage charged for a VAT code
func VatRateFor(code string) decimal.Decimal {
	if code == VatCodeDomestic {
		return decimal.NewFromInt(21)
	}
	return decimal.Zero
}

// VatAmount computes VAT on a net amount for a code, rounded to cents
func VatAmount(code string, net decimal.Decimal) decimal.Decimal {
	return valueobject.RoundMoney(net.Mul(VatRateFor(code)).Div(decimal.NewFromInt(100)))
}

func decision(code string, treatment VatTreatment) VatDecision {
	return VatDecision{Code: code, Treatment: treatment, Rate: VatRateFor(code)}
}

package integration

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// FieldType is the type of a Robaws extra field
// ---------------------------------------------------------------------------

// FieldType is the type of a Robaws extra field
type FieldType string

const (
	FieldTypeText     FieldType = "TEXT"
	FieldTypeTextarea FieldType = "TEXTAREA"
	FieldTypeSelect   FieldType = "SELECT"
	FieldTypeDate     FieldType = "DATE"
	FieldTypeNumber   FieldType = "NUMBER"
	FieldTypeCheckbox FieldType = "CHECKBOX"
)

// IsValid returns true if the field type is known
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeSelect,
		FieldTypeDate, FieldTypeNumber, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// Robaws extra field codes
const (
	FieldPOR                  = "POR"
	FieldPOL                  = "POL"
	FieldPOD                  = "POD"
	FieldFDEST                = "FDEST"
	FieldCargo                = "CARGO"
	FieldContainerNr          = "CONTAINER_NR"
	FieldTransportCompany     = "TRANSPORT_COMPANY"
	FieldShippingLine         = "SHIPPING_LINE"
	FieldMethod               = "METHOD"
	FieldTransitTime          = "TRANSIT_TIME"
	FieldVessel               = "VESSEL"
	FieldVoyage               = "VOYAGE"
	FieldETC                  = "ETC"
	FieldETS                  = "ETS"
	FieldETA                  = "ETA"
	FieldSeafreight           = "SEAFREIGHT"
	FieldPreCarriage          = "PRE_CARRIAGE"
	FieldCustomsOrigin        = "CUSTOMS_ORIGIN"
	FieldDestination          = "DESTINATION"
	FieldCustomsDest          = "CUSTOMS_DEST"
	FieldOncarriage           = "ONCARRIAGE"
	FieldInsurance            = "INSURANCE"
	FieldJSON                 = "JSON"
	FieldExtractedInformation = "EXTRACTED_INFORMATION"
	FieldUrgent               = "URGENT"
	FieldFollow               = "FOLLOW"
	FieldCustomer             = "CUSTOMER"
	FieldContact              = "CONTACT"
	FieldContactEmail         = "CONTACT_EMAIL"
	FieldConcerning           = "CONCERNING"
)

// ExtraSchema maps every Robaws extra field code to its type
var ExtraSchema = map[string]FieldType{
	FieldPOR:                  FieldTypeText,
	FieldPOL:                  FieldTypeText,
	FieldPOD:                  FieldTypeText,
	FieldFDEST:                FieldTypeText,
	FieldCargo:                FieldTypeTextarea,
	FieldContainerNr:          FieldTypeText,
	FieldTransportCompany:     FieldTypeText,
	FieldShippingLine:         FieldTypeSelect,
	FieldMethod:               FieldTypeSelect,
	FieldTransitTime:          FieldTypeNumber,
	FieldVessel:               FieldTypeText,
	FieldVoyage:               FieldTypeText,
	FieldETC:                  FieldTypeDate,
	FieldETS:                  FieldTypeDate,
	FieldETA:                  FieldTypeDate,
	FieldSeafreight:           FieldTypeCheckbox,
	FieldPreCarriage:          FieldTypeCheckbox,
	FieldCustomsOrigin:        FieldTypeCheckbox,
	FieldDestination:          FieldTypeCheckbox,
	FieldCustomsDest:          FieldTypeCheckbox,
	FieldOncarriage:           FieldTypeCheckbox,
	FieldInsurance:            FieldTypeCheckbox,
	FieldJSON:                 FieldTypeTextarea,
	FieldExtractedInformation: FieldTypeTextarea,
	FieldUrgent:               FieldTypeCheckbox,
	FieldFollow:               FieldTypeCheckbox,
	FieldCustomer:             FieldTypeText,
	FieldContact:              FieldTypeText,
	FieldContactEmail:         FieldTypeText,
	FieldConcerning:           FieldTypeText,
}

// ---------------------------------------------------------------------------
// FieldValue is the typed wrapper Robaws expects around each extra field
// ---------------------------------------------------------------------------

// FieldValue is the typed wrapper Robaws expects around each extra field.
// Exactly one member is set.
type FieldValue struct {
	StringValue  *string      `json:"stringValue,omitempty"`
	DateValue    *string      `json:"dateValue,omitempty"`
	IntegerValue *int64       `json:"integerValue,omitempty"`
	DecimalValue *json.Number `json:"decimalValue,omitempty"`
	BooleanValue *bool        `json:"booleanValue,omitempty"`
}

const robawsDateLayout = "2006-01-02"

var dateLayouts = []string{
	robawsDateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
}

var leadingNumber = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)

// WrapField wraps value according to the field type. It returns nil when the
// value is nil, empty or cannot be represented in that type.
func WrapField(t FieldType, value any) *FieldValue {
	if isEmpty(value) {
		return nil
	}
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeSelect:
		s := toText(value)
		if s == "" {
			return nil
		}
		return &FieldValue{StringValue: &s}
	case FieldTypeDate:
		s, ok := toDate(value)
		if !ok {
			return nil
		}
		return &FieldValue{DateValue: &s}
	case FieldTypeNumber:
		n, ok := toDecimal(value)
		if !ok {
			return nil
		}
		if n.Equal(n.Truncate(0)) {
			i := n.IntPart()
			return &FieldValue{IntegerValue: &i}
		}
		num := json.Number(n.String())
		return &FieldValue{DecimalValue: &num}
	case FieldTypeCheckbox:
		b, ok := toBool(value)
		if !ok {
			return nil
		}
		return &FieldValue{BooleanValue: &b}
	}
	return nil
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case *string:
		return x == nil || strings.TrimSpace(*x) == ""
	case *time.Time:
		return x == nil || x.IsZero()
	case time.Time:
		return x.IsZero()
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}

func toText(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case *string:
		return strings.TrimSpace(*x)
	case []string:
		return joinNonEmpty(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			parts = append(parts, toText(item))
		}
		return joinNonEmpty(parts)
	case map[string]any:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case decimal.Decimal:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(robawsDateLayout)
	case *time.Time:
		return x.Format(robawsDateLayout)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func joinNonEmpty(parts []string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

func toDate(v any) (string, bool) {
	switch x := v.(type) {
	case time.Time:
		return x.Format(robawsDateLayout), true
	case *time.Time:
		return x.Format(robawsDateLayout), true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format(robawsDateLayout), true
			}
		}
	}
	return "", false
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int32:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case float64:
		return decimal.NewFromFloat(x), true
	case float32:
		return decimal.NewFromFloat32(x), true
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case string:
		m := leadingNumber.FindString(x)
		if m == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(m, ",", "."))
		return d, err == nil
	}
	return decimal.Zero, false
}

func toBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case *bool:
		if x == nil {
			return false, false
		}
		return *x, true
	case int:
		return x != 0, true
	case int64:
		return x != 0, true
	case float64:
		return x != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "1", "true", "yes", "y", "x", "ja", "oui", "on":
			return true, true
		case "0", "false", "no", "n", "nee", "non", "off":
			return false, true
		}
	}
	return false, false
}

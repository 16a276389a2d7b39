package integration

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/quotation"
)

// extractionPaths lists, per field code, where the value may sit in
// extraction data. Nested groups come first, flat keys last.
var extractionPaths = map[string][]string{
	FieldPOR:                  {"routing.por", "routing.place_of_receipt", "por", "place_of_receipt"},
	FieldPOL:                  {"routing.pol", "routing.port_of_loading", "pol", "port_of_loading"},
	FieldPOD:                  {"routing.pod", "routing.port_of_discharge", "pod", "port_of_discharge"},
	FieldFDEST:                {"routing.fdest", "routing.final_destination", "fdest", "final_destination"},
	FieldMethod:               {"routing.method", "cargo.method", "method", "shipping_method"},
	FieldCargo:                {"cargo.description", "cargo.summary", "cargo_description", "cargo"},
	FieldContainerNr:          {"cargo.container_nr", "cargo.container_number", "container_nr", "container_number"},
	FieldTransportCompany:     {"vessel.transport_company", "transport_company"},
	FieldShippingLine:         {"vessel.shipping_line", "vessel.carrier", "shipping_line", "carrier"},
	FieldTransitTime:          {"vessel.transit_time", "routing.transit_time", "transit_time"},
	FieldVessel:               {"vessel.name", "vessel_name", "vessel"},
	FieldVoyage:               {"vessel.voyage", "voyage"},
	FieldETC:                  {"vessel.etc", "etc"},
	FieldETS:                  {"vessel.ets", "ets"},
	FieldETA:                  {"vessel.eta", "eta"},
	FieldSeafreight:           {"services.seafreight", "seafreight"},
	FieldPreCarriage:          {"services.pre_carriage", "pre_carriage"},
	FieldCustomsOrigin:        {"services.customs_origin", "customs_origin"},
	FieldDestination:          {"services.destination", "services.destination_charges"},
	FieldCustomsDest:          {"services.customs_dest", "services.customs_destination", "customs_dest"},
	FieldOncarriage:           {"services.oncarriage", "services.on_carriage", "oncarriage"},
	FieldInsurance:            {"services.insurance", "insurance"},
	FieldExtractedInformation: {"extracted_information", "summary"},
	FieldUrgent:               {"urgent"},
	FieldFollow:               {"follow"},
	FieldCustomer:             {"customer.name", "customer_name", "customer"},
	FieldContact:              {"contact.name", "contact_name", "contact"},
	FieldContactEmail:         {"contact.email", "customer.email", "contact_email", "email"},
	FieldConcerning:           {"concerning", "subject"},
}

// Mapper turns quotation requests and document extraction data into Robaws
// offer payloads
type Mapper struct {
	schema map[string]FieldType
}

// NewMapper creates a mapper over ExtraSchema
func NewMapper() *Mapper {
	return &Mapper{schema: ExtraSchema}
}

// MapExtraction flattens nested extraction data into Robaws field codes.
// Only codes in the schema are produced and empty values are dropped.
func (m *Mapper) MapExtraction(data map[string]any) map[string]any {
	out := make(map[string]any)
	if len(data) == 0 {
		return out
	}
	for code, paths := range extractionPaths {
		if _, ok := m.schema[code]; !ok {
			continue
		}
		for _, p := range paths {
			if v, ok := lookup(data, p); ok && !isEmpty(v) {
				out[code] = v
				break
			}
		}
	}
	if raw, err := json.Marshal(data); err == nil {
		out[FieldJSON] = string(raw)
	}
	return out
}

// Provides reports whether extraction data already holds a non-empty value
// for a field code under any of its paths
func (m *Mapper) Provides(data map[string]any, code string) bool {
	for _, p := range extractionPaths[code] {
		if v, ok := lookup(data, p); ok && !isEmpty(v) {
			return true
		}
	}
	return false
}

// lookup walks a dotted path. A scalar found where a group was expected
// does not match.
func lookup(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = data
	for _, part := range parts {
		group, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = group[part]
		if !ok {
			return nil, false
		}
	}
	if _, isGroup := cur.(map[string]any); isGroup && len(parts) == 1 {
		return nil, false
	}
	return cur, true
}

// ExtraFields wraps raw values by their schema type. Unknown codes and values
// that wrap to nothing are dropped.
func (m *Mapper) ExtraFields(values map[string]any) map[string]FieldValue {
	out := make(map[string]FieldValue, len(values))
	for code, v := range values {
		t, ok := m.schema[code]
		if !ok {
			continue
		}
		if wrapped := WrapField(t, v); wrapped != nil {
			out[code] = *wrapped
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Offer payload
// ---------------------------------------------------------------------------

// OfferLine is an article line on a Robaws offer
type OfferLine struct {
	ArticleID   string  `json:"articleId,omitempty"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// OfferPayload is the body sent to the Robaws offer endpoint
type OfferPayload struct {
	Title           string                `json:"title,omitempty"`
	Project         string                `json:"project,omitempty"`
	ClientReference string                `json:"clientReference,omitempty"`
	ContactEmail    string                `json:"contactEmail,omitempty"`
	CustomerID      string                `json:"customerId,omitempty"`
	ClientID        string                `json:"clientId,omitempty"`
	ExtraFields     map[string]FieldValue `json:"extraFields,omitempty"`
	LineItems       []OfferLine           `json:"lineItems,omitempty"`
}

// BuildPayload builds the offer payload for a quotation. Extraction data
// fills fields the quotation leaves empty; quotation values win otherwise.
func (m *Mapper) BuildPayload(q *quotation.QuotationRequest, extraction map[string]any) OfferPayload {
	values := m.MapExtraction(extraction)
	for code, v := range quotationValues(q) {
		if !isEmpty(v) {
			values[code] = v
		}
	}

	payload := OfferPayload{
		Title:           offerTitle(q),
		Project:         q.ServiceType,
		ClientReference: q.Contact.ClientReference,
		ContactEmail:    q.Contact.ContactEmail,
		CustomerID:      q.Contact.RobawsClientID,
		ClientID:        q.Contact.RobawsClientID,
		ExtraFields:     m.ExtraFields(values),
	}
	for _, l := range q.Articles {
		payload.LineItems = append(payload.LineItems, OfferLine{
			ArticleID:   l.RobawsArticleID,
			Description: l.Description,
			Quantity:    l.Quantity.InexactFloat64(),
			UnitPrice:   l.UnitPrice.InexactFloat64(),
		})
	}
	return payload
}

func quotationValues(q *quotation.QuotationRequest) map[string]any {
	values := map[string]any{
		FieldPOR:          q.Route.PorCode,
		FieldPOL:          q.Route.PolCode,
		FieldPOD:          q.Route.PodCode,
		FieldFDEST:        q.Route.FdestCode,
		FieldCargo:        cargoText(q),
		FieldCustomer:     q.Contact.ClientName,
		FieldContact:      q.Contact.ContactName,
		FieldContactEmail: q.Contact.ContactEmail,
		FieldConcerning:   q.RequestNumber,
	}
	if q.Urgent {
		values[FieldUrgent] = true
	}
	return values
}

func offerTitle(q *quotation.QuotationRequest) string {
	title := q.RequestNumber
	if q.Route.PolCode != "" && q.Route.PodCode != "" {
		title = fmt.Sprintf("%s %s > %s", title, q.Route.PolCode, q.Route.PodCode)
	}
	return title
}

// cargoText renders the commodity lines one per line, e.g. "2x car Toyota Corolla (450x180x150 cm, 1300 kg)"
func cargoText(q *quotation.QuotationRequest) string {
	lines := make([]string, 0, len(q.CommodityItems)+1)
	if q.CargoDescription != "" {
		lines = append(lines, q.CargoDescription)
	}
	for _, item := range q.CommodityItems {
		line := fmt.Sprintf("%dx %s", item.Quantity, item.Type)
		if item.Description != "" {
			line += " " + item.Description
		}
		if item.LengthCm.IsPositive() && item.WidthCm.IsPositive() && item.HeightCm.IsPositive() {
			line += fmt.Sprintf(" (%sx%sx%s cm", item.LengthCm.String(), item.WidthCm.String(), item.HeightCm.String())
			if item.WeightKg.IsPositive() {
				line += ", " + item.WeightKg.String() + " kg"
			}
			line += ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

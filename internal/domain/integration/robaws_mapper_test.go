package integration

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtraSchemaCoversAllCodes(t *testing.T) {
	codes := []string{
		"POR", "POL", "POD", "FDEST", "CARGO", "CONTAINER_NR", "TRANSPORT_COMPANY",
		"SHIPPING_LINE", "METHOD", "TRANSIT_TIME", "VESSEL", "VOYAGE", "ETC", "ETS", "ETA",
		"SEAFREIGHT", "PRE_CARRIAGE", "CUSTOMS_ORIGIN", "DESTINATION", "CUSTOMS_DEST",
		"ONCARRIAGE", "INSURANCE", "JSON", "EXTRACTED_INFORMATION", "URGENT", "FOLLOW",
		"CUSTOMER", "CONTACT", "CONTACT_EMAIL", "CONCERNING",
	}
	assert.Len(t, ExtraSchema, len(codes))
	for _, c := range codes {
		ft, ok := ExtraSchema[c]
		assert.True(t, ok, c)
		assert.True(t, ft.IsValid(), c)
	}
	assert.Equal(t, FieldTypeDate, ExtraSchema["ETA"])
	assert.Equal(t, FieldTypeNumber, ExtraSchema["TRANSIT_TIME"])
	assert.Equal(t, FieldTypeSelect, ExtraSchema["SHIPPING_LINE"])
	assert.Equal(t, FieldTypeCheckbox, ExtraSchema["INSURANCE"])
}

func TestWrapField(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		v := WrapField(FieldTypeText, "  Antwerp ")
		require.NotNil(t, v)
		assert.Equal(t, "Antwerp", *v.StringValue)
		assert.Nil(t, WrapField(FieldTypeText, "   "))
		assert.Nil(t, WrapField(FieldTypeTextarea, nil))

		list := WrapField(FieldTypeTextarea, []any{"car", "", "van"})
		require.NotNil(t, list)
		assert.Equal(t, "car, van", *list.StringValue)
	})

	t.Run("date", func(t *testing.T) {
		v := WrapField(FieldTypeDate, "15/03/2025")
		require.NotNil(t, v)
		assert.Equal(t, "2025-03-15", *v.DateValue)

		ts := time.Date(2025, 4, 1, 13, 0, 0, 0, time.UTC)
		assert.Equal(t, "2025-04-01", *WrapField(FieldTypeDate, ts).DateValue)
		assert.Nil(t, WrapField(FieldTypeDate, "next week"))
	})

	t.Run("number", func(t *testing.T) {
		i := WrapField(FieldTypeNumber, "14 days")
		require.NotNil(t, i)
		require.NotNil(t, i.IntegerValue)
		assert.Equal(t, int64(14), *i.IntegerValue)
		assert.Nil(t, i.DecimalValue)

		f := WrapField(FieldTypeNumber, decimal.RequireFromString("12.5"))
		require.NotNil(t, f)
		assert.Nil(t, f.IntegerValue)
		assert.Equal(t, json.Number("12.5"), *f.DecimalValue)

		assert.Nil(t, WrapField(FieldTypeNumber, "unknown"))
	})

	t.Run("checkbox", func(t *testing.T) {
		yes := WrapField(FieldTypeCheckbox, "Ja")
		require.NotNil(t, yes)
		assert.True(t, *yes.BooleanValue)

		no := WrapField(FieldTypeCheckbox, false)
		require.NotNil(t, no)
		assert.False(t, *no.BooleanValue)

		assert.Nil(t, WrapField(FieldTypeCheckbox, "maybe"))
	})

	t.Run("json shape", func(t *testing.T) {
		raw, err := json.Marshal(WrapField(FieldTypeDate, "2025-01-02"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"dateValue":"2025-01-02"}`, string(raw))

		raw, err = json.Marshal(WrapField(FieldTypeNumber, 3))
		require.NoError(t, err)
		assert.JSONEq(t, `{"integerValue":3}`, string(raw))
	})
}

func TestMapExtraction(t *testing.T) {
	m := NewMapper()

	t.Run("nested groups", func(t *testing.T) {
		out := m.MapExtraction(map[string]any{
			"routing": map[string]any{"pol": "BEANR", "pod": "NGLOS", "method": "RORO"},
			"vessel":  map[string]any{"name": "Grande Lagos", "voyage": "GLA0525", "ets": "2025-05-20"},
			"services": map[string]any{
				"insurance":      true,
				"customs_origin": "no",
			},
			"contact":  map[string]any{"name": "Jan", "email": "jan@example.be"},
			"customer": map[string]any{"name": "Auto Export BV"},
			"unknown":  "ignored",
		})
		assert.Equal(t, "BEANR", out[FieldPOL])
		assert.Equal(t, "NGLOS", out[FieldPOD])
		assert.Equal(t, "RORO", out[FieldMethod])
		assert.Equal(t, "Grande Lagos", out[FieldVessel])
		assert.Equal(t, "GLA0525", out[FieldVoyage])
		assert.Equal(t, true, out[FieldInsurance])
		assert.Equal(t, "no", out[FieldCustomsOrigin])
		assert.Equal(t, "jan@example.be", out[FieldContactEmail])
		assert.Equal(t, "Auto Export BV", out[FieldCustomer])
		assert.Contains(t, out, FieldJSON)
		assert.NotContains(t, out, "unknown")
		assert.NotContains(t, out, FieldPOR)
	})

	t.Run("flat keys and empty values", func(t *testing.T) {
		out := m.MapExtraction(map[string]any{
			"pol":    "BEZEE",
			"pod":    "",
			"vessel": "Silver Ray",
			"urgent": "yes",
		})
		assert.Equal(t, "BEZEE", out[FieldPOL])
		assert.NotContains(t, out, FieldPOD)
		assert.Equal(t, "Silver Ray", out[FieldVessel])
		assert.Equal(t, "yes", out[FieldUrgent])
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, m.MapExtraction(nil))
	})
}

func TestBuildPayload(t *testing.T) {
	q, err := quotation.NewQuotationRequest("QR-2025-0012", quotation.SourceStaff, "RORO_EXPORT",
		quotation.Contact{
			ContactName:     "Jan Peeters",
			ContactEmail:    "jan@example.be",
			ClientName:      "Auto Export BV",
			RobawsClientID:  "4711",
			ClientReference: "PO-55",
			CustomerCountry: valueobject.Belgium,
		},
		quotation.Route{PolCode: "BEANR", PodCode: "NGLOS"})
	require.NoError(t, err)
	require.NoError(t, q.SetCommodityItems([]quotation.CommodityItem{{
		Type: quotation.CommodityCar, Description: "Toyota Corolla", Quantity: 2,
		LengthCm: decimal.NewFromInt(450), WidthCm: decimal.NewFromInt(180), HeightCm: decimal.NewFromInt(150), WeightKg: decimal.NewFromInt(1300),
	}}))
	articleID := uuid.New()
	line, err := quotation.NewArticleLine(&articleID, "1001", "Seafreight", valueobject.UnitBasisUnit, decimal.NewFromInt(2), decimal.RequireFromString("850.50"))
	require.NoError(t, err)
	require.NoError(t, q.AddArticle(*line))
	q.Urgent = true

	p := NewMapper().BuildPayload(q, map[string]any{
		"routing": map[string]any{"pol": "BEZEE"},
		"vessel":  map[string]any{"name": "Grande Lagos", "transit_time": "21 days"},
	})

	assert.Equal(t, "QR-2025-0012 BEANR > NGLOS", p.Title)
	assert.Equal(t, "RORO_EXPORT", p.Project)
	assert.Equal(t, "PO-55", p.ClientReference)
	assert.Equal(t, "4711", p.CustomerID)
	assert.Equal(t, "4711", p.ClientID)

	assert.Equal(t, "BEANR", *p.ExtraFields[FieldPOL].StringValue, "quotation route wins over extraction")
	assert.Equal(t, "Grande Lagos", *p.ExtraFields[FieldVessel].StringValue)
	assert.Equal(t, int64(21), *p.ExtraFields[FieldTransitTime].IntegerValue)
	assert.Equal(t, "2x car Toyota Corolla (450x180x150 cm, 1300 kg)", *p.ExtraFields[FieldCargo].StringValue)
	assert.True(t, *p.ExtraFields[FieldUrgent].BooleanValue)
	assert.Equal(t, "QR-2025-0012", *p.ExtraFields[FieldConcerning].StringValue)
	assert.NotContains(t, p.ExtraFields, FieldPOR)
	assert.NotContains(t, p.ExtraFields, FieldFDEST)

	require.Len(t, p.LineItems, 1)
	assert.Equal(t, "1001", p.LineItems[0].ArticleID)
	assert.Equal(t, 850.5, p.LineItems[0].UnitPrice)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "extraFields")
	assert.Contains(t, decoded, "contactEmail")
}

func TestArticlePageHasMore(t *testing.T) {
	assert.True(t, (&ArticlePage{Page: 0, Size: 50, TotalItems: 120}).HasMore())
	assert.False(t, (&ArticlePage{Page: 2, Size: 50, TotalItems: 120}).HasMore())
	assert.False(t, (*ArticlePage)(nil).HasMore())
}

func TestMapper_Provides(t *testing.T) {
	m := NewMapper()
	data := map[string]any{
		"vessel":  "Silver Ray",
		"voyage":  "",
		"routing": map[string]any{"pol": "BEANR"},
	}
	assert.True(t, m.Provides(data, FieldVessel))
	assert.True(t, m.Provides(data, FieldPOL))
	assert.False(t, m.Provides(data, FieldVoyage))
	assert.False(t, m.Provides(data, FieldETS))
	assert.False(t, m.Provides(nil, FieldVessel))
}

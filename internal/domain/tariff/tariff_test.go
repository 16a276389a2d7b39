package tariff

import (
	"testing"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, dd int) *time.Time {
	v := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	return &v
}

func newTariff(t *testing.T, mappingID uuid.UUID, base string) *Tariff {
	t.Helper()
	tr, err := NewTariff(mappingID, Amounts{BaseFreight: d(base), BAF: d("50"), ETS: d("10.5")}, valueobject.UnitBasisUnit)
	require.NoError(t, err)
	return tr
}

func TestNewTariff(t *testing.T) {
	t.Run("valid tariff", func(t *testing.T) {
		tr, err := NewTariff(uuid.New(), Amounts{
			BaseFreight:    d("850"),
			BAF:            d("95.25"),
			ETS:            d("12.004"),
			PortAdditional: d("35"),
			AdminFee:       d("25"),
			THC:            d("0"),
		}, "")
		require.NoError(t, err)
		assert.Equal(t, valueobject.UnitBasisUnit, tr.UnitBasis)
		assert.Equal(t, "EUR", tr.Currency)
		assert.True(t, tr.ETS.Equal(d("12")))
		assert.True(t, tr.Total().Equal(d("1017.25")), "got %s", tr.Total())
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := NewTariff(uuid.New(), Amounts{BaseFreight: d("-1")}, valueobject.UnitBasisUnit)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be >= 0")
	})

	t.Run("rejects missing mapping", func(t *testing.T) {
		_, err := NewTariff(uuid.Nil, Amounts{}, valueobject.UnitBasisUnit)
		assert.Error(t, err)
	})
}

func TestTariff_UpdateAmounts(t *testing.T) {
	tr := newTariff(t, uuid.New(), "800")

	changed, err := tr.UpdateAmounts(tr.Amounts())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, tr.GetDomainEvents())

	changed, err = tr.UpdateBaseFreight(d("825"))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, tr.GetVersion())
	require.Len(t, tr.GetDomainEvents(), 1)

	ev := tr.GetDomainEvents()[0].(*TariffUpdatedEvent)
	assert.True(t, ev.OldTotal.Equal(d("860.5")))
	assert.True(t, ev.NewTotal.Equal(d("885.5")))

	_, err = tr.UpdateBaseFreight(d("-5"))
	assert.Error(t, err)
	assert.True(t, tr.BaseFreight.Equal(d("825")))
}

func TestTariff_Validity(t *testing.T) {
	tr := newTariff(t, uuid.New(), "800")

	changed, err := tr.SetValidity(day(2026, 1, 1), day(2026, 3, 31))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = tr.SetValidity(day(2026, 1, 1), day(2026, 3, 31))
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = tr.SetValidity(day(2026, 4, 1), day(2026, 3, 31))
	assert.Error(t, err)

	assert.True(t, tr.IsValidOn(time.Date(2026, 3, 31, 18, 0, 0, 0, time.UTC)))
	assert.False(t, tr.IsValidOn(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))

	tr.SetActive(false)
	assert.False(t, tr.IsValidOn(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestNewCarrierMapping(t *testing.T) {
	m, err := NewCarrierMapping(" grimaldi ", "nglos", "CAR")
	require.NoError(t, err)
	assert.Equal(t, CarrierGrimaldi, m.Carrier)
	assert.Equal(t, "NGLOS", m.PortCode)
	assert.Equal(t, VehicleCar, m.VehicleCategory)

	_, err = NewCarrierMapping("GRIMALDI", "LOS", "car")
	assert.Error(t, err)
	_, err = NewCarrierMapping("", "NGLOS", "car")
	assert.Error(t, err)
}

package tariff

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapping(t *testing.T, carrier, port, category string, primary bool) CarrierMapping {
	t.Helper()
	m, err := NewCarrierMapping(carrier, port, category)
	require.NoError(t, err)
	m.IsPrimary = primary
	return *m
}

func TestBuildRateMatrix(t *testing.T) {
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	losCar := mapping(t, CarrierGrimaldi, "NGLOS", VehicleCar, false)
	losTruck := mapping(t, CarrierGrimaldi, "NGLOS", VehicleTruck, false)
	cooCar := mapping(t, CarrierGrimaldi, "BJCOO", VehicleCar, false)
	primary := mapping(t, CarrierGrimaldi, "GHTEM", VehicleCar, true)
	other := mapping(t, CarrierSallaum, "NGLOS", VehicleCar, false)

	old := newTariff(t, losCar.ID, "700")
	_, _ = old.SetValidity(day(2026, 1, 1), nil)
	current := newTariff(t, losCar.ID, "750")
	_, _ = current.SetValidity(day(2026, 4, 1), nil)
	future := newTariff(t, losCar.ID, "900")
	_, _ = future.SetValidity(day(2026, 6, 1), nil)
	truck := newTariff(t, losTruck.ID, "1500")
	primaryTariff := newTariff(t, primary.ID, "600")

	matrix := BuildRateMatrix("grimaldi",
		[]CarrierMapping{losCar, losTruck, cooCar, primary, other},
		[]Tariff{*old, *current, *future, *truck, *primaryTariff},
		at,
	)

	assert.Equal(t, CarrierGrimaldi, matrix.Carrier)
	assert.Equal(t, []string{VehicleCar, VehicleTruck}, matrix.Categories)
	require.Len(t, matrix.Rows, 2)
	assert.Equal(t, "BJCOO", matrix.Rows[0].PortCode)
	assert.Equal(t, "NGLOS", matrix.Rows[1].PortCode)

	empty := matrix.Rows[0].Cells[VehicleCar]
	assert.Nil(t, empty.TariffID)
	assert.Equal(t, cooCar.ID, empty.MappingID)

	car := matrix.Rows[1].Cells[VehicleCar]
	require.NotNil(t, car.TariffID)
	assert.Equal(t, current.ID, *car.TariffID)
	assert.True(t, car.BaseFreight.Equal(d("750")))
	assert.True(t, car.Total.Equal(d("810.5")))
}

func TestApplyCellUpdates(t *testing.T) {
	a := newTariff(t, uuid.New(), "700")
	b := newTariff(t, uuid.New(), "800")
	missing := uuid.New()

	changed, unknown, err := ApplyCellUpdates([]*Tariff{a, b}, []CellUpdate{
		{TariffID: a.ID, BaseFreight: d("725")},
		{TariffID: b.ID, BaseFreight: d("800.00")},
		{TariffID: missing, BaseFreight: d("1")},
	})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, a.ID, changed[0].ID)
	assert.Equal(t, []uuid.UUID{missing}, unknown)

	_, _, err = ApplyCellUpdates([]*Tariff{a}, []CellUpdate{{TariffID: a.ID, BaseFreight: d("-1")}})
	assert.Error(t, err)
}

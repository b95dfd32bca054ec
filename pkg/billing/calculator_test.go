package billing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wattbill/wattbill/pkg/catalog"
	"github.com/wattbill/wattbill/pkg/types"
)

// uniformSeries builds n samples of constant demand at 15-minute intervals
// starting at start.
func uniformSeries(start time.Time, n int, demandKW float64) types.SampleSeries {
	series := make(types.SampleSeries, n)
	for i := range series {
		series[i] = types.Sample{
			TS:       start.Add(time.Duration(i) * 15 * time.Minute),
			DemandKW: demandKW,
		}
	}
	return series
}

func TestComputeBillResidentialNormal(t *testing.T) {
	calc := NewCalculator(catalog.Default())

	// 8 x 100 kW x 0.25h = 200 kWh, period ending 2024-06-15
	series := uniformSeries(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC), 8, 100)

	rep := NewReporter()
	bill := calc.ComputeBill(series, types.CustomerResidential, types.TariffModeNormal, rep)
	require.Empty(t, bill.Error)

	// over-150 band: 150*3.2484 + 50*4.2218 = 487.26 + 211.09
	assert.InDelta(t, 200, bill.TotalKWH, 0.0001)
	assert.InDelta(t, 698.35, bill.BaseEnergyCost, 0.005)
	assert.InDelta(t, 24.62, bill.ServiceCharge, 0.005)
	assert.InDelta(t, 0.3972, bill.FtRatePerKWH, 0.00001)
	assert.InDelta(t, 79.44, bill.FtCost, 0.005)
	assert.InDelta(t, 802.41, bill.Subtotal, 0.005)
	assert.InDelta(t, 56.17, bill.VAT, 0.005)
	assert.InDelta(t, 858.58, bill.FinalBill, 0.005)
	assert.Nil(t, bill.PeakKWH)
	assert.Nil(t, bill.OffPeakKWH)
	assert.Empty(t, rep.Warnings())
}

func TestComputeBillResidentialSmallBand(t *testing.T) {
	calc := NewCalculator(catalog.Default())

	// 6 x 100 kW x 0.25h = 150 kWh, still inside the <=150 band
	series := uniformSeries(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC), 6, 100)

	bill := calc.ComputeBill(series, types.CustomerResidential, types.TariffModeNormal, NewReporter())
	require.Empty(t, bill.Error)

	// 15*2.3488 + 10*2.9882 + 10*3.2405 + 65*3.6237 + 50*3.7171
	assert.InDelta(t, 518.91, bill.BaseEnergyCost, 0.005)
	assert.InDelta(t, 8.19, bill.ServiceCharge, 0.005)
	assert.InDelta(t, 59.58, bill.FtCost, 0.005)
	assert.InDelta(t, 627.75, bill.FinalBill, 0.005)
}

func TestComputeBillTOU(t *testing.T) {
	calc := NewCalculator(catalog.Default())

	// Monday 2024-06-10: four peak samples, four off-peak samples
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	var series types.SampleSeries
	series = append(series, uniformSeries(day.Add(10*time.Hour), 4, 100)...)
	series = append(series, uniformSeries(day.Add(22*time.Hour+30*time.Minute), 4, 100)...)

	rep := NewReporter()
	bill := calc.ComputeBill(series, types.CustomerResidential, types.TariffModeTOU, rep)
	require.Empty(t, bill.Error)

	require.NotNil(t, bill.PeakKWH)
	require.NotNil(t, bill.OffPeakKWH)
	assert.InDelta(t, 100, *bill.PeakKWH, 0.0001)
	assert.InDelta(t, 100, *bill.OffPeakKWH, 0.0001)

	// 100*5.7982 + 100*2.6369 = 843.51
	assert.InDelta(t, 843.51, bill.BaseEnergyCost, 0.005)
	assert.InDelta(t, 1013.90, bill.FinalBill, 0.005)
	assert.Empty(t, rep.Warnings())

	t.Run("weekend is entirely off-peak", func(t *testing.T) {
		// Saturday 2024-06-15, same hours as above
		sat := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
		var weekend types.SampleSeries
		weekend = append(weekend, uniformSeries(sat.Add(10*time.Hour), 4, 100)...)
		weekend = append(weekend, uniformSeries(sat.Add(22*time.Hour+30*time.Minute), 4, 100)...)

		bill := calc.ComputeBill(weekend, types.CustomerResidential, types.TariffModeTOU, NewReporter())
		require.Empty(t, bill.Error)
		assert.InDelta(t, 0, *bill.PeakKWH, 0.0001)
		assert.InDelta(t, 200, *bill.OffPeakKWH, 0.0001)
	})

	t.Run("public holiday is entirely off-peak", func(t *testing.T) {
		// 2024-06-03 is a Monday but a declared holiday
		holiday := uniformSeries(time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC), 8, 100)

		bill := calc.ComputeBill(holiday, types.CustomerResidential, types.TariffModeTOU, NewReporter())
		require.Empty(t, bill.Error)
		assert.InDelta(t, 0, *bill.PeakKWH, 0.0001)
		assert.InDelta(t, 200, *bill.OffPeakKWH, 0.0001)
	})
}

func TestComputeBillFlat(t *testing.T) {
	calc := NewCalculator(catalog.Default())

	series := uniformSeries(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC), 8, 100)

	bill := calc.ComputeBill(series, types.CustomerSMBMediumVoltage, types.TariffModeNormal, NewReporter())
	require.Empty(t, bill.Error)

	// 200*3.1097 + 312.24 + 200*0.3972 = 1013.62, *1.07 = 1084.57
	assert.InDelta(t, 621.94, bill.BaseEnergyCost, 0.005)
	assert.InDelta(t, 312.24, bill.ServiceCharge, 0.005)
	assert.InDelta(t, 1084.57, bill.FinalBill, 0.005)
}

func TestComputeBillBandedServiceCharge(t *testing.T) {
	calc := NewCalculator(catalog.Default())
	start := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	// 100 kWh stays in the small-consumer service charge band
	small := calc.ComputeBill(uniformSeries(start, 4, 100), types.CustomerSMBLowVoltage, types.TariffModeNormal, NewReporter())
	require.Empty(t, small.Error)
	assert.InDelta(t, 33.29, small.ServiceCharge, 0.005)

	// 200 kWh crosses into the open-ended band
	large := calc.ComputeBill(uniformSeries(start, 8, 100), types.CustomerSMBLowVoltage, types.TariffModeNormal, NewReporter())
	require.Empty(t, large.Error)
	assert.InDelta(t, 312.24, large.ServiceCharge, 0.005)
}

func TestComputeBillZeroConsumption(t *testing.T) {
	calc := NewCalculator(catalog.Default())

	series := uniformSeries(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC), 8, 0)

	bill := calc.ComputeBill(series, types.CustomerResidential, types.TariffModeNormal, NewReporter())
	require.Empty(t, bill.Error)

	// only the service charge (plus VAT on it) is due
	assert.Equal(t, 0.0, bill.TotalKWH)
	assert.Equal(t, 0.0, bill.BaseEnergyCost)
	assert.InDelta(t, 8.19, bill.ServiceCharge, 0.005)
	assert.InDelta(t, 8.76, bill.FinalBill, 0.005)
}

func TestComputeBillNoFtRate(t *testing.T) {
	calc := NewCalculator(catalog.Default())

	// 2022 predates the Ft table
	series := uniformSeries(time.Date(2022, 6, 15, 10, 0, 0, 0, time.UTC), 8, 100)

	rep := NewReporter()
	bill := calc.ComputeBill(series, types.CustomerResidential, types.TariffModeNormal, rep)
	require.Empty(t, bill.Error)

	assert.Equal(t, 0.0, bill.FtRatePerKWH)
	assert.Equal(t, 0.0, bill.FtCost)
	require.Len(t, rep.Warnings(), 1)
	assert.Equal(t, types.WarnNoFtRate, rep.Warnings()[0].Code)
}

func TestComputeBillErrors(t *testing.T) {
	calc := NewCalculator(catalog.Default())
	start := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("empty series", func(t *testing.T) {
		bill := calc.ComputeBill(nil, types.CustomerResidential, types.TariffModeNormal, NewReporter())
		assert.NotEmpty(t, bill.Error)
		assert.Equal(t, 0.0, bill.FinalBill)
	})

	t.Run("negative demand", func(t *testing.T) {
		series := uniformSeries(start, 4, 100)
		series[2].DemandKW = -5
		bill := calc.ComputeBill(series, types.CustomerResidential, types.TariffModeNormal, NewReporter())
		assert.NotEmpty(t, bill.Error)
	})

	t.Run("missing timestamps", func(t *testing.T) {
		series := types.SampleSeries{{DemandKW: 100}, {DemandKW: 100}}
		bill := calc.ComputeBill(series, types.CustomerResidential, types.TariffModeNormal, NewReporter())
		assert.NotEmpty(t, bill.Error)
	})

	t.Run("unknown tariff", func(t *testing.T) {
		series := uniformSeries(start, 4, 100)
		bill := calc.ComputeBill(series, types.CustomerClass("factory"), types.TariffModeNormal, NewReporter())
		assert.NotEmpty(t, bill.Error)
	})
}

func TestTieredCostContinuity(t *testing.T) {
	pricing := types.TieredPricing{Tiers: []types.Tier{
		{LimitKWH: 150, RatePerKWH: 3.2484},
		{LimitKWH: 400, RatePerKWH: 4.2218},
		{LimitKWH: math.Inf(1), RatePerKWH: 4.4217},
	}}

	// cost must be continuous across every tier boundary
	atBoundary := tieredCost(pricing, 400)
	justAbove := tieredCost(pricing, 400.001)
	assert.InDelta(t, atBoundary, justAbove, 0.01)

	assert.Equal(t, 0.0, tieredCost(pricing, 0))
	assert.InDelta(t, 150*3.2484, tieredCost(pricing, 150), 0.0001)
	assert.InDelta(t, 150*3.2484+50*4.2218, tieredCost(pricing, 200), 0.0001)
	assert.InDelta(t, 150*3.2484+250*4.2218+100*4.4217, tieredCost(pricing, 500), 0.0001)
}

package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wattbill/wattbill/pkg/catalog"
	"github.com/wattbill/wattbill/pkg/types"
)

func TestIntervalHours(t *testing.T) {
	base := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	pair := func(gap time.Duration) types.SampleSeries {
		return types.SampleSeries{
			{TS: base, DemandKW: 1},
			{TS: base.Add(gap), DemandKW: 1},
		}
	}

	assert.Equal(t, 0.25, IntervalHours(pair(15*time.Minute)))
	assert.Equal(t, 1.0, IntervalHours(pair(time.Hour)))
	assert.Equal(t, 0.5, IntervalHours(pair(30*time.Minute)))

	// unusable gaps fall back to the default
	assert.Equal(t, DefaultIntervalHours, IntervalHours(pair(0)))
	assert.Equal(t, DefaultIntervalHours, IntervalHours(pair(-time.Hour)))
	assert.Equal(t, DefaultIntervalHours, IntervalHours(pair(25*time.Hour)))
	assert.Equal(t, DefaultIntervalHours, IntervalHours(types.SampleSeries{{TS: base, DemandKW: 1}}))
	assert.Equal(t, DefaultIntervalHours, IntervalHours(nil))
}

func TestToEnergy(t *testing.T) {
	series := uniformSeries(time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC), 4, 8)

	es := ToEnergy(series)
	assert.Equal(t, 0.25, es.IntervalHours)
	assert.Len(t, es.KWH, 4)
	assert.InDelta(t, 2, es.KWH[0], 0.0001)
	assert.InDelta(t, 8, es.TotalKWH, 0.0001)
}

func TestSplitByPeriodConservesEnergy(t *testing.T) {
	// mixed peak/off-peak day
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	var series types.SampleSeries
	series = append(series, uniformSeries(day.Add(8*time.Hour), 8, 12)...)
	series = append(series, uniformSeries(day.Add(20*time.Hour), 12, 7)...)

	es := ToEnergy(series)
	rep := NewReporter()
	peak, offPeak := SplitByPeriod(es, NewClassifier(catalog.Default(), rep), rep)

	assert.InDelta(t, es.TotalKWH, peak+offPeak, 0.0001)
	assert.Greater(t, peak, 0.0)
	assert.Greater(t, offPeak, 0.0)
	assert.Empty(t, rep.Warnings())
}

func TestSplitByPeriodMismatchWarning(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	es := ToEnergy(uniformSeries(day.Add(10*time.Hour), 4, 8))

	// corrupt the total beyond the tolerance to mimic inconsistent meter data
	es.TotalKWH += 0.05

	rep := NewReporter()
	peak, offPeak := SplitByPeriod(es, NewClassifier(catalog.Default(), rep), rep)

	// the split itself is still usable
	assert.InDelta(t, 8.0, peak+offPeak, 0.0001)

	warnings := rep.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, types.WarnEnergySplitMismatch, warnings[0].Code)
}

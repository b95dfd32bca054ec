package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wattbill/wattbill/pkg/types"
)

func sampleAt(day time.Time, clock string, kw float64) types.Sample {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		panic(err)
	}
	return types.Sample{
		TS:       day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute),
		DemandKW: kw,
	}
}

func TestApplyLoadOvernightWindow(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	series := types.SampleSeries{
		sampleAt(day, "12:00", 5),
		sampleAt(day, "22:00", 5),
		sampleAt(day, "23:30", 5),
		sampleAt(day.AddDate(0, 0, 1), "04:30", 5),
		sampleAt(day.AddDate(0, 0, 1), "05:00", 5),
	}

	profile := types.EVChargeProfile{
		PowerKW:   7.4,
		StartHour: 22,
		EndHour:   5,
	}

	out, charged, err := ApplyLoad(series, profile)
	require.NoError(t, err)
	assert.Equal(t, 3, charged)

	assert.Equal(t, 5.0, out[0].DemandKW)  // midday, outside the window
	assert.Equal(t, 12.4, out[1].DemandKW) // window start is inclusive
	assert.Equal(t, 12.4, out[2].DemandKW)
	assert.Equal(t, 12.4, out[3].DemandKW) // wrapped past midnight
	assert.Equal(t, 5.0, out[4].DemandKW)  // window end is exclusive

	// the input series must never be modified
	for _, s := range series {
		assert.Equal(t, 5.0, s.DemandKW)
	}
}

func TestApplyLoadSameDayWindow(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	series := types.SampleSeries{
		sampleAt(day, "12:59", 0),
		sampleAt(day, "13:00", 0),
		sampleAt(day, "14:45", 0),
		sampleAt(day, "15:00", 0),
	}

	profile := types.EVChargeProfile{PowerKW: 11, StartHour: 13, EndHour: 15}

	out, charged, err := ApplyLoad(series, profile)
	require.NoError(t, err)
	assert.Equal(t, 2, charged)
	assert.Equal(t, 0.0, out[0].DemandKW)
	assert.Equal(t, 11.0, out[1].DemandKW)
	assert.Equal(t, 11.0, out[2].DemandKW)
	assert.Equal(t, 0.0, out[3].DemandKW)
}

func TestApplyLoadDateRange(t *testing.T) {
	series := types.SampleSeries{
		sampleAt(time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), "23:00", 0),
		sampleAt(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "23:00", 0),
		sampleAt(time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC), "23:00", 0),
		sampleAt(time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC), "23:00", 0),
	}

	profile := types.EVChargeProfile{
		PowerKW:   7.4,
		StartHour: 22,
		EndHour:   0, // wraps to midnight, covering the 23:00 samples
		DateStart: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		DateEnd:   time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC),
	}

	out, charged, err := ApplyLoad(series, profile)
	require.NoError(t, err)
	assert.Equal(t, 2, charged)
	assert.Equal(t, 0.0, out[0].DemandKW)
	assert.Equal(t, 7.4, out[1].DemandKW)
	assert.Equal(t, 7.4, out[2].DemandKW)
	assert.Equal(t, 0.0, out[3].DemandKW)
}

func TestApplyLoadInvalidProfiles(t *testing.T) {
	series := types.SampleSeries{
		sampleAt(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "23:00", 5),
	}

	cases := map[string]types.EVChargeProfile{
		"zero power":     {PowerKW: 0, StartHour: 22, EndHour: 5},
		"negative power": {PowerKW: -7.4, StartHour: 22, EndHour: 5},
		"bad hour":       {PowerKW: 7.4, StartHour: 24, EndHour: 5},
		"bad minute":     {PowerKW: 7.4, StartHour: 22, StartMinute: 60, EndHour: 5},
		"inverted dates": {
			PowerKW: 7.4, StartHour: 22, EndHour: 5,
			DateStart: time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC),
			DateEnd:   time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		},
	}
	for name, profile := range cases {
		t.Run(name, func(t *testing.T) {
			out, charged, err := ApplyLoad(series, profile)
			assert.Error(t, err)
			assert.Nil(t, out)
			assert.Equal(t, 0, charged)
		})
	}
}

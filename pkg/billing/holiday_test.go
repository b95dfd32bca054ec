package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wattbill/wattbill/pkg/types"
)

func TestOffPeakDays(t *testing.T) {
	rep := NewReporter()
	declared := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		// wrong year: must be skipped, not smuggled into the set
		time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	days := OffPeakDays(2024, declared, rep)

	assert.Contains(t, days, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, days, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	// every Saturday and Sunday is off-peak
	assert.Contains(t, days, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, days, time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC))
	// a plain business Monday is not
	assert.NotContains(t, days, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	assert.NotContains(t, days, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))

	require.Len(t, rep.Warnings(), 1)
	assert.Equal(t, types.WarnHolidayOutsideYear, rep.Warnings()[0].Code)

	// 2024 is a leap year: 52 Saturdays + 52 Sundays + 2 non-weekend holidays
	weekends := 0
	for d := range days {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekends++
		}
	}
	assert.Equal(t, 104, weekends)
	assert.Len(t, days, 106)
}

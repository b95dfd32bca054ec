package billing

import (
	"time"

	"github.com/wattbill/wattbill/pkg/types"
)

// dateOf truncates a timestamp to its calendar date, normalized to UTC
// midnight so dates from differently-located timestamps compare equal.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// OffPeakDays returns the full set of non-business days for a year: the
// declared public holidays plus every Saturday and Sunday. Declared dates
// outside the year are skipped with a warning so the result never contains
// a date from another year.
func OffPeakDays(year int, declared []time.Time, rep *Reporter) map[time.Time]struct{} {
	days := make(map[time.Time]struct{})
	for _, d := range declared {
		if d.Year() != year {
			rep.Warnf(types.WarnHolidayOutsideYear, "",
				"declared holiday %s is outside year %d, skipping", d.Format("2006-01-02"), year)
			continue
		}
		days[dateOf(d)] = struct{}{}
	}

	for d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			days[d] = struct{}{}
		}
	}
	return days
}

package billing

import (
	"fmt"
	"time"

	"github.com/wattbill/wattbill/pkg/catalog"
	"github.com/wattbill/wattbill/pkg/types"
)

// Period labels a timestamp under a time-of-use tariff.
type Period int

const (
	PeriodPeak Period = iota
	PeriodOffPeak
)

func (p Period) String() string {
	if p == PeriodPeak {
		return "Peak"
	}
	return "Off-Peak"
}

// Classifier labels timestamps as Peak or Off-Peak using the catalog's
// holiday calendars and peak window. Off-peak day sets are built lazily per
// year and cached for the lifetime of the classifier (one calculation run).
type Classifier struct {
	catalog *catalog.Catalog
	rep     *Reporter
	years   map[int]map[time.Time]struct{}
	missing map[int]bool
}

// NewClassifier returns a classifier bound to a catalog and a run reporter.
func NewClassifier(cat *catalog.Catalog, rep *Reporter) *Classifier {
	return &Classifier{
		catalog: cat,
		rep:     rep,
		years:   make(map[int]map[time.Time]struct{}),
		missing: make(map[int]bool),
	}
}

// Classify labels a single timestamp. Order of precedence:
// holiday/weekend (always Off-Peak, regardless of time of day), then the
// peak window test on business weekdays. When the timestamp's year has no
// configured holiday calendar the holiday rule degrades to the
// weekday/peak-window rules alone, reported once per year.
func (c *Classifier) Classify(ts time.Time) Period {
	if ts.IsZero() {
		c.rep.Warnf(types.WarnUnclassifiableSample, "",
			"sample has no timestamp, counting as Off-Peak")
		return PeriodOffPeak
	}

	year := ts.Year()
	days, haveCalendar := c.years[year]
	if !haveCalendar && !c.missing[year] {
		if declared, ok := c.catalog.HolidaysForYear(year); ok {
			days = OffPeakDays(year, declared, c.rep)
			c.years[year] = days
			haveCalendar = true
		} else {
			c.missing[year] = true
			c.rep.Warnf(types.WarnMissingCalendarYear, warnKeyCalendarYear(year),
				"no holiday calendar configured for year %d, classifying by weekday and peak window only", year)
		}
	}

	if haveCalendar {
		if _, off := days[dateOf(ts)]; off {
			return PeriodOffPeak
		}
	} else if wd := ts.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return PeriodOffPeak
	}

	// business weekday: closed-inclusive peak window on both ends
	startSec, endSec := c.catalog.PeakWindow()
	sec := ts.Hour()*3600 + ts.Minute()*60 + ts.Second()
	if sec >= startSec && sec <= endSec {
		return PeriodPeak
	}
	return PeriodOffPeak
}

func warnKeyCalendarYear(year int) string {
	return fmt.Sprintf("calendar-%d", year)
}

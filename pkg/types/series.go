package types

import "time"

// SiteIDNone is the siteID used when running in single-site mode.
const SiteIDNone = "NONE"

// Sample is a single interval demand reading from a meter load profile.
type Sample struct {
	TS       time.Time `json:"ts"`
	DemandKW float64   `json:"kw"`
}

// SampleSeries is an ordered sequence of demand samples. The ingestion layer
// is responsible for sorting, deduplicating and dropping invalid rows before
// the series reaches the billing core; the core only reads it.
type SampleSeries []Sample

// First returns the earliest sample in the series.
func (s SampleSeries) First() (Sample, bool) {
	if len(s) == 0 {
		return Sample{}, false
	}
	return s[0], true
}

// Last returns the latest sample in the series. The last timestamp defines
// the billing period end date used for the Ft rate lookup.
func (s SampleSeries) Last() (Sample, bool) {
	if len(s) == 0 {
		return Sample{}, false
	}
	return s[len(s)-1], true
}

// FilterYearMonth returns the samples matching the given year and month.
// A zero year matches every year and a zero month matches every month.
func (s SampleSeries) FilterYearMonth(year int, month time.Month) SampleSeries {
	if year == 0 && month == 0 {
		return s
	}
	var out SampleSeries
	for _, sample := range s {
		if year != 0 && sample.TS.Year() != year {
			continue
		}
		if month != 0 && sample.TS.Month() != month {
			continue
		}
		out = append(out, sample)
	}
	return out
}

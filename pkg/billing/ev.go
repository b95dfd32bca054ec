package billing

import (
	"time"

	"github.com/wattbill/wattbill/pkg/types"
)

// ApplyLoad injects a constant EV charging load into every sample whose
// date falls inside the profile's date range and whose time of day falls
// inside the charging window. It returns a new series (the input is never
// modified) and the number of samples the load was added to.
//
// The window supports overnight spans: start > end means the window wraps
// past midnight (e.g. 22:00-05:00). The end of the window is exclusive in
// both cases; an interval starting exactly at the end time is not charging.
func ApplyLoad(series types.SampleSeries, profile types.EVChargeProfile) (types.SampleSeries, int, error) {
	if err := profile.Validate(); err != nil {
		return nil, 0, err
	}

	startSec := profile.StartHour*3600 + profile.StartMinute*60
	endSec := profile.EndHour*3600 + profile.EndMinute*60

	out := make(types.SampleSeries, len(series))
	copy(out, series)

	var charged int
	for i, s := range out {
		if !withinDates(s.TS, profile.DateStart, profile.DateEnd) {
			continue
		}
		sec := s.TS.Hour()*3600 + s.TS.Minute()*60 + s.TS.Second()
		var charging bool
		if startSec <= endSec {
			charging = sec >= startSec && sec < endSec
		} else {
			charging = sec >= startSec || sec < endSec
		}
		if charging {
			out[i].DemandKW += profile.PowerKW
			charged++
		}
	}
	return out, charged, nil
}

// withinDates checks the sample's calendar date against an inclusive date
// range; zero bounds are open.
func withinDates(ts, start, end time.Time) bool {
	day := dateOf(ts)
	if !start.IsZero() && day.Before(dateOf(start)) {
		return false
	}
	if !end.IsZero() && day.After(dateOf(end)) {
		return false
	}
	return true
}

package catalog

import "time"

// FtPeriod is one effective-dated entry of the fuel-adjustment rate table.
// The rate applies from the first day of (Year, Month) until the next
// period starts.
type FtPeriod struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	RatePerKWH float64 `json:"ratePerKWH"`
}

func (p FtPeriod) start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// FtRateFor resolves the fuel-adjustment rate for a billing date: the entry
// with the latest effective start that is not after the date. When the date
// precedes every configured period the rate is 0.0 and ok is false so the
// caller can report the gap.
func (c *Catalog) FtRateFor(date time.Time) (rate float64, ok bool) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	// ftPeriods is sorted ascending by effective start
	for i := len(c.ftPeriods) - 1; i >= 0; i-- {
		if !c.ftPeriods[i].start().After(day) {
			return c.ftPeriods[i].RatePerKWH, true
		}
	}
	return 0.0, false
}

// FtPeriods returns the configured fuel-adjustment table in ascending
// effective-date order.
func (c *Catalog) FtPeriods() []FtPeriod {
	out := make([]FtPeriod, len(c.ftPeriods))
	copy(out, c.ftPeriods)
	return out
}

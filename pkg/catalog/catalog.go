package catalog

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/wattbill/wattbill/pkg/types"
)

// Catalog holds the tariff schedules, fuel-adjustment rate table, VAT rate,
// peak window and holiday calendars. It is built once at startup and
// read-only afterwards, so it is safe to share across calculations.
type Catalog struct {
	vatRate      float64
	peakStartSec int
	peakEndSec   int

	// schedules are grouped by (class, mode) and sorted by consumption band
	// so banded lookups scan in ascending order.
	schedules map[scheduleKey][]bandedSchedule

	ftPeriods []FtPeriod
	holidays  map[int][]time.Time
}

type scheduleKey struct {
	class types.CustomerClass
	mode  types.TariffMode
}

type bandedSchedule struct {
	// bandMaxKWH is the inclusive upper bound of whole-period consumption
	// this schedule applies to. 0 means unbounded.
	bandMaxKWH float64
	schedule   types.TariffSchedule
}

// Configured sets up the catalog based on flags. The catalog is loaded from
// --catalog-path when given, otherwise from the embedded default catalog.
func Configured() *Catalog {
	path := lflag.String("catalog-path", "", "Path to a YAML rate catalog (defaults to the embedded catalog)")

	c := &Catalog{}

	lflag.Do(func() {
		data := defaultCatalogYAML
		if *path != "" {
			var err error
			data, err = os.ReadFile(*path)
			if err != nil {
				panic(fmt.Sprintf("failed to read catalog %s: %v", *path, err))
			}
		}
		loaded, err := Parse(data)
		if err != nil {
			panic(fmt.Sprintf("invalid rate catalog: %v", err))
		}
		*c = *loaded
	})

	return c
}

// VATRate returns the value-added tax rate applied to the subtotal.
func (c *Catalog) VATRate() float64 { return c.vatRate }

// PeakWindow returns the TOU peak window as seconds-of-day. Both bounds are
// inclusive: a timestamp exactly at either bound is Peak.
func (c *Catalog) PeakWindow() (startSec, endSec int) {
	return c.peakStartSec, c.peakEndSec
}

// ScheduleFor resolves the tariff schedule for a customer class and mode.
// Consumption-banded schedules (e.g. the residential "<=150 kWh" band) are
// selected by the whole billing period's total kWh, never per sample.
func (c *Catalog) ScheduleFor(class types.CustomerClass, mode types.TariffMode, totalKWH float64) (types.TariffSchedule, error) {
	banded, ok := c.schedules[scheduleKey{class: class, mode: mode}]
	if !ok || len(banded) == 0 {
		return types.TariffSchedule{}, fmt.Errorf("no tariff schedule for customer class %q and mode %q", class, mode)
	}
	for _, b := range banded {
		if b.bandMaxKWH == 0 || totalKWH <= b.bandMaxKWH {
			return b.schedule, nil
		}
	}
	// every band was bounded and exceeded; use the widest one
	return banded[len(banded)-1].schedule, nil
}

// Tariffs lists metadata for every configured schedule, for UI pickers.
func (c *Catalog) Tariffs() []types.TariffInfo {
	var infos []types.TariffInfo
	for _, banded := range c.schedules {
		for _, b := range banded {
			infos = append(infos, types.TariffInfo{
				CustomerClass: b.schedule.CustomerClass,
				Mode:          b.schedule.Mode,
				Name:          b.schedule.Name,
				PricingModel:  b.schedule.Pricing.Model(),
			})
		}
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CustomerClass != infos[j].CustomerClass {
			return infos[i].CustomerClass < infos[j].CustomerClass
		}
		if infos[i].Mode != infos[j].Mode {
			return infos[i].Mode < infos[j].Mode
		}
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// HolidaysForYear returns the declared public holidays for a year. The
// second return is false when the year has no configured calendar, in which
// case classification degrades to the weekday/peak-window rule.
func (c *Catalog) HolidaysForYear(year int) ([]time.Time, bool) {
	days, ok := c.holidays[year]
	return days, ok
}

package catalog

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/wattbill/wattbill/pkg/types"
	"gopkg.in/yaml.v2"
)

// catalogFile is the YAML shape of a rate catalog.
type catalogFile struct {
	VATRate    float64 `yaml:"vat_rate"`
	PeakWindow struct {
		Start string `yaml:"start"`
		End   string `yaml:"end"`
	} `yaml:"peak_window"`
	Tariffs  []tariffFile     `yaml:"tariffs"`
	FtRates  []ftRateFile     `yaml:"ft_rates"`
	Holidays map[int][]string `yaml:"holidays"`
}

type tariffFile struct {
	CustomerClass string `yaml:"customer_class"`
	Mode          string `yaml:"mode"`
	Name          string `yaml:"name"`
	// BandMaxKWH bounds the whole-period consumption this schedule covers
	// (inclusive). 0 means unbounded.
	BandMaxKWH float64     `yaml:"band_max_kwh"`
	Pricing    pricingFile `yaml:"pricing"`

	ServiceCharge      float64 `yaml:"service_charge"`
	ServiceChargeTiers []struct {
		// LimitKWH of 0 marks the open-ended final tier.
		LimitKWH float64 `yaml:"limit_kwh"`
		Charge   float64 `yaml:"charge"`
	} `yaml:"service_charge_tiers"`
}

type pricingFile struct {
	Model string `yaml:"model"`

	// flat
	Rate float64 `yaml:"rate"`

	// tiered; a tier with limit_kwh 0 is the open-ended final tier
	Tiers []struct {
		LimitKWH float64 `yaml:"limit_kwh"`
		Rate     float64 `yaml:"rate"`
	} `yaml:"tiers"`

	// tou
	PeakRate    float64 `yaml:"peak_rate"`
	OffPeakRate float64 `yaml:"off_peak_rate"`
}

type ftRateFile struct {
	// Start is the effective period start, "YYYY-MM".
	Start string  `yaml:"start"`
	Rate  float64 `yaml:"rate"`
}

// Parse decodes and validates a YAML rate catalog.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode catalog yaml: %w", err)
	}

	c := &Catalog{
		vatRate:   f.VATRate,
		schedules: make(map[scheduleKey][]bandedSchedule),
		holidays:  make(map[int][]time.Time),
	}
	if c.vatRate < 0 || c.vatRate >= 1 {
		return nil, fmt.Errorf("vat_rate %f out of range [0,1)", f.VATRate)
	}

	var err error
	if c.peakStartSec, err = parseClock(f.PeakWindow.Start); err != nil {
		return nil, fmt.Errorf("invalid peak_window.start: %w", err)
	}
	if c.peakEndSec, err = parseClock(f.PeakWindow.End); err != nil {
		return nil, fmt.Errorf("invalid peak_window.end: %w", err)
	}
	if c.peakEndSec < c.peakStartSec {
		return nil, fmt.Errorf("peak window end %s before start %s", f.PeakWindow.End, f.PeakWindow.Start)
	}

	if len(f.Tariffs) == 0 {
		return nil, fmt.Errorf("catalog has no tariffs")
	}
	for i, tf := range f.Tariffs {
		sched, err := buildSchedule(tf)
		if err != nil {
			return nil, fmt.Errorf("tariff %d (%s/%s): %w", i, tf.CustomerClass, tf.Mode, err)
		}
		key := scheduleKey{class: sched.CustomerClass, mode: sched.Mode}
		c.schedules[key] = append(c.schedules[key], bandedSchedule{
			bandMaxKWH: tf.BandMaxKWH,
			schedule:   sched,
		})
	}
	for key, banded := range c.schedules {
		// bounded bands first, ascending; the unbounded band last
		sort.Slice(banded, func(i, j int) bool {
			bi, bj := banded[i].bandMaxKWH, banded[j].bandMaxKWH
			if bi == 0 {
				return false
			}
			if bj == 0 {
				return true
			}
			return bi < bj
		})
		c.schedules[key] = banded
	}

	for i, ft := range f.FtRates {
		start, err := time.Parse("2006-01", ft.Start)
		if err != nil {
			return nil, fmt.Errorf("ft_rates[%d]: invalid start %q: %w", i, ft.Start, err)
		}
		c.ftPeriods = append(c.ftPeriods, FtPeriod{
			Year:       start.Year(),
			Month:      int(start.Month()),
			RatePerKWH: ft.Rate,
		})
	}
	sort.Slice(c.ftPeriods, func(i, j int) bool {
		return c.ftPeriods[i].start().Before(c.ftPeriods[j].start())
	})

	for year, days := range f.Holidays {
		for _, d := range days {
			day, err := time.Parse("2006-01-02", d)
			if err != nil {
				return nil, fmt.Errorf("holidays[%d]: invalid date %q: %w", year, d, err)
			}
			c.holidays[year] = append(c.holidays[year], day)
		}
		sort.Slice(c.holidays[year], func(i, j int) bool {
			return c.holidays[year][i].Before(c.holidays[year][j])
		})
	}

	return c, nil
}

func buildSchedule(tf tariffFile) (types.TariffSchedule, error) {
	class, err := types.ParseCustomerClass(tf.CustomerClass)
	if err != nil {
		return types.TariffSchedule{}, err
	}
	mode, err := types.ParseTariffMode(tf.Mode)
	if err != nil {
		return types.TariffSchedule{}, err
	}

	var pricing types.Pricing
	switch tf.Pricing.Model {
	case "flat":
		if tf.Pricing.Rate < 0 {
			return types.TariffSchedule{}, fmt.Errorf("negative flat rate %f", tf.Pricing.Rate)
		}
		pricing = types.FlatPricing{RatePerKWH: tf.Pricing.Rate}
	case "tiered":
		tiered := types.TieredPricing{}
		for _, t := range tf.Pricing.Tiers {
			limit := t.LimitKWH
			if limit == 0 {
				limit = math.Inf(1)
			}
			tiered.Tiers = append(tiered.Tiers, types.Tier{LimitKWH: limit, RatePerKWH: t.Rate})
		}
		if err := tiered.Validate(); err != nil {
			return types.TariffSchedule{}, err
		}
		pricing = tiered
	case "tou":
		if tf.Pricing.PeakRate < 0 || tf.Pricing.OffPeakRate < 0 {
			return types.TariffSchedule{}, fmt.Errorf("negative tou rate")
		}
		pricing = types.TOUPricing{
			PeakRatePerKWH:    tf.Pricing.PeakRate,
			OffPeakRatePerKWH: tf.Pricing.OffPeakRate,
		}
	default:
		return types.TariffSchedule{}, fmt.Errorf("unknown pricing model %q", tf.Pricing.Model)
	}

	sched := types.TariffSchedule{
		CustomerClass: class,
		Mode:          mode,
		Name:          tf.Name,
		Pricing:       pricing,
		ServiceCharge: tf.ServiceCharge,
	}
	prev := 0.0
	for i, sct := range tf.ServiceChargeTiers {
		limit := sct.LimitKWH
		if limit == 0 {
			limit = math.Inf(1)
		}
		if limit <= prev {
			return types.TariffSchedule{}, fmt.Errorf("service charge tier %d limit not ascending", i)
		}
		prev = limit
		sched.ServiceChargeTiers = append(sched.ServiceChargeTiers, types.ServiceChargeTier{
			LimitKWH: limit,
			Charge:   sct.Charge,
		})
	}
	if len(sched.ServiceChargeTiers) > 0 {
		last := sched.ServiceChargeTiers[len(sched.ServiceChargeTiers)-1]
		if !math.IsInf(last.LimitKWH, 1) {
			return types.TariffSchedule{}, fmt.Errorf("final service charge tier must be open-ended")
		}
	}
	return sched, nil
}

// parseClock parses "HH:MM:SS" into seconds-of-day.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

package types

import (
	"fmt"
	"time"
)

// Warning is a reportable, non-fatal condition raised while computing a
// bill. Warnings ride alongside the result so the caller can surface them;
// they never abort the calculation.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Warning codes.
const (
	WarnMissingCalendarYear  = "missing_calendar_year"
	WarnNoFtRate             = "no_ft_rate"
	WarnEnergySplitMismatch  = "energy_split_mismatch"
	WarnUnclassifiableSample = "unclassifiable_sample"
	WarnHolidayOutsideYear   = "holiday_outside_year"
	WarnInvalidEVProfile     = "invalid_ev_profile"
)

// BillResult is the full breakdown of a computed bill. Either Error is set
// and every other field is zero, or Error is empty and the breakdown is
// complete. Currency fields are rounded to 2 decimal places and energy
// fields to 4; rounding happens once, when the result is built.
type BillResult struct {
	CustomerClass CustomerClass `json:"customerClass"`
	TariffMode    TariffMode    `json:"tariffMode"`

	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`

	TotalKWH float64 `json:"totalKWH"`
	// PeakKWH and OffPeakKWH are only set for time-of-use tariffs.
	PeakKWH    *float64 `json:"peakKWH,omitempty"`
	OffPeakKWH *float64 `json:"offPeakKWH,omitempty"`

	BaseEnergyCost float64 `json:"baseEnergyCost"`
	ServiceCharge  float64 `json:"serviceCharge"`
	FtRatePerKWH   float64 `json:"ftRatePerKWH"`
	FtCost         float64 `json:"ftCost"`
	Subtotal       float64 `json:"subtotal"`
	VAT            float64 `json:"vat"`
	FinalBill      float64 `json:"finalBill"`

	Error string `json:"error,omitempty"`
}

// ErrorBill returns a BillResult carrying only an error, for callers that
// must not receive a partial breakdown.
func ErrorBill(class CustomerClass, mode TariffMode, format string, args ...any) BillResult {
	return BillResult{
		CustomerClass: class,
		TariffMode:    mode,
		Error:         fmt.Sprintf(format, args...),
	}
}

// EVChargeProfile describes a synthetic constant charging load injected
// into a sample series for what-if billing. The charging window is a
// time-of-day span that may wrap past midnight (start > end means
// overnight). The end of the window is exclusive.
type EVChargeProfile struct {
	PowerKW float64 `json:"powerKW"`

	StartHour   int `json:"startHour"`
	StartMinute int `json:"startMinute"`
	EndHour     int `json:"endHour"`
	EndMinute   int `json:"endMinute"`

	// DateStart and DateEnd bound the calendar days the window applies to,
	// inclusive on both ends. Zero values leave that end unbounded.
	DateStart time.Time `json:"dateStart,omitzero"`
	DateEnd   time.Time `json:"dateEnd,omitzero"`
}

// Validate rejects profiles that must not be simulated.
func (p EVChargeProfile) Validate() error {
	if p.PowerKW <= 0 {
		return fmt.Errorf("charger power must be positive, got %f kW", p.PowerKW)
	}
	if p.StartHour < 0 || p.StartHour > 23 || p.EndHour < 0 || p.EndHour > 23 {
		return fmt.Errorf("charging window hours out of range: %02d:%02d-%02d:%02d",
			p.StartHour, p.StartMinute, p.EndHour, p.EndMinute)
	}
	if p.StartMinute < 0 || p.StartMinute > 59 || p.EndMinute < 0 || p.EndMinute > 59 {
		return fmt.Errorf("charging window minutes out of range: %02d:%02d-%02d:%02d",
			p.StartHour, p.StartMinute, p.EndHour, p.EndMinute)
	}
	if !p.DateStart.IsZero() && !p.DateEnd.IsZero() && p.DateEnd.Before(p.DateStart) {
		return fmt.Errorf("charging date range ends before it starts")
	}
	return nil
}

// BillRecord is a stored bill computation: the base bill plus the optional
// EV-adjusted bill and any warnings raised during the run.
type BillRecord struct {
	ComputedAt time.Time        `json:"computedAt"`
	Bill       BillResult       `json:"bill"`
	EVBill     *BillResult      `json:"evBill,omitempty"`
	EVProfile  *EVChargeProfile `json:"evProfile,omitempty"`
	Warnings   []Warning        `json:"warnings,omitempty"`
}

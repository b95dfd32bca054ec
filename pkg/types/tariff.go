package types

import (
	"fmt"
	"math"
)

// CustomerClass identifies the customer category a tariff applies to.
type CustomerClass string

const (
	CustomerResidential      CustomerClass = "residential"
	CustomerSMBLowVoltage    CustomerClass = "smb_low_voltage"
	CustomerSMBMediumVoltage CustomerClass = "smb_medium_voltage"
)

// TariffMode selects between the normal (volumetric) tariff and the
// time-of-use tariff for a customer class.
type TariffMode string

const (
	TariffModeNormal TariffMode = "normal"
	TariffModeTOU    TariffMode = "tou"
)

// ParseCustomerClass validates a customer class received over the wire.
func ParseCustomerClass(s string) (CustomerClass, error) {
	switch c := CustomerClass(s); c {
	case CustomerResidential, CustomerSMBLowVoltage, CustomerSMBMediumVoltage:
		return c, nil
	}
	return "", fmt.Errorf("unknown customer class: %q", s)
}

// ParseTariffMode validates a tariff mode received over the wire.
func ParseTariffMode(s string) (TariffMode, error) {
	switch m := TariffMode(s); m {
	case TariffModeNormal, TariffModeTOU:
		return m, nil
	}
	return "", fmt.Errorf("unknown tariff mode: %q", s)
}

// Pricing is the pricing model of a tariff schedule. Exactly one of
// FlatPricing, TieredPricing or TOUPricing backs a schedule, so use-sites
// switch on the concrete type instead of checking optional fields.
type Pricing interface {
	// Model returns the wire name of the pricing model.
	Model() string
}

// FlatPricing charges a single rate per kWh.
type FlatPricing struct {
	RatePerKWH float64 `json:"ratePerKWH"`
}

func (FlatPricing) Model() string { return "flat" }

// Tier is a single consumption block of a tiered pricing model.
type Tier struct {
	// LimitKWH is the cumulative upper bound of the block. The final tier is
	// open-ended and uses math.Inf(1).
	LimitKWH   float64 `json:"limitKWH"`
	RatePerKWH float64 `json:"ratePerKWH"`
}

// TieredPricing charges increasing block rates. Tiers are ascending by
// LimitKWH and the last tier's limit is +Inf.
type TieredPricing struct {
	Tiers []Tier `json:"tiers"`
}

func (TieredPricing) Model() string { return "tiered" }

// Validate checks the tier list invariants.
func (p TieredPricing) Validate() error {
	if len(p.Tiers) == 0 {
		return fmt.Errorf("tiered pricing requires at least one tier")
	}
	prev := 0.0
	for i, tier := range p.Tiers {
		if tier.RatePerKWH < 0 {
			return fmt.Errorf("tier %d has negative rate %f", i, tier.RatePerKWH)
		}
		if tier.LimitKWH <= prev {
			return fmt.Errorf("tier %d limit %f is not ascending", i, tier.LimitKWH)
		}
		prev = tier.LimitKWH
	}
	if !math.IsInf(p.Tiers[len(p.Tiers)-1].LimitKWH, 1) {
		return fmt.Errorf("final tier must be open-ended")
	}
	return nil
}

// TOUPricing charges different rates for Peak and Off-Peak energy.
type TOUPricing struct {
	PeakRatePerKWH    float64 `json:"peakRatePerKWH"`
	OffPeakRatePerKWH float64 `json:"offPeakRatePerKWH"`
}

func (TOUPricing) Model() string { return "tou" }

// ServiceChargeTier maps a consumption band to a fixed monthly charge.
type ServiceChargeTier struct {
	// LimitKWH is the inclusive upper bound of total consumption for this
	// charge. The final tier is open-ended (math.Inf(1)).
	LimitKWH float64 `json:"limitKWH"`
	Charge   float64 `json:"charge"`
}

// TariffSchedule is a single immutable tariff definition, resolved by
// (CustomerClass, TariffMode) and loaded once at startup.
type TariffSchedule struct {
	CustomerClass CustomerClass
	Mode          TariffMode
	Name          string

	Pricing Pricing

	// ServiceCharge is the fixed monthly charge. When ServiceChargeTiers is
	// non-empty it takes precedence and the charge is banded by total kWh.
	ServiceCharge      float64
	ServiceChargeTiers []ServiceChargeTier
}

// ServiceChargeFor returns the applicable service charge for the billing
// period's total consumption: the first tier whose limit covers totalKWH,
// or the last tier's charge when none matches.
func (t TariffSchedule) ServiceChargeFor(totalKWH float64) float64 {
	if len(t.ServiceChargeTiers) == 0 {
		return t.ServiceCharge
	}
	for _, tier := range t.ServiceChargeTiers {
		if totalKWH <= tier.LimitKWH {
			return tier.Charge
		}
	}
	return t.ServiceChargeTiers[len(t.ServiceChargeTiers)-1].Charge
}

// TariffInfo is the metadata returned by the tariff listing API.
type TariffInfo struct {
	CustomerClass CustomerClass `json:"customerClass"`
	Mode          TariffMode    `json:"mode"`
	Name          string        `json:"name"`
	PricingModel  string        `json:"pricingModel"`
}

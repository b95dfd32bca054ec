package billing

import (
	"math"

	"github.com/wattbill/wattbill/pkg/catalog"
	"github.com/wattbill/wattbill/pkg/types"
)

// Calculator computes bills against an immutable rate catalog. It holds no
// per-call state, so a single Calculator can serve concurrent calculations.
type Calculator struct {
	catalog *catalog.Catalog
}

// NewCalculator returns a Calculator bound to the given catalog.
func NewCalculator(cat *catalog.Catalog) *Calculator {
	return &Calculator{catalog: cat}
}

// ComputeBill produces the full bill breakdown for a sample series under
// the given customer class and tariff mode. Precondition violations (empty
// series, negative demand, missing timestamps, unknown tariff) yield a
// BillResult with only the Error field set; no partial breakdown is ever
// returned. Reportable conditions land on the reporter.
func (c *Calculator) ComputeBill(series types.SampleSeries, class types.CustomerClass, mode types.TariffMode, rep *Reporter) types.BillResult {
	first, ok := series.First()
	if !ok {
		return types.ErrorBill(class, mode, "no samples to bill")
	}
	last, _ := series.Last()
	if first.TS.IsZero() || last.TS.IsZero() {
		return types.ErrorBill(class, mode, "series is missing timestamps")
	}
	for _, s := range series {
		if s.DemandKW < 0 || math.IsNaN(s.DemandKW) {
			return types.ErrorBill(class, mode, "invalid demand %f kW at %s", s.DemandKW, s.TS.Format("2006-01-02 15:04:05"))
		}
	}

	es := ToEnergy(series)

	// consumption-banded schedules are selected by the whole period's total
	sched, err := c.catalog.ScheduleFor(class, mode, es.TotalKWH)
	if err != nil {
		return types.ErrorBill(class, mode, "%v", err)
	}

	bill := types.BillResult{
		CustomerClass: class,
		TariffMode:    mode,
		PeriodStart:   first.TS,
		PeriodEnd:     last.TS,
		TotalKWH:      round4(es.TotalKWH),
	}

	var baseCost float64
	switch pricing := sched.Pricing.(type) {
	case types.FlatPricing:
		baseCost = es.TotalKWH * pricing.RatePerKWH
	case types.TieredPricing:
		baseCost = tieredCost(pricing, es.TotalKWH)
	case types.TOUPricing:
		cls := NewClassifier(c.catalog, rep)
		peak, offPeak := SplitByPeriod(es, cls, rep)
		baseCost = peak*pricing.PeakRatePerKWH + offPeak*pricing.OffPeakRatePerKWH
		peakOut, offPeakOut := round4(peak), round4(offPeak)
		bill.PeakKWH = &peakOut
		bill.OffPeakKWH = &offPeakOut
	default:
		return types.ErrorBill(class, mode, "tariff %q has no pricing model", sched.Name)
	}

	serviceCharge := sched.ServiceChargeFor(es.TotalKWH)

	// Ft is resolved at the billing period end date, i.e. the last sample.
	ftRate, found := c.catalog.FtRateFor(last.TS)
	if !found {
		rep.Warnf(types.WarnNoFtRate, "no-ft-rate",
			"no Ft rate found for billing period ending %s, using 0.0", last.TS.Format("2006-01-02"))
	}
	ftCost := es.TotalKWH * ftRate

	// accumulate unrounded, round once on output
	subtotal := baseCost + serviceCharge + ftCost
	vat := subtotal * c.catalog.VATRate()

	bill.BaseEnergyCost = round2(baseCost)
	bill.ServiceCharge = round2(serviceCharge)
	bill.FtRatePerKWH = round4(ftRate)
	bill.FtCost = round2(ftCost)
	bill.Subtotal = round2(subtotal)
	bill.VAT = round2(vat)
	bill.FinalBill = round2(subtotal + vat)
	return bill
}

// tieredCost walks the consumption blocks in ascending order, charging the
// units that fall in each block at that block's rate. The open-ended final
// tier absorbs any remainder, so cost is continuous across boundaries.
func tieredCost(pricing types.TieredPricing, totalKWH float64) float64 {
	var cost, prevLimit float64
	for _, tier := range pricing.Tiers {
		units := math.Min(totalKWH, tier.LimitKWH) - prevLimit
		if units > 0 {
			cost += units * tier.RatePerKWH
		}
		if totalKWH <= tier.LimitKWH {
			break
		}
		prevLimit = tier.LimitKWH
	}
	return cost
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

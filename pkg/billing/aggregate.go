package billing

import (
	"math"

	"github.com/wattbill/wattbill/pkg/types"
)

// DefaultIntervalHours is assumed when the sampling interval cannot be
// inferred from the series (15-minute meters are the common case).
const DefaultIntervalHours = 0.25

// splitToleranceKWH is how far the peak/off-peak split may drift from the
// total before it is reported as a data-quality warning.
const splitToleranceKWH = 0.01

// IntervalHours infers the sampling interval from the gap between the first
// two samples. The inferred interval is applied uniformly to the whole
// series; it is not recomputed per pair. Gaps outside (0, 24] hours and
// series with fewer than two samples fall back to DefaultIntervalHours.
func IntervalHours(series types.SampleSeries) float64 {
	if len(series) < 2 {
		return DefaultIntervalHours
	}
	hours := series[1].TS.Sub(series[0].TS).Hours()
	if hours <= 0 || hours > 24 {
		return DefaultIntervalHours
	}
	return hours
}

// EnergySeries pairs a sample series with its per-sample energy.
type EnergySeries struct {
	Samples       types.SampleSeries
	KWH           []float64
	IntervalHours float64
	TotalKWH      float64
}

// ToEnergy converts a demand series into energy: each sample contributes
// demand_kW * intervalHours kWh.
func ToEnergy(series types.SampleSeries) EnergySeries {
	es := EnergySeries{
		Samples:       series,
		KWH:           make([]float64, len(series)),
		IntervalHours: IntervalHours(series),
	}
	for i, s := range series {
		kwh := s.DemandKW * es.IntervalHours
		es.KWH[i] = kwh
		es.TotalKWH += kwh
	}
	return es
}

// SplitByPeriod classifies every sample and sums energy per TOU period.
// Samples that fail to classify count as Off-Peak. A split that diverges
// from the total by more than the tolerance is reported, not fatal.
func SplitByPeriod(es EnergySeries, cls *Classifier, rep *Reporter) (peakKWH, offPeakKWH float64) {
	for i, s := range es.Samples {
		if cls.Classify(s.TS) == PeriodPeak {
			peakKWH += es.KWH[i]
		} else {
			offPeakKWH += es.KWH[i]
		}
	}
	if diff := math.Abs((peakKWH + offPeakKWH) - es.TotalKWH); diff > splitToleranceKWH {
		rep.Warnf(types.WarnEnergySplitMismatch, "split-mismatch",
			"peak/off-peak sum %.4f diverges from total %.4f kWh by %.4f", peakKWH+offPeakKWH, es.TotalKWH, diff)
	}
	return peakKWH, offPeakKWH
}

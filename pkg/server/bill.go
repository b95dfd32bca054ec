package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/wattbill/wattbill/pkg/billing"
	"github.com/wattbill/wattbill/pkg/log"
	"github.com/wattbill/wattbill/pkg/types"
)

type billRequest struct {
	SiteID        string         `json:"siteID"`
	CustomerClass string         `json:"customerClass"`
	TariffMode    string         `json:"tariffMode"`
	Samples       []types.Sample `json:"samples"`

	// Year and Month optionally restrict billing to the samples in that
	// year/month. Zero means no restriction on that component.
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`

	// EV, when set, additionally computes a what-if bill with the EV
	// charging load added to the series.
	EV *types.EVChargeProfile `json:"ev,omitempty"`
}

type billResponse struct {
	ComputedAt time.Time        `json:"computedAt"`
	Bill       types.BillResult `json:"bill"`

	EVBill      *types.BillResult  `json:"evBill,omitempty"`
	EVSeries    types.SampleSeries `json:"evSeries,omitempty"`
	EVAddedKWH  *float64           `json:"evAddedKWH,omitempty"`
	EVIntervals *int               `json:"evIntervals,omitempty"`

	Warnings []types.Warning `json:"warnings,omitempty"`
}

func (s *Server) handleComputeBill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	siteID := s.getSiteID(r)

	var req billRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	class, err := types.ParseCustomerClass(req.CustomerClass)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	mode, err := types.ParseTariffMode(req.TariffMode)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Month < 0 || req.Month > 12 {
		writeJSONError(w, fmt.Sprintf("invalid month: %d", req.Month), http.StatusBadRequest)
		return
	}
	series := normalizeSeries(req.Samples)
	series = series.FilterYearMonth(req.Year, time.Month(req.Month))

	rep := billing.NewReporter()
	resp := billResponse{
		ComputedAt: time.Now().UTC().Truncate(time.Second),
		Bill:       s.calc.ComputeBill(series, class, mode, rep),
	}

	if req.EV != nil && resp.Bill.Error == "" {
		evSeries, intervals, err := billing.ApplyLoad(series, *req.EV)
		if err != nil {
			// a bad what-if profile never fails the base bill
			rep.Warnf(types.WarnInvalidEVProfile, "", "ev charging profile not simulated: %v", err)
			req.EV = nil
		} else {
			evBill := s.calc.ComputeBill(evSeries, class, mode, rep)
			addedKWH := req.EV.PowerKW * float64(intervals) * billing.IntervalHours(series)
			resp.EVBill = &evBill
			resp.EVSeries = evSeries
			resp.EVAddedKWH = &addedKWH
			resp.EVIntervals = &intervals
		}
	}
	resp.Warnings = rep.Warnings()
	if len(resp.Warnings) > 0 {
		log.Ctx(ctx).WarnContext(ctx, "bill computed with warnings", slog.Int("warnings", len(resp.Warnings)))
	}

	// error bills are returned to the caller but never persisted
	if resp.Bill.Error == "" {
		record := types.BillRecord{
			ComputedAt: resp.ComputedAt,
			Bill:       resp.Bill,
			EVBill:     resp.EVBill,
			EVProfile:  req.EV,
			Warnings:   resp.Warnings,
		}
		if err := s.storage.InsertBill(ctx, siteID, record); err != nil {
			// the computed bill is still returned; history just has a gap
			log.Ctx(ctx).ErrorContext(ctx, "failed to persist bill record", slog.Any("error", err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		panic(http.ErrAbortHandler)
	}
}

// normalizeSeries sorts samples by timestamp and drops duplicates so the
// billing core only ever sees an ordered series. When two samples share a
// timestamp the later one in the request wins.
func normalizeSeries(samples []types.Sample) types.SampleSeries {
	if len(samples) == 0 {
		return nil
	}
	series := make(types.SampleSeries, len(samples))
	copy(series, samples)
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].TS.Before(series[j].TS)
	})
	out := series[:1]
	for _, sample := range series[1:] {
		if sample.TS.Equal(out[len(out)-1].TS) {
			out[len(out)-1] = sample
			continue
		}
		out = append(out, sample)
	}
	return out
}

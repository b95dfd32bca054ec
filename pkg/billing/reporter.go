package billing

import (
	"fmt"

	"github.com/wattbill/wattbill/pkg/types"
)

// Reporter collects reportable conditions raised during a single
// calculation run. Conditions are warnings, not errors: they are returned
// to the caller alongside the bill and never abort a computation. A dedup
// key stops repeated samples from raising the same condition over and over
// (e.g. one "calendar missing" warning per year, not one per sample).
//
// A Reporter is scoped to one run and used from one goroutine; concurrent
// calculations each get their own.
type Reporter struct {
	seen     map[string]bool
	warnings []types.Warning
}

// NewReporter returns an empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{seen: make(map[string]bool)}
}

// Warnf records a warning. Warnings sharing a non-empty dedupKey are only
// recorded once per run.
func (r *Reporter) Warnf(code, dedupKey, format string, args ...any) {
	if dedupKey != "" {
		if r.seen[dedupKey] {
			return
		}
		r.seen[dedupKey] = true
	}
	r.warnings = append(r.warnings, types.Warning{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

// Warnings returns the conditions recorded so far, in order.
func (r *Reporter) Warnings() []types.Warning {
	return r.warnings
}

package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/wattbill/wattbill/pkg/billing"
	"github.com/wattbill/wattbill/pkg/catalog"
	"github.com/wattbill/wattbill/pkg/log"
	"github.com/wattbill/wattbill/pkg/storage"
	"github.com/wattbill/wattbill/pkg/types"
)

func main() {
	os.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8087")
	s := storage.Configured()
	lflag.Configure()

	ctx := context.Background()

	log.Ctx(ctx).InfoContext(ctx, "seeding mock bill history")

	// Use a new random source
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	cat := catalog.Default()
	calc := billing.NewCalculator(cat)

	// A month of 15-minute load profile samples ending yesterday.
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, -1, 0)

	var series types.SampleSeries
	for ts := start; ts.Before(end); ts = ts.Add(15 * time.Minute) {
		hour := float64(ts.Hour()) + float64(ts.Minute())/60

		// Household daily curve: overnight base, morning bump, evening peak
		kw := 0.4
		kw += 1.2 * math.Exp(-math.Pow(hour-7.5, 2)/3.0)  // Breakfast
		kw += 2.8 * math.Exp(-math.Pow(hour-19.5, 2)/5.0) // Evening activities

		// Jitter
		kw += rng.Float64() * 0.3

		series = append(series, types.Sample{TS: ts, DemandKW: kw})
	}

	ev := &types.EVChargeProfile{
		PowerKW:   7.4,
		StartHour: 22,
		EndHour:   5,
	}

	scenarios := []struct {
		class types.CustomerClass
		mode  types.TariffMode
		ev    *types.EVChargeProfile
	}{
		{types.CustomerResidential, types.TariffModeNormal, nil},
		{types.CustomerResidential, types.TariffModeTOU, nil},
		{types.CustomerResidential, types.TariffModeNormal, ev},
		{types.CustomerResidential, types.TariffModeTOU, ev},
		{types.CustomerSMBLowVoltage, types.TariffModeNormal, nil},
		{types.CustomerSMBMediumVoltage, types.TariffModeTOU, nil},
	}

	computedAt := time.Now().UTC().Truncate(time.Second)
	for i, sc := range scenarios {
		rep := billing.NewReporter()
		bill := calc.ComputeBill(series, sc.class, sc.mode, rep)
		if bill.Error != "" {
			log.Ctx(ctx).ErrorContext(ctx, "failed to compute bill", "error", bill.Error)
			os.Exit(1)
		}

		record := types.BillRecord{
			// spread ComputedAt so records get distinct document IDs
			ComputedAt: computedAt.Add(time.Duration(i) * time.Second),
			Bill:       bill,
		}

		if sc.ev != nil {
			evSeries, _, err := billing.ApplyLoad(series, *sc.ev)
			if err != nil {
				log.Ctx(ctx).ErrorContext(ctx, "failed to apply ev load", "error", err)
				os.Exit(1)
			}
			evBill := calc.ComputeBill(evSeries, sc.class, sc.mode, rep)
			record.EVBill = &evBill
			record.EVProfile = sc.ev
		}
		record.Warnings = rep.Warnings()

		if err := s.InsertBill(ctx, types.SiteIDNone, record); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to seed bill record", "error", err)
			os.Exit(1)
		}

		fmt.Printf("Seeded %s/%s: %.4f kWh -> %.2f baht (ev=%v)\n",
			sc.class, sc.mode, bill.TotalKWH, bill.FinalBill, sc.ev != nil)
	}

	log.Ctx(ctx).InfoContext(ctx, "seeded mock bill history successfully")
}

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/wattbill/wattbill/pkg/types"
)

// Database defines the interface for persisting computed bills.
type Database interface {
	// InsertBill stores a bill computation for a site, keyed by its
	// ComputedAt timestamp.
	InsertBill(ctx context.Context, siteID string, record types.BillRecord) error

	// GetBillHistory retrieves bill records computed within [start, end).
	GetBillHistory(ctx context.Context, siteID string, start, end time.Time) ([]types.BillRecord, error)

	// GetLatestBillTime returns the ComputedAt of the most recent stored
	// bill, or the zero time when the site has no history.
	GetLatestBillTime(ctx context.Context, siteID string) (time.Time, error)

	// Lifecycle
	Close() error
}

// Configured sets up the Storage provider based on flags.
func Configured() Database {
	provider := lflag.String("storage-provider", "firestore", "Storage provider to use (available: firestore)")

	var p struct{ Database }

	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			p.Database = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}

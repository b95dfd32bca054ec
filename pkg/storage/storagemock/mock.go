package storagemock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/wattbill/wattbill/pkg/storage"
	"github.com/wattbill/wattbill/pkg/types"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) InsertBill(ctx context.Context, siteID string, record types.BillRecord) error {
	args := m.Called(ctx, siteID, record)
	return args.Error(0)
}

func (m *MockDatabase) GetBillHistory(ctx context.Context, siteID string, start, end time.Time) ([]types.BillRecord, error) {
	args := m.Called(ctx, siteID, start, end)
	if len(args) > 0 {
		return args.Get(0).([]types.BillRecord), args.Error(1)
	}
	return nil, nil
}

func (m *MockDatabase) GetLatestBillTime(ctx context.Context, siteID string) (time.Time, error) {
	args := m.Called(ctx, siteID)
	if len(args) > 0 {
		return args.Get(0).(time.Time), args.Error(1)
	}
	return time.Time{}, nil
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}

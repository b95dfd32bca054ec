package server

import (
	"github.com/wattbill/wattbill/pkg/storage/storagemock"
)

type mockStorage = storagemock.MockDatabase

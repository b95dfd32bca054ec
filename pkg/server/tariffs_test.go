package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wattbill/wattbill/pkg/catalog"
	"github.com/wattbill/wattbill/pkg/types"
)

func TestHandleListTariffs(t *testing.T) {
	srv := newTestServer(&mockStorage{})
	handler := srv.setupHandler()

	r := httptest.NewRequest("GET", "/api/list/tariffs", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var infos []types.TariffInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&infos))
	require.Len(t, infos, 7)

	// residential has a normal and a tou option
	foundResidentialTOU := false
	for _, info := range infos {
		if info.CustomerClass == types.CustomerResidential && info.Mode == types.TariffModeTOU {
			foundResidentialTOU = true
			assert.Equal(t, "tou", info.PricingModel)
		}
	}
	assert.True(t, foundResidentialTOU)
}

func TestHandleFtRates(t *testing.T) {
	srv := newTestServer(&mockStorage{})
	handler := srv.setupHandler()

	r := httptest.NewRequest("GET", "/api/ftrates", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var periods []catalog.FtPeriod
	require.NoError(t, json.NewDecoder(w.Body).Decode(&periods))
	assert.Len(t, periods, len(catalog.Default().FtPeriods()))
	assert.Equal(t, 2023, periods[0].Year)
	assert.Equal(t, 1, periods[0].Month)
}

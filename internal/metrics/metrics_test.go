package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPath(t *testing.T) {
	assert.Equal(t, "/", canonicalPath(""))
	assert.Equal(t, "/main", canonicalPath("/main"))
	assert.Equal(t, "/main/import-company", canonicalPath("/main/import-company/"))
	assert.Equal(t, "/api/:operation", canonicalPath("/api/postCompany"))
	assert.Equal(t, "/health", canonicalPath("/health"))
}

func TestInstrumentHandlerCounts(t *testing.T) {
	h := InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	before := testutil.ToFloat64(httpRequests.WithLabelValues("POST", "/main", "400"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/main", nil))
	after := testutil.ToFloat64(httpRequests.WithLabelValues("POST", "/main", "400"))

	assert.Equal(t, before+1, after)
}

func TestRecorders(t *testing.T) {
	RecordDispatch("", "structural_error")
	assert.GreaterOrEqual(t, testutil.ToFloat64(dispatchOutcomes.WithLabelValues("none", "structural_error")), 1.0)

	RecordLedgerCall("invoke", "AddCompany", 200, 0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(ledgerCalls.WithLabelValues("invoke", "AddCompany", "200")), 1.0)

	RecordNotification(false)
	assert.GreaterOrEqual(t, testutil.ToFloat64(notifications.WithLabelValues("failed")), 1.0)

	RecordImportRows("company", 3, true)
	assert.GreaterOrEqual(t, testutil.ToFloat64(importRows.WithLabelValues("company", "submitted")), 3.0)
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordLedgerCall("query", "GetCompany", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "korechain_gateway_ledger_calls_total"))
}

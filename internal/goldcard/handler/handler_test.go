package handler

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"caseline/internal/goldcard"
	"caseline/pkg/testutil"
)

func newRouter() http.Handler {
	r := chi.NewRouter()
	New(slog.Default()).Register(r)
	return r
}

func TestEvaluateEndpoint(t *testing.T) {
	router := newRouter()

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/goldcard/evaluate", map[string]any{
		"payer_id":      "UnitedHealthcare",
		"approval_rate": 93,
		"order_count":   110,
	}))
	testutil.AssertStatusOK(t, rr)

	status := testutil.UnmarshalResponse[goldcard.Status](t, rr)
	assert.True(t, status.Eligible)
	assert.Equal(t, goldcard.PayerUnitedHealthcare, status.Payer.PayerKey)
	assert.False(t, status.Payer.Fallback)
}

func TestEvaluateUnknownPayerSignalsFallback(t *testing.T) {
	router := newRouter()

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/goldcard/evaluate", map[string]any{
		"payer_id":      "Acme Regional",
		"approval_rate": 95,
		"order_count":   120,
	}))
	testutil.AssertStatusOK(t, rr)

	status := testutil.UnmarshalResponse[goldcard.Status](t, rr)
	assert.Equal(t, goldcard.PayerDefault, status.Payer.PayerKey)
	assert.True(t, status.Payer.Fallback)
}

func TestEvaluateValidation(t *testing.T) {
	router := newRouter()

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/goldcard/evaluate", map[string]any{
		"approval_rate": 120,
	}))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/goldcard/evaluate", map[string]any{
		"approval_rate": 90,
		"order_count":   -1,
	}))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestThresholdEndpoint(t *testing.T) {
	router := newRouter()

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/goldcard/thresholds/Aetna"))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONHasKey(t, rr, "threshold")
	testutil.AssertJSONHasKey(t, rr, "resolution")
}

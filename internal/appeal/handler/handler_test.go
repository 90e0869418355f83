package handler

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"caseline/internal/appeal"
	"caseline/pkg/testutil"
)

func newRouter() http.Handler {
	r := chi.NewRouter()
	New(slog.Default()).Register(r)
	return r
}

func TestEstimateEndpoint(t *testing.T) {
	router := newRouter()

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/appeal/estimate", map[string]any{
		"documentation_quality":    80,
		"criteria_match":           60,
		"engine_score":             5,
		"historical_approval_rate": 70,
		"specialty_match":          90,
	}))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "overturn_probability", 67.6)
}

func TestEstimateRejectsBadJSON(t *testing.T) {
	router := newRouter()

	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/appeal/estimate", "{"))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestSavingsEndpoint(t *testing.T) {
	router := newRouter()

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/appeal/savings", map[string]any{
		"appeals_prevented": 10,
	}))
	testutil.AssertStatusOK(t, rr)

	savings := testutil.UnmarshalResponse[appeal.Savings](t, rr)
	assert.Equal(t, 10, savings.AppealsPrevented)
	assert.Equal(t, 1270.0, savings.DirectCost)
	assert.Equal(t, 25.0, savings.StaffHours)
}

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mycompass/travel-engine/api"
	"github.com/mycompass/travel-engine/claim"
	"github.com/mycompass/travel-engine/queue"
	"github.com/mycompass/travel-engine/rates"
	"github.com/mycompass/travel-engine/settlement"
	"github.com/mycompass/travel-engine/settlement/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *queue.Memory) {
	t.Helper()

	q := queue.NewMemory()
	svc := settlement.New(
		claim.NewCalculator(rates.NewStatic()),
		store.NewMemory(),
		q,
		zap.NewNop(),
	)
	handler := api.NewHandler(svc, rates.NewStatic(), zap.NewNop())
	srv := httptest.NewServer(api.NewRouter(handler, []string{"*"}))
	t.Cleanup(srv.Close)
	return srv, q
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeSettlement(t *testing.T, resp *http.Response) api.SettlementResponse {
	t.Helper()
	defer resp.Body.Close()

	var out api.SettlementResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func initBody() map[string]any {
	return map[string]any{
		"orderNumber":         "PCS-2023-0042",
		"travelMode":          "pov",
		"departureDate":       "2023-06-01T00:00:00Z",
		"returnDate":          "2023-06-05T00:00:00Z",
		"departureLocation":   "Norfolk, VA",
		"destinationLocation": "San Diego, CA",
		"maltMiles":           500,
	}
}

// =============================================================================
// SETTLEMENT ENDPOINT TESTS
// =============================================================================

func TestSettlementEndpoints_FullLifecycle(t *testing.T) {
	srv, q := newTestServer(t)

	// Idle at first.
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/settlement", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decodeSettlement(t, resp)
	assert.Equal(t, settlement.StatusIdle, state.Status)
	assert.Nil(t, state.Claim)

	// Initialize a draft.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/settlement", initBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	state = decodeSettlement(t, resp)
	require.NotNil(t, state.Claim)
	assert.Equal(t, settlement.StatusDraft, state.Status)
	assert.Equal(t, "105", state.Claim.MALTAmount.String())

	// Double init conflicts.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/settlement", initBody())
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Patch mileage; totals recompute.
	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/settlement", map[string]any{
		"maltMiles": 1000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decodeSettlement(t, resp)
	assert.Equal(t, "210", state.Claim.MALTAmount.String())

	// Submit without certification is rejected and nothing is enqueued.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/settlement/submit", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	assert.Empty(t, q.Entries())

	// Certify, then submit.
	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/settlement", map[string]any{
		"memberCertification": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/settlement/submit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decodeSettlement(t, resp)
	assert.Equal(t, settlement.StatusSubmitted, state.Status)
	require.NotNil(t, state.Claim.SubmittedAt)

	entries := q.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "travelClaim:submit", entries[0].Kind)

	// A submitted settlement is immutable.
	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/settlement", map[string]any{
		"maltMiles": 1,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestSettlementEndpoints_UpdateWithoutDraft_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPatch, srv.URL+"/api/settlement", map[string]any{
		"maltMiles": 100,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestExpenseEndpoints_AddAndRemove(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/settlement", initBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Add a toll expense.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/settlement/expenses", map[string]any{
		"expenseType": "toll",
		"amount":      "20",
		"date":        "2023-06-02T00:00:00Z",
		"tollDetails": map[string]any{"tollAmount": "20"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decodeSettlement(t, resp)
	require.Len(t, state.Claim.Expenses, 1)
	assert.Equal(t, "20", state.Claim.MiscExpensesAmount.String())
	id := string(state.Claim.Expenses[0].ID)

	// Remove it.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/settlement/expenses/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decodeSettlement(t, resp)
	assert.Empty(t, state.Claim.Expenses)

	// Removing again is an idempotent no-op.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/settlement/expenses/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestExpenseValidateEndpoint_OverCap(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/settlement/expenses/validate", map[string]any{
		"zip": "23508",
		"expense": map[string]any{
			"expenseType": "lodging",
			"amount":      "250",
			"date":        "2023-06-02T00:00:00Z",
			"lodgingDetails": map[string]any{
				"nightlyRate":    "250",
				"numberOfNights": 1,
			},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var out api.ValidateExpenseResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.False(t, out.IsValid)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "exceeds locality cap")
}

// =============================================================================
// RATE AND PLANNING ENDPOINT TESTS
// =============================================================================

func TestRateEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/rates/mileage", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mileage api.MileageRateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&mileage))
	resp.Body.Close()
	assert.Equal(t, "0.21", mileage.Rate.String())

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/rates/tle/92136", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tle api.TLERateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tle))
	resp.Body.Close()
	assert.Equal(t, "210", tle.Rate.String())

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/rates/perdiem/00000", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pd api.PerDiemRateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	resp.Body.Close()
	assert.Equal(t, "107", pd.Lodging.String())
	assert.Equal(t, "59", pd.MIE.String())

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/rates/dla?paygrade=E-5&dependents=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dla api.DLARateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dla))
	resp.Body.Close()
	assert.Equal(t, "2800", dla.Rate.String())

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/rates/dla", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "paygrade is required")
	resp.Body.Close()
}

func TestTravelDaysEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/travel-days?start=2023-01-01&end=2023-01-05", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var out api.TravelDaysResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 5, out.Days)
}

func TestEstimateEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/estimate", map[string]any{
		"paygrade":        "E-5",
		"authorizedMiles": 1000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var est api.EstimateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&est))
	resp.Body.Close()
	assert.Equal(t, "210", est.MALT.String())
	assert.Equal(t, "2200", est.DLA.String())

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/estimate/advance", map[string]any{
		"monthlyBasePay":  "4000",
		"monthsRequested": 2,
		"repaymentMonths": 12,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var adv api.AdvanceScheduleResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&adv))
	resp.Body.Close()
	require.Len(t, adv.Timeline, 12)
	assert.Equal(t, "666.67", adv.Timeline[0].DeductionAmount.StringFixed(2))
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

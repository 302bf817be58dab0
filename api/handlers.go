/*
handlers.go - HTTP API handlers for the travel entitlement engine

PURPOSE:
  Exposes the settlement lifecycle and rate lookups via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Settlement:
    GET    /api/settlement                 Current status + draft snapshot
    POST   /api/settlement                 Initialize a draft from trip data
    PATCH  /api/settlement                 Apply a partial update (recalculates)
    POST   /api/settlement/submit          Certify and submit the draft
    POST   /api/settlement/expenses        Add one expense
    DELETE /api/settlement/expenses/{id}   Remove one expense (idempotent)
    POST   /api/settlement/expenses/validate  Cap-check one expense

  Rates:
    GET    /api/rates/mileage              MALT per-mile allowance
    GET    /api/rates/tle/{zip}            Daily TLE lodging ceiling
    GET    /api/rates/perdiem/{zip}        Locality per diem pair
    GET    /api/rates/dla                  DLA by paygrade (?paygrade=&dependents=)

  Planning:
    GET    /api/travel-days                Inclusive day count (?start=&end=)
    POST   /api/estimate                   PCS entitlement projection
    POST   /api/estimate/advance           Advance-pay repayment timeline

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, missing certification
  - 404: No active draft
  - 409: Conflict (draft already exists, draft already submitted)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - settlement: the lifecycle service these handlers drive
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mycompass/travel-engine/claim"
	"github.com/mycompass/travel-engine/rates"
	"github.com/mycompass/travel-engine/settlement"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Settlement *settlement.Service
	Rates      rates.Provider
	Log        *zap.Logger
}

// NewHandler creates a new handler with the given dependencies.
func NewHandler(svc *settlement.Service, provider rates.Provider, log *zap.Logger) *Handler {
	return &Handler{
		Settlement: svc,
		Rates:      provider,
		Log:        log,
	}
}

// =============================================================================
// SETTLEMENT HANDLERS
// =============================================================================

// GetSettlement returns the lifecycle status plus the active draft.
// GET /api/settlement
func (h *Handler) GetSettlement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := h.Settlement.Status(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settlement", err)
		return
	}

	resp := SettlementResponse{Status: status}
	if status != settlement.StatusIdle {
		draft, err := h.Settlement.Draft(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load draft", err)
			return
		}
		resp.Claim = draft
		resp.Warnings = claim.ClaimWarnings(draft)
	}

	writeJSON(w, http.StatusOK, resp)
}

// InitSettlement starts a new draft from upstream trip data.
// POST /api/settlement
func (h *Handler) InitSettlement(w http.ResponseWriter, r *http.Request) {
	var req InitSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	draft, err := h.Settlement.Init(r.Context(), settlement.Seed{
		OrderNumber:         req.OrderNumber,
		TravelMode:          req.TravelMode,
		DepartureDate:       req.DepartureDate,
		ReturnDate:          req.ReturnDate,
		DepartureLocation:   req.DepartureLocation,
		DestinationLocation: req.DestinationLocation,
		MALTMiles:           req.MALTMiles,
		DLAAmount:           req.DLAAmount,
		TLEDays:             req.TLEDays,
		AdvanceAmount:       req.AdvanceAmount,
		Expenses:            req.Expenses,
		PerDiemDays:         req.PerDiemDays,
	})
	if err != nil {
		writeDomainError(w, "Failed to initialize settlement", err)
		return
	}

	writeJSON(w, http.StatusCreated, SettlementResponse{
		Status:   settlement.StatusDraft,
		Claim:    draft,
		Warnings: claim.ClaimWarnings(draft),
	})
}

// UpdateSettlement applies a partial update and recomputes totals.
// PATCH /api/settlement
func (h *Handler) UpdateSettlement(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	draft, err := h.Settlement.Update(r.Context(), req.toPatch())
	if err != nil {
		writeDomainError(w, "Failed to update settlement", err)
		return
	}

	writeJSON(w, http.StatusOK, SettlementResponse{
		Status:   settlement.StatusDraft,
		Claim:    draft,
		Warnings: claim.ClaimWarnings(draft),
	})
}

// SubmitSettlement certifies and submits the active draft.
// POST /api/settlement/submit
func (h *Handler) SubmitSettlement(w http.ResponseWriter, r *http.Request) {
	submitted, err := h.Settlement.Submit(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to submit settlement", err)
		return
	}

	writeJSON(w, http.StatusOK, SettlementResponse{
		Status: settlement.StatusSubmitted,
		Claim:  submitted,
	})
}

// AddExpense appends one expense line item to the draft.
// POST /api/settlement/expenses
func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var e claim.Expense
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	draft, err := h.Settlement.AddExpense(r.Context(), e)
	if err != nil {
		writeDomainError(w, "Failed to add expense", err)
		return
	}

	writeJSON(w, http.StatusOK, SettlementResponse{
		Status:   settlement.StatusDraft,
		Claim:    draft,
		Warnings: claim.ClaimWarnings(draft),
	})
}

// RemoveExpense deletes one expense by ID. Removing an absent ID succeeds.
// DELETE /api/settlement/expenses/{id}
func (h *Handler) RemoveExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	draft, err := h.Settlement.RemoveExpense(r.Context(), claim.ExpenseID(id))
	if err != nil {
		writeDomainError(w, "Failed to remove expense", err)
		return
	}

	writeJSON(w, http.StatusOK, SettlementResponse{
		Status:   settlement.StatusDraft,
		Claim:    draft,
		Warnings: claim.ClaimWarnings(draft),
	})
}

// ValidateExpense cap-checks one expense against its locality rates.
// POST /api/settlement/expenses/validate
func (h *Handler) ValidateExpense(w http.ResponseWriter, r *http.Request) {
	var req ValidateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	pd := h.Rates.PerDiemRate(req.Zip)
	result := claim.ValidateExpenseAgainstCaps(req.Expense, claim.RateCaps{
		LodgingCap: pd.Lodging,
		MIECap:     pd.MIE,
	})

	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusOK, ValidateExpenseResponse{
		IsValid:  result.IsValid,
		Warnings: warnings,
	})
}

// =============================================================================
// RATE HANDLERS
// =============================================================================

// GetMileageRate returns the MALT per-mile allowance.
// GET /api/rates/mileage
func (h *Handler) GetMileageRate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MileageRateResponse{Rate: h.Rates.MileageRate()})
}

// GetTLERate returns a locality's daily TLE lodging ceiling.
// GET /api/rates/tle/{zip}
func (h *Handler) GetTLERate(w http.ResponseWriter, r *http.Request) {
	zip := chi.URLParam(r, "zip")
	writeJSON(w, http.StatusOK, TLERateResponse{Zip: zip, Rate: h.Rates.TLERate(zip)})
}

// GetPerDiemRate returns a locality's per diem pair.
// GET /api/rates/perdiem/{zip}
func (h *Handler) GetPerDiemRate(w http.ResponseWriter, r *http.Request) {
	zip := chi.URLParam(r, "zip")
	pd := h.Rates.PerDiemRate(zip)
	writeJSON(w, http.StatusOK, PerDiemRateResponse{Zip: zip, Lodging: pd.Lodging, MIE: pd.MIE})
}

// GetDLARate returns the dislocation allowance for a paygrade.
// GET /api/rates/dla?paygrade=E-5&dependents=true
func (h *Handler) GetDLARate(w http.ResponseWriter, r *http.Request) {
	paygrade := r.URL.Query().Get("paygrade")
	if paygrade == "" {
		writeError(w, http.StatusBadRequest, "paygrade query parameter is required", nil)
		return
	}
	hasDependents := r.URL.Query().Get("dependents") == "true"

	writeJSON(w, http.StatusOK, DLARateResponse{
		Paygrade:      paygrade,
		HasDependents: hasDependents,
		Rate:          rates.DLARate(paygrade, hasDependents),
	})
}

// =============================================================================
// PLANNING HANDLERS
// =============================================================================

// GetTravelDays returns the inclusive day count between two dates.
// GET /api/travel-days?start=2023-01-01&end=2023-01-05
func (h *Handler) GetTravelDays(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD", err)
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD", err)
		return
	}

	writeJSON(w, http.StatusOK, TravelDaysResponse{
		Start: start,
		End:   end,
		Days:  claim.TravelDays(start, end),
	})
}

// Estimate produces an itemized PCS entitlement projection.
// POST /api/estimate
func (h *Handler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.AuthorizedMiles < 0 {
		writeError(w, http.StatusBadRequest, "authorizedMiles must be non-negative", nil)
		return
	}

	result := claim.EstimatePCSEntitlements(h.Rates,
		claim.FinancialProfile{
			Paygrade:           req.Paygrade,
			MonthlyBasePay:     req.MonthlyBasePay,
			HasDependents:      req.HasDependents,
			NumberOfDependents: req.NumberOfDependents,
		},
		claim.Route{
			OriginStation:      req.OriginStation,
			DestinationStation: req.DestinationStation,
			AuthorizedMiles:    req.AuthorizedMiles,
			TLEDaysAuthorized:  req.TLEDaysAuthorized,
		})

	writeJSON(w, http.StatusOK, EstimateResponse{
		MALT:        result.MALT,
		DLA:         result.DLA,
		TLE:         result.TLE,
		TotalPayout: result.TotalPayout,
	})
}

// AdvanceSchedule builds the advance-pay repayment timeline.
// POST /api/estimate/advance
func (h *Handler) AdvanceSchedule(w http.ResponseWriter, r *http.Request) {
	var req AdvanceScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.MonthlyBasePay.IsNegative() {
		writeError(w, http.StatusBadRequest, "monthlyBasePay must be non-negative", nil)
		return
	}

	timeline := claim.AdvancePaySchedule(req.MonthlyBasePay, req.MonthsRequested, req.RepaymentMonths)

	rows := make([]AdvanceScheduleRow, len(timeline))
	for i, row := range timeline {
		rows[i] = AdvanceScheduleRow{
			MonthIndex:      row.MonthIndex,
			OriginalNetPay:  row.OriginalNetPay,
			DeductionAmount: row.DeductionAmount,
			ProjectedNetPay: row.ProjectedNetPay,
		}
	}

	writeJSON(w, http.StatusOK, AdvanceScheduleResponse{Timeline: rows})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps settlement/claim errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	var inputErr *claim.InputError
	switch {
	case errors.As(err, &inputErr):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, claim.ErrCertificationRequired):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, claim.ErrNoActiveDraft):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, claim.ErrDraftExists), errors.Is(err, claim.ErrDraftSubmitted):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/hearthledger/budget-service/internal/models"
	"github.com/hearthledger/budget-service/internal/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNoActiveCycle):
		// Distinct from a zero-value projection so the UI can render a
		// setup prompt instead of misleading zeros.
		respondJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// asOf reads an optional ?date=YYYY-MM-DD override, defaulting to now. The
// override makes projections reproducible for support and testing.
func asOf(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", raw)
}

// Register handles household registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	household, err := h.svc.Register(req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, household)
}

// Login handles household authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// CreateObligation handles new obligation definitions
func (h *Handler) CreateObligation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                string          `json:"name"`
		Kind                string          `json:"kind"`
		Amount              decimal.Decimal `json:"amount"`
		Frequency           string          `json:"frequency"`
		AnchorDate          string          `json:"anchor_date"`
		AdjustForWorkingDay bool            `json:"adjust_for_working_day"`
		IsPrimaryIncome     bool            `json:"is_primary_income"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	obligation := &models.Obligation{
		Name:                req.Name,
		Kind:                req.Kind,
		Amount:              req.Amount,
		Frequency:           req.Frequency,
		AdjustForWorkingDay: req.AdjustForWorkingDay,
		IsPrimaryIncome:     req.IsPrimaryIncome,
	}
	if req.AnchorDate != "" {
		anchor, err := time.Parse("2006-01-02", req.AnchorDate)
		if err != nil {
			http.Error(w, "Invalid anchor_date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		obligation.AnchorDate = &anchor
	}

	created, err := h.svc.CreateObligation(r.Context(), obligation)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListObligations returns the household's active obligations
func (h *Handler) ListObligations(w http.ResponseWriter, r *http.Request) {
	obligations, err := h.svc.ListObligations(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, obligations)
}

// DeactivateObligation soft-deletes an obligation
func (h *Handler) DeactivateObligation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid obligation id", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeactivateObligation(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateBankAccount handles account creation
func (h *Handler) CreateBankAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string          `json:"name"`
		AccountNumber  string          `json:"account_number"`
		OverdraftLimit decimal.Decimal `json:"overdraft_limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.svc.CreateBankAccount(r.Context(), req.Name, req.AccountNumber, req.OverdraftLimit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, account)
}

// GetProjection runs the cash-flow simulation for the active cycle
func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	now, err := asOf(r)
	if err != nil {
		http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	result, err := h.svc.GetProjection(r.Context(), now)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// MarkProgress records paid/cancelled/actual-amount state for one occurrence
// and returns the recomputed projection
func (h *Handler) MarkProgress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ObligationID   int64            `json:"obligation_id"`
		OccurrenceDate string           `json:"occurrence_date"`
		IsPaid         int              `json:"is_paid"`
		ActualAmount   *decimal.Decimal `json:"actual_amount,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.IsPaid < -1 || req.IsPaid > 1 {
		http.Error(w, "is_paid must be -1, 0 or 1", http.StatusBadRequest)
		return
	}
	occurrenceDate, err := time.Parse("2006-01-02", req.OccurrenceDate)
	if err != nil {
		http.Error(w, "Invalid occurrence_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	now, err := asOf(r)
	if err != nil {
		http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	result, err := h.svc.MarkProgress(r.Context(), req.ObligationID, occurrenceDate, req.IsPaid, req.ActualAmount, now)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetReminders returns obligations due exactly at the lookahead horizon
func (h *Handler) GetReminders(w http.ResponseWriter, r *http.Request) {
	now, err := asOf(r)
	if err != nil {
		http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	upcoming, err := h.svc.Reminders(r.Context(), now)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, upcoming)
}

// GetDebtStrategy returns avalanche/snowball orderings and a recommendation
func (h *Handler) GetDebtStrategy(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.svc.DebtStrategy(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ranking)
}

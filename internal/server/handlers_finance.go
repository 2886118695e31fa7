package server

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ujjwalpatil07/FinVoice/internal/models"
)

// handleLedger handles GET (load) and POST (create) for
// /api/finance/{userId}/ledger.
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request, userID string) {
	switch r.Method {
	case http.MethodGet:
		record, err := s.app.LedgerService.GetLedger(r.Context(), userID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteLedger(w, http.StatusOK, "Ledger loaded", record)
	case http.MethodPost:
		record, err := s.app.LedgerService.CreateLedger(r.Context(), userID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteLedger(w, http.StatusCreated, "Ledger created", record)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleAnalytics handles GET /api/finance/{userId}/analytics.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	summary, err := s.app.AnalyticsService.Summary(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"analytics": summary,
	})
}

// handleAddIncome handles POST /api/finance/{userId}/income.
func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Amount decimal.Decimal `json:"amount"`
		Reason string          `json:"reason"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	record, err := s.app.LedgerService.RecordIncome(r.Context(), userID, req.Amount, req.Reason)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteLedger(w, http.StatusOK, "Income added successfully", record)
}

// handleAddExpense handles POST /api/finance/{userId}/expense.
func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Title    string          `json:"title"`
		Amount   decimal.Decimal `json:"amount"`
		Category string          `json:"category"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	record, err := s.app.LedgerService.RecordExpense(r.Context(), userID, req.Title, req.Amount, req.Category)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteLedger(w, http.StatusOK, "Expense added successfully", record)
}

// handleAddSaving handles POST /api/finance/{userId}/saving.
func (s *Server) handleAddSaving(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	record, err := s.app.LedgerService.RecordSaving(r.Context(), userID, req.Amount)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteLedger(w, http.StatusOK, "Saving added successfully", record)
}

// handleAddInvestment handles POST /api/finance/{userId}/investment.
func (s *Server) handleAddInvestment(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Value decimal.Decimal `json:"value"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	record, err := s.app.LedgerService.RecordInvestmentMark(r.Context(), userID, req.Value)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteLedger(w, http.StatusOK, "Investment updated successfully", record)
}

// handleAddGoal handles POST /api/finance/{userId}/goal.
func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Name         string          `json:"name"`
		TargetAmount decimal.Decimal `json:"targetAmount"`
		TargetDate   *time.Time      `json:"targetDate"`
		Category     string          `json:"category"`
		Priority     string          `json:"priority"`
		Description  string          `json:"description"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	record, _, err := s.app.GoalService.CreateGoal(r.Context(), userID, models.GoalInput{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		TargetDate:   req.TargetDate,
		Category:     req.Category,
		Priority:     models.GoalPriority(req.Priority),
		Description:  req.Description,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteLedger(w, http.StatusCreated, "Goal added successfully", record)
}

// handleGoalItem handles PUT (merge update) and DELETE for
// /api/finance/{userId}/{goalId}.
func (s *Server) handleGoalItem(w http.ResponseWriter, r *http.Request, userID, goalID string) {
	switch r.Method {
	case http.MethodPut:
		var patch models.GoalPatch
		if !DecodeJSON(w, r, &patch) {
			return
		}
		record, _, err := s.app.GoalService.UpdateGoal(r.Context(), userID, goalID, patch)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteLedger(w, http.StatusOK, "Goal updated successfully", record)
	case http.MethodDelete:
		record, err := s.app.GoalService.DeleteGoal(r.Context(), userID, goalID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteLedger(w, http.StatusOK, "Goal deleted successfully", record)
	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// handleGoalToggle handles PATCH /api/finance/{userId}/{goalId}/toggle.
func (s *Server) handleGoalToggle(w http.ResponseWriter, r *http.Request, userID, goalID string) {
	if !RequireMethod(w, r, http.MethodPatch) {
		return
	}
	record, _, err := s.app.GoalService.ToggleGoalCompletion(r.Context(), userID, goalID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteLedger(w, http.StatusOK, "Goal completion toggled", record)
}

// handleAddTransaction handles POST /api/finance/{userId}/transaction — the
// generic path used by collaborators that already know the transaction shape.
func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var input models.TransactionInput
	if !DecodeJSON(w, r, &input) {
		return
	}
	record, err := s.app.LedgerService.RecordTransaction(r.Context(), userID, input)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteLedger(w, http.StatusOK, "Transaction added successfully", record)
}

// handleTransactionItem handles PUT and DELETE for
// /api/finance/{userId}/transaction/{id}.
func (s *Server) handleTransactionItem(w http.ResponseWriter, r *http.Request, userID, ref string) {
	switch r.Method {
	case http.MethodPut:
		var patch models.TransactionPatch
		if !DecodeJSON(w, r, &patch) {
			return
		}
		record, err := s.app.LedgerService.UpdateTransaction(r.Context(), userID, ref, patch)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteLedger(w, http.StatusOK, "Transaction updated successfully", record)
	case http.MethodDelete:
		record, err := s.app.LedgerService.DeleteTransaction(r.Context(), userID, ref)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteLedger(w, http.StatusOK, "Transaction deleted successfully", record)
	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// handleAddBudget handles POST /api/finance/{userId}/budget.
func (s *Server) handleAddBudget(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Category string          `json:"category"`
		Limit    decimal.Decimal `json:"limit"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	record, err := s.app.BudgetService.CreateBudget(r.Context(), userID, req.Category, req.Limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteLedger(w, http.StatusCreated, "Budget added successfully", record)
}

// handleBudgetDelete handles DELETE /api/finance/{userId}/budget/{budgetId}.
func (s *Server) handleBudgetDelete(w http.ResponseWriter, r *http.Request, userID, budgetID string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	record, err := s.app.BudgetService.DeleteBudget(r.Context(), userID, budgetID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteLedger(w, http.StatusOK, "Budget deleted successfully", record)
}

// handleUpdateBalance handles PUT /api/finance/{userId}/update-balance,
// re-applying the most recent income to the balance.
func (s *Server) handleUpdateBalance(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}
	record, err := s.app.LedgerService.ReapplyLastIncome(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteLedger(w, http.StatusOK, "Balance updated successfully", record)
}

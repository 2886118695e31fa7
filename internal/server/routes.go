package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/ujjwalpatil07/FinVoice/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Finance ledger
	mux.HandleFunc("/api/finance/", s.routeFinance)
}

// routeFinance dispatches /api/finance/{userId}/... to the appropriate
// handler. The first path segment is always the user id; the second selects
// the operation, or names a goal id for the goal update/toggle/delete routes.
func (s *Server) routeFinance(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/finance/")
	if path == "" {
		WriteError(w, http.StatusBadRequest, "user id is required in path")
		return
	}

	parts := strings.SplitN(path, "/", 3)
	userID := parts[0]
	sub := ""
	rest := ""
	if len(parts) > 1 {
		sub = parts[1]
	}
	if len(parts) > 2 {
		rest = parts[2]
	}

	if userID == "" {
		WriteError(w, http.StatusBadRequest, "user id is required in path")
		return
	}
	if !s.authorizeUser(w, r, userID) {
		return
	}

	switch sub {
	case "":
		WriteError(w, http.StatusNotFound, "Not found")
	case "ledger":
		s.handleLedger(w, r, userID)
	case "analytics":
		s.handleAnalytics(w, r, userID)
	case "income":
		s.handleAddIncome(w, r, userID)
	case "expense":
		s.handleAddExpense(w, r, userID)
	case "saving":
		s.handleAddSaving(w, r, userID)
	case "investment":
		s.handleAddInvestment(w, r, userID)
	case "goal":
		s.handleAddGoal(w, r, userID)
	case "budget":
		if rest != "" {
			s.handleBudgetDelete(w, r, userID, rest)
			return
		}
		s.handleAddBudget(w, r, userID)
	case "transaction":
		if rest != "" {
			s.handleTransactionItem(w, r, userID, rest)
			return
		}
		s.handleAddTransaction(w, r, userID)
	case "update-balance":
		s.handleUpdateBalance(w, r, userID)
	default:
		// {goalId} routes: PUT /{userId}/{goalId}, PATCH /{userId}/{goalId}/toggle,
		// DELETE /{userId}/{goalId}.
		if rest == "toggle" {
			s.handleGoalToggle(w, r, userID, sub)
			return
		}
		if rest != "" {
			WriteError(w, http.StatusNotFound, "Not found")
			return
		}
		s.handleGoalItem(w, r, userID, sub)
	}
}

// authorizeUser rejects requests whose verified identity does not match the
// path-scoped user id. Anonymous requests (no bearer token, no internal
// header) are left to the deployment's network boundary.
func (s *Server) authorizeUser(w http.ResponseWriter, r *http.Request, userID string) bool {
	uc := common.UserContextFromContext(r.Context())
	if uc == nil || uc.UserID == "" || uc.UserID == userID {
		return true
	}
	WriteError(w, http.StatusForbidden, "user id does not match authenticated user")
	return false
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

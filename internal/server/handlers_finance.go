package server

import (
	"net/http"
	"strings"

	"github.com/zenithfin/zenith/internal/models"
)

// pathID extracts the trailing ID from a collection path like /api/debts/{id}.
func pathID(r *http.Request, prefix string) string {
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

// handleTransactions handles /api/transactions — GET lists, POST adds.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.app.FinanceService.ListTransactions(r.Context(), s.userID(r))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var t models.Transaction
		if !DecodeJSON(w, r, &t) {
			return
		}
		added, err := s.app.FinanceService.AddTransaction(r.Context(), s.userID(r), t)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, added)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleTransactionByID handles PUT and DELETE /api/transactions/{id}.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/transactions/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "transaction ID is required in path")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var t models.Transaction
		if !DecodeJSON(w, r, &t) {
			return
		}
		t.ID = id
		if err := s.app.FinanceService.UpdateTransaction(r.Context(), s.userID(r), t); err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, t)

	case http.MethodDelete:
		if err := s.app.FinanceService.DeleteTransaction(r.Context(), s.userID(r), id); err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// handleBudgets handles /api/budgets — GET lists, POST adds.
func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.app.FinanceService.ListBudgets(r.Context(), s.userID(r))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var b models.Budget
		if !DecodeJSON(w, r, &b) {
			return
		}
		added, err := s.app.FinanceService.AddBudget(r.Context(), s.userID(r), b)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, added)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleBudgetByID handles PUT and DELETE /api/budgets/{id}.
func (s *Server) handleBudgetByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/budgets/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "budget ID is required in path")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var b models.Budget
		if !DecodeJSON(w, r, &b) {
			return
		}
		b.ID = id
		if err := s.app.FinanceService.UpdateBudget(r.Context(), s.userID(r), b); err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, b)

	case http.MethodDelete:
		if err := s.app.FinanceService.DeleteBudget(r.Context(), s.userID(r), id); err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// handleDebts handles /api/debts — GET lists, POST adds.
func (s *Server) handleDebts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.app.FinanceService.ListDebts(r.Context(), s.userID(r))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var d models.Debt
		if !DecodeJSON(w, r, &d) {
			return
		}
		added, err := s.app.FinanceService.AddDebt(r.Context(), s.userID(r), d)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, added)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleDebtByID handles PUT and DELETE /api/debts/{id}.
func (s *Server) handleDebtByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/debts/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "debt ID is required in path")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var d models.Debt
		if !DecodeJSON(w, r, &d) {
			return
		}
		d.ID = id
		if err := s.app.FinanceService.UpdateDebt(r.Context(), s.userID(r), d); err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, d)

	case http.MethodDelete:
		if err := s.app.FinanceService.DeleteDebt(r.Context(), s.userID(r), id); err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// handleGoals handles /api/goals — GET lists, POST adds.
func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.app.FinanceService.ListGoals(r.Context(), s.userID(r))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var g models.Goal
		if !DecodeJSON(w, r, &g) {
			return
		}
		added, err := s.app.FinanceService.AddGoal(r.Context(), s.userID(r), g)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, added)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleGoalByID handles PUT and DELETE /api/goals/{id}.
func (s *Server) handleGoalByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/goals/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "goal ID is required in path")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var g models.Goal
		if !DecodeJSON(w, r, &g) {
			return
		}
		g.ID = id
		if err := s.app.FinanceService.UpdateGoal(r.Context(), s.userID(r), g); err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, g)

	case http.MethodDelete:
		if err := s.app.FinanceService.DeleteGoal(r.Context(), s.userID(r), id); err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

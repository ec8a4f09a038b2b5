package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/zenithfin/zenith/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Broker sync
	mux.HandleFunc("/api/sync", s.handleSync)
	mux.HandleFunc("/api/brokers/", s.routeBrokers)
	mux.HandleFunc("/api/brokers", s.handleBrokerList)

	// Holdings and portfolio
	mux.HandleFunc("/api/holdings/", s.handleHoldingByID)
	mux.HandleFunc("/api/holdings", s.handleHoldings)
	mux.HandleFunc("/api/portfolio/summary", s.handlePortfolioSummary)
	mux.HandleFunc("/api/portfolio/allocation.png", s.handleAllocationChart)

	// Cashflow
	mux.HandleFunc("/api/transactions/", s.handleTransactionByID)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/budgets/", s.handleBudgetByID)
	mux.HandleFunc("/api/budgets", s.handleBudgets)
	mux.HandleFunc("/api/debts/", s.handleDebtByID)
	mux.HandleFunc("/api/debts", s.handleDebts)
	mux.HandleFunc("/api/goals/", s.handleGoalByID)
	mux.HandleFunc("/api/goals", s.handleGoals)

	// Reports and export
	mux.HandleFunc("/api/reports/summary", s.handleMonthlySummary)
	mux.HandleFunc("/api/export/transactions.csv", s.handleExportTransactions)
	mux.HandleFunc("/api/export/holdings.csv", s.handleExportHoldings)

	// PIN gate
	mux.HandleFunc("/api/auth/pin", s.handleSetPIN)
	mux.HandleFunc("/api/auth/login", s.handleLogin)

	// Assistant
	mux.HandleFunc("/api/assistant/chat", s.handleAssistantChat)
	mux.HandleFunc("/api/assistant/history", s.handleAssistantHistory)
}

// routeBrokers dispatches /api/brokers/{id}/{action}.
func (s *Server) routeBrokers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/brokers/")
	if path == "" {
		s.handleBrokerList(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	switch parts[1] {
	case "connect":
		s.handleBrokerConnect(w, r, parts[0])
	case "disconnect":
		s.handleBrokerDisconnect(w, r, parts[0])
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
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
		"commit":  common.GetGitCommit(),
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

package server

import (
	"encoding/csv"
	"fmt"
	"net/http"
)

// handleMonthlySummary handles GET /api/reports/summary?month=YYYY-MM.
func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	month := r.URL.Query().Get("month")
	summary, err := s.app.FinanceService.MonthlySummary(r.Context(), s.userID(r), month)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// handleExportTransactions handles GET /api/export/transactions.csv.
func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	list, err := s.app.FinanceService.ListTransactions(r.Context(), s.userID(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"id", "type", "category", "amount", "date", "description", "recurring"})
	for _, t := range list {
		cw.Write([]string{
			t.ID,
			string(t.Type),
			t.Category,
			fmt.Sprintf("%.2f", t.Amount),
			t.Date,
			t.Description,
			fmt.Sprintf("%t", t.IsRecurring),
		})
	}
	cw.Flush()
}

// handleExportHoldings handles GET /api/export/holdings.csv.
func (s *Server) handleExportHoldings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	holdings, err := s.app.PortfolioService.ListHoldings(r.Context(), s.userID(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="holdings.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"id", "name", "type", "quantity", "avg_price", "current_price", "invested", "current_value", "broker"})
	for _, h := range holdings {
		broker := string(h.BrokerID)
		if h.IsManual() {
			broker = "manual"
		}
		cw.Write([]string{
			h.ID,
			h.Name,
			string(h.Type),
			fmt.Sprintf("%g", h.Quantity),
			fmt.Sprintf("%.2f", h.AvgPrice),
			fmt.Sprintf("%.2f", h.CurrentPrice),
			fmt.Sprintf("%.2f", h.InvestedValue()),
			fmt.Sprintf("%.2f", h.CurrentValue()),
			broker,
		})
	}
	cw.Flush()
}

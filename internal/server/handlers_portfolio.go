package server

import (
	"net/http"
	"strings"

	"github.com/zenithfin/zenith/internal/models"
)

// handleHoldings handles /api/holdings — GET lists, POST adds a manual entry.
func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		holdings, err := s.app.PortfolioService.ListHoldings(r.Context(), s.userID(r))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, holdings)

	case http.MethodPost:
		var h models.Holding
		if !DecodeJSON(w, r, &h) {
			return
		}
		added, err := s.app.PortfolioService.AddHolding(r.Context(), s.userID(r), h)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, added)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleHoldingByID handles DELETE /api/holdings/{id}.
func (s *Server) handleHoldingByID(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/holdings/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "holding ID is required in path")
		return
	}

	if err := s.app.PortfolioService.DeleteHolding(r.Context(), s.userID(r), id); err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePortfolioSummary handles GET /api/portfolio/summary.
func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.app.PortfolioService.Summary(r.Context(), s.userID(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// handleAllocationChart handles GET /api/portfolio/allocation.png.
func (s *Server) handleAllocationChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	png, err := s.app.PortfolioService.AllocationChart(r.Context(), s.userID(r))
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

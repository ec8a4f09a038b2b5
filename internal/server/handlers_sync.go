package server

import (
	"net/http"

	"github.com/zenithfin/zenith/internal/models"
)

// syncResponse wraps the sync report with the user-facing message.
type syncResponse struct {
	Message string             `json:"message"`
	Report  *models.SyncReport `json:"report"`
}

// handleSync handles POST /api/sync — sync all connected brokers.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	report, err := s.app.SyncService.SyncAll(r.Context(), s.userID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, syncResponse{
		Message: report.Message(),
		Report:  report,
	})
}

// brokerView is a connection record with the secret redacted.
type brokerView struct {
	ID          models.BrokerID `json:"id"`
	Name        string          `json:"name"`
	ClientID    string          `json:"clientId,omitempty"`
	IsConnected bool            `json:"isConnected"`
}

// handleBrokerList handles GET /api/brokers.
func (s *Server) handleBrokerList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	data, err := s.app.Storage.DataStore().LoadData(r.Context(), s.userID(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if data == nil {
		data = models.NewAppData()
	}

	views := make([]brokerView, 0, len(data.Brokers))
	for _, b := range data.Brokers {
		views = append(views, brokerView{
			ID:          b.ID,
			Name:        b.Name,
			ClientID:    b.ClientID,
			IsConnected: b.IsConnected,
		})
	}
	WriteJSON(w, http.StatusOK, views)
}

type connectRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// handleBrokerConnect handles POST /api/brokers/{id}/connect.
func (s *Server) handleBrokerConnect(w http.ResponseWriter, r *http.Request, brokerID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	id, err := models.ParseBrokerID(brokerID)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	var req connectRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := s.app.SyncService.Connect(r.Context(), s.userID(r), id, req.ClientID, req.ClientSecret); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"message": id.DisplayName() + " connected",
	})
}

// handleBrokerDisconnect handles POST /api/brokers/{id}/disconnect.
func (s *Server) handleBrokerDisconnect(w http.ResponseWriter, r *http.Request, brokerID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	id, err := models.ParseBrokerID(brokerID)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	if err := s.app.SyncService.Disconnect(r.Context(), s.userID(r), id); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"message": id.DisplayName() + " disconnected",
	})
}

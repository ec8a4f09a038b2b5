package server

import (
	"net/http"
	"strings"

	"github.com/zenithfin/zenith/internal/models"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// handleAssistantChat handles POST /api/assistant/chat.
func (s *Server) handleAssistantChat(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req chatRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		WriteError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := s.app.AssistantService.Chat(r.Context(), s.userID(r), req.Message)
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

// handleAssistantHistory handles GET /api/assistant/history.
func (s *Server) handleAssistantHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	history, err := s.app.AssistantService.History(r.Context(), s.userID(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if history == nil {
		history = []models.ChatMessage{}
	}
	WriteJSON(w, http.StatusOK, history)
}

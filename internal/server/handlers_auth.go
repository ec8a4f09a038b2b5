package server

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/zenithfin/zenith/internal/models"
)

// The PIN gate is a light lock for a single-user local deployment, not an
// identity system. The PIN hash lives in the data blob; verification is
// bcrypt on both set and login.

type pinRequest struct {
	PIN        string `json:"pin"`
	CurrentPIN string `json:"currentPin,omitempty"`
}

// handleSetPIN handles POST /api/auth/pin — set or change the PIN.
// Changing an existing PIN requires the current one.
func (s *Server) handleSetPIN(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req pinRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.PIN) < 4 {
		WriteError(w, http.StatusBadRequest, "PIN must be at least 4 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to hash PIN")
		return
	}

	wrongCurrent := fmt.Errorf("current PIN is incorrect")
	err = s.app.Storage.DataStore().Update(r.Context(), s.userID(r), func(data *models.AppData) error {
		if data.Auth.PINHash != "" {
			if bcrypt.CompareHashAndPassword([]byte(data.Auth.PINHash), []byte(req.CurrentPIN)) != nil {
				return wrongCurrent
			}
		}
		data.Auth.PINHash = string(hash)
		return nil
	})
	if err != nil {
		if errors.Is(err, wrongCurrent) {
			WriteError(w, http.StatusUnauthorized, "Current PIN is incorrect")
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info().Msg("PIN updated")
	WriteJSON(w, http.StatusOK, map[string]string{"message": "PIN set"})
}

type loginRequest struct {
	PIN string `json:"pin"`
}

// handleLogin handles POST /api/auth/login — verify the PIN.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	data, err := s.app.Storage.DataStore().LoadData(r.Context(), s.userID(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if data == nil || data.Auth.PINHash == "" {
		// no PIN configured, nothing to gate
		WriteJSON(w, http.StatusOK, map[string]bool{"ok": true, "pinSet": false})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(data.Auth.PINHash), []byte(req.PIN)) != nil {
		WriteError(w, http.StatusUnauthorized, "Incorrect PIN")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true, "pinSet": true})
}

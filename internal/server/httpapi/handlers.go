package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"binderkeeper/internal/api"
	"binderkeeper/internal/binder"
	"binderkeeper/internal/common"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusConflict, "username is taken")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", req.Username, "user_id", user.ID)
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !readJSON(w, r, &req) {
		return
	}

	pair, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, api.TokenResponse{
		UserID:       pair.UserID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if !readJSON(w, r, &req) {
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrRefreshTokenExpired) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, api.TokenResponse{
		UserID:       pair.UserID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGetCards(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	binderID := r.PathValue("binderID")

	entries, err := s.binders.Cards(r.Context(), userID, binderID)
	if err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, api.CardsResponse{Cards: entries})
}

func (s *Server) handlePutCard(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	binderID := r.PathValue("binderID")
	cardID := r.PathValue("cardID")

	var card binder.CardEntry
	if !readJSON(w, r, &card) {
		return
	}
	// The path is authoritative for the card ID.
	card.ID = cardID

	if err := s.binders.SaveCard(r.Context(), userID, binderID, card); err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	binderID := r.PathValue("binderID")
	cardID := r.PathValue("cardID")

	if err := s.binders.DeleteCard(r.Context(), userID, binderID, cardID); err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	binderID := r.PathValue("binderID")

	payload, err := s.binders.Preferences(r.Context(), userID, binderID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// no stored preferences yet; the client falls back to defaults
			writeJSON(w, http.StatusOK, api.PreferencesResponse{})
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, api.PreferencesResponse{Preferences: payload})
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	binderID := r.PathValue("binderID")

	var prefs binder.Preferences
	if !readJSON(w, r, &prefs) {
		return
	}
	payload, err := json.Marshal(prefs)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid preferences")
		return
	}

	if err := s.binders.SavePreferences(r.Context(), userID, binderID, payload); err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

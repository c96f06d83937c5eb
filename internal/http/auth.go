package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hanriver/zipview/internal/service"
	"github.com/hanriver/zipview/pkg/httpx"
	"github.com/hanriver/zipview/pkg/slogx"
)

// AuthHandler serves the login, refresh and logout endpoints.
type AuthHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type logoutRequest struct {
	SessionID    string `json:"session_id,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type tokenResponse struct {
	AccessToken     string    `json:"access_token"`
	RefreshToken    string    `json:"refresh_token"`
	TokenType       string    `json:"token_type"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
}

// HandleLogin serves POST /v1/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errInvalidJSONBody.WriteError(w)
		return
	}
	if req.Username == "" || req.Password == "" {
		errMissingFields.WriteError(w)
		return
	}

	pair, err := h.AuthService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if isAuthFailure(err) {
			errAuthFailed.WriteError(w)
			return
		}
		log.Error("login failed", "err", err)
		errStorageUnavailable.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		TokenType:       pair.TokenType,
		AccessExpiresAt: pair.AccessExpiresAt,
	})
}

// HandleRefresh serves POST /v1/auth/refresh.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errInvalidJSONBody.WriteError(w)
		return
	}
	if req.RefreshToken == "" {
		errMissingFields.WriteError(w)
		return
	}

	pair, err := h.AuthService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if isAuthFailure(err) {
			errAuthFailed.WriteError(w)
			return
		}
		log.Error("refresh failed", "err", err)
		errStorageUnavailable.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		TokenType:       pair.TokenType,
		AccessExpiresAt: pair.AccessExpiresAt,
	})
}

// HandleLogout serves POST /v1/auth/logout. Accepts either a session id or a
// refresh token and always answers 204 for well-formed input on a live
// backend; revocation is idempotent.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errInvalidJSONBody.WriteError(w)
		return
	}
	if req.SessionID == "" && req.RefreshToken == "" {
		errMissingFields.WriteError(w)
		return
	}

	var err error
	if req.SessionID != "" {
		err = h.AuthService.Logout(ctx, req.SessionID)
	} else {
		err = h.AuthService.LogoutToken(ctx, req.RefreshToken)
	}
	if err != nil {
		if isAuthFailure(err) {
			errAuthFailed.WriteError(w)
			return
		}
		log.Error("logout failed", "err", err)
		errStorageUnavailable.WriteError(w)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

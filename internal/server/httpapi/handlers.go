package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/items"
	"github.com/dmitrijs2005/todokeeper/internal/server/users"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type authResponse struct {
	Success bool        `json:"success"`
	User    userPayload `json:"user"`
	Token   string      `json:"token"`
}

type saveItemsRequest struct {
	Items []items.Item `json:"items"`
}

type listResponse struct {
	ID    string       `json:"id"`
	Items []items.Item `json:"items"`
}

type exportResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, token, err := s.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.logger.Warn(r.Context(), "registration failed", "error", err.Error())
		writeError(w, err)
		return
	}

	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, newAuthResponse(user, token))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, newAuthResponse(user, token))
}

// handleLogout sits behind optionalAuth: it clears the cookie whether or
// not the session token still verifies, so a user with an expired token
// can always log out.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if identity, ok := identityFromContext(r.Context()); ok {
		s.logger.Info(r.Context(), "logout", "user", identity.UserID)
	}
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}

	user, err := s.users.Get(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userPayload{ID: user.ID, Username: user.Username})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}

	list, err := s.items.List(r.Context(), identity.UserID)
	if err != nil {
		s.logger.Error(r.Context(), "listing items failed", "owner", identity.UserID, "error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{ID: identity.UserID, Items: list})
}

func (s *Server) handleSaveItems(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}

	var req saveItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body", common.ErrorValidation))
		return
	}

	list, err := s.items.Replace(r.Context(), identity.UserID, req.Items)
	if err != nil {
		s.logger.Error(r.Context(), "saving items failed", "owner", identity.UserID, "error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{ID: identity.UserID, Items: list})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}

	if s.exporter == nil {
		writeError(w, fmt.Errorf("%w: export is not configured", common.ErrorUnavailable))
		return
	}

	list, err := s.items.List(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	key, url, err := s.exporter.Export(r.Context(), identity.UserID, list)
	if err != nil {
		s.logger.Error(r.Context(), "export failed", "owner", identity.UserID, "error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, exportResponse{Key: key, URL: url})
}

func decodeCredentials(r *http.Request) (*credentialsRequest, error) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: malformed request body", common.ErrorValidation)
	}
	return &req, nil
}

func newAuthResponse(user *users.User, token string) authResponse {
	return authResponse{
		Success: true,
		User:    userPayload{ID: user.ID, Username: user.Username},
		Token:   token,
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieTokenName,
		Value:    token,
		Path:     "/",
		MaxAge:   s.cookieMaxAge,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieTokenName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

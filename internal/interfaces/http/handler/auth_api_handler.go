package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/interfaces/http/middleware"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/jwt"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

const sessionTTL = 12 * time.Hour

type AuthAPIHandler struct {
	authConfig middleware.AuthConfig
	logger     *logger.Logger
}

type authLoginRequest struct {
	Token string `json:"token"`
}

func NewAuthAPIHandler(authConfig middleware.AuthConfig, log *logger.Logger) *AuthAPIHandler {
	return &AuthAPIHandler{
		authConfig: authConfig,
		logger:     log,
	}
}

// Login обменивает общий токен на cookie сессии.
// При заданном JWT секрете в cookie кладется подписанный JWT, а не сам общий токен.
func (h *AuthAPIHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.authConfig.Enabled {
		middleware.WriteJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"auth_enabled": false,
		})
		return
	}

	defer r.Body.Close()
	var req authLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token := strings.TrimSpace(req.Token)
	if token == "" || token != h.authConfig.BearerToken {
		h.logger.Warn("Auth login failed", "remote_addr", r.RemoteAddr)
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	sessionToken := token
	if h.authConfig.JWTSecret != "" {
		signed, err := jwt.GenerateToken("dashboard", "read", h.authConfig.JWTSecret, sessionTTL)
		if err != nil {
			h.logger.Error("Failed to issue session token", err)
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to issue session")
			return
		}
		sessionToken = signed
	}

	secureCookie := r.TLS != nil
	middleware.WriteAuthCookie(w, sessionToken, secureCookie, int(sessionTTL.Seconds()))

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"auth_enabled": true,
	})
}

func (h *AuthAPIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	secureCookie := r.TLS != nil
	middleware.ClearAuthCookie(w, secureCookie)
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
	})
}

func (h *AuthAPIHandler) Status(w http.ResponseWriter, r *http.Request) {
	err := middleware.ValidateRequestAuth(r, h.authConfig)
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"auth_enabled":   h.authConfig.Enabled,
		"authenticated":  err == nil,
		"cookie_present": hasAuthCookie(r),
	})
}

func hasAuthCookie(r *http.Request) bool {
	c, err := r.Cookie(middleware.AuthCookieName)
	if err != nil {
		return false
	}
	return strings.TrimSpace(c.Value) != ""
}

package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dreschagin/ops-dashboard-simulator/internal/metrics"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/jwt"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

var ErrUnauthorized = errors.New("unauthorized")

type AuthConfig struct {
	Enabled     bool
	BearerToken string
	// JWTSecret включает проверку HS256 токенов, выданных /api/v1/auth/login
	JWTSecret string
}

const AuthCookieName = "ops_dashboard_token"

// Auth защищает endpoint Bearer токеном: общим секретом или подписанным JWT.
func Auth(cfg AuthConfig, log *logger.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := ValidateRequestAuth(r, cfg); err != nil {
				m.AuthFailed()
				log.Warn("Unauthorized request",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
					"request_id", RequestIDFromRequest(r),
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="ops-dashboard"`)
				WriteError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ValidateRequestAuth(r *http.Request, cfg AuthConfig) error {
	if !cfg.Enabled {
		return nil
	}

	token := ExtractToken(r)
	if token == "" {
		return ErrUnauthorized
	}

	if cfg.BearerToken != "" && token == cfg.BearerToken {
		return nil
	}
	if cfg.JWTSecret != "" {
		if _, err := jwt.Parse(token, cfg.JWTSecret); err == nil {
			return nil
		}
	}

	return ErrUnauthorized
}

func ExtractToken(r *http.Request) string {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if c, err := r.Cookie(AuthCookieName); err == nil {
		if value := strings.TrimSpace(c.Value); value != "" {
			return value
		}
	}

	// Для WebSocket браузер не может отправить кастомный Authorization header через new WebSocket().
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

func WriteAuthCookie(w http.ResponseWriter, token string, secure bool, maxAgeSeconds int) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAgeSeconds,
	})
}

func ClearAuthCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// ErrorResponse единый формат ошибки API
type ErrorResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError пишет ошибку в формате {success:false, message, statusCode}
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{
		Success:    false,
		Message:    message,
		StatusCode: status,
	})
}

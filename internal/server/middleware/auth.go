package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/server/handlers"
	"github.com/iudanet/bulletinmirror/pkg/api"
)

// TokenVerifier проверяет токен пира и возвращает публичный ключ вызывающего
type TokenVerifier func(token string) (callerID string, err error)

// bearerToken достаёт токен из "Authorization: Bearer <token>".
// Схема сравнивается без учёта регистра.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// PeerAuthMiddleware пропускает дальше только запросы с валидным токеном пира.
// Здесь проверяется подлинность; входит ли пир в allow-list, решает поставщик.
func PeerAuthMiddleware(logger *slog.Logger, verify TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				logger.Warn("Peer request without bearer token",
					"path", sanitizePath(r.URL.Path),
					"remote_addr", r.RemoteAddr,
				)
				writeResult(w, http.StatusUnauthorized, api.ResultNotAuthorized, "bearer token required")
				return
			}

			callerID, err := verify(token)
			if err != nil {
				logger.Warn("Peer token rejected", "error", err, "remote_addr", r.RemoteAddr)
				writeResult(w, http.StatusUnauthorized, api.ResultNotAuthorized, "invalid token")
				return
			}

			noteCaller(r.Context(), callerID)
			logger.Debug("Peer authenticated", "caller", models.PublicCode(callerID))

			next.ServeHTTP(w, r.WithContext(handlers.WithCallerID(r.Context(), callerID)))
		})
	}
}

// writeResult пишет JSON-конверт с кодом результата
func writeResult(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Response{ResultCode: code, Message: message})
}

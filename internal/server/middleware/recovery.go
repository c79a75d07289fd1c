package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/server/handlers"
	"github.com/iudanet/bulletinmirror/pkg/api"
)

// RecoveryMiddleware превращает панику обработчика в SERVER_ERROR.
// Пир видит только код результата, стек остаётся в логе сервера.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				attrs := []any{
					"panic", rec,
					"request_id", GetRequestID(r.Context()),
					"method", r.Method,
					"path", sanitizePath(r.URL.Path),
				}
				if caller := callerFor(r.Context()); caller != "" {
					attrs = append(attrs, "caller", models.PublicCode(caller))
				} else {
					attrs = append(attrs, "remote_addr", r.RemoteAddr)
				}
				attrs = append(attrs, "stack", string(debug.Stack()))
				logger.Error("Mirror handler panicked", attrs...)

				writeResult(w, http.StatusInternalServerError, api.ResultServerError, "")
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// callerFor ищет вызывающего пира сначала в контексте запроса, затем в trace,
// куда его записывает PeerAuthMiddleware, работающий глубже по цепочке.
func callerFor(ctx context.Context) string {
	if caller, ok := handlers.GetCallerID(ctx); ok {
		return caller
	}
	if tr := traceFrom(ctx); tr != nil {
		return tr.caller
	}
	return ""
}

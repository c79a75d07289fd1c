package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/pkg/api"
)

// trace накапливает сведения о запросе, которые становятся известны
// только во внутренних слоях (например, кто из пиров вызывает).
type trace struct {
	id     string
	caller string
}

type traceKey struct{}

func traceFrom(ctx context.Context) *trace {
	tr, _ := ctx.Value(traceKey{}).(*trace)
	return tr
}

// GetRequestID returns the request id assigned by LoggingMiddleware.
func GetRequestID(ctx context.Context) string {
	if tr := traceFrom(ctx); tr != nil {
		return tr.id
	}
	return ""
}

// noteCaller records the authenticated peer for the access log.
func noteCaller(ctx context.Context, callerID string) {
	if tr := traceFrom(ctx); tr != nil {
		tr.caller = callerID
	}
}

// statusRecorder запоминает код ответа и объём тела.
// Учитывается только первый код: после начала тела ответ уже ушёл клиенту.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.wroteHeader {
		return
	}
	sr.wroteHeader = true
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.wroteHeader {
		sr.wroteHeader = true
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// LoggingMiddleware пишет одну строку access-лога на запрос.
// Request id берётся из X-Request-ID, если это корректный UUID, иначе генерируется.
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()

			tr := &trace{id: r.Header.Get(api.HeaderRequestID)}
			if _, err := uuid.Parse(tr.id); err != nil {
				tr.id = uuid.NewString()
			}
			w.Header().Set(api.HeaderRequestID, tr.id)
			ctx := context.WithValue(r.Context(), traceKey{}, tr)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			attrs := []slog.Attr{
				slog.String("request_id", tr.id),
				slog.String("method", r.Method),
				slog.String("path", sanitizePath(r.URL.Path)),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
				slog.Int("status", rec.status),
				slog.Int64("duration_ms", time.Since(started).Milliseconds()),
				slog.Int64("bytes_written", rec.bytes),
			}
			if tr.caller != "" {
				attrs = append(attrs, slog.String("caller", models.PublicCode(tr.caller)))
			}
			logger.LogAttrs(ctx, levelFor(rec.status), "HTTP request", attrs...)
		})
	}
}

// sanitizePath сокращает account id в путях зеркалирования до публичного кода:
// /api/v1/mirror/accounts/<ключ>/available -> /api/v1/mirror/accounts/<код>…/available
func sanitizePath(path string) string {
	const marker = "/mirror/accounts/"

	head, rest, found := strings.Cut(path, marker)
	if !found || rest == "" {
		return path
	}
	account, tail, more := strings.Cut(rest, "/")
	if more {
		tail = "/" + tail
	}
	return head + marker + models.PublicCode(account) + tail
}

// LoggingWithSkip не пишет access-лог для перечисленных путей (health probes).
func LoggingWithSkip(logger *slog.Logger, skipPaths []string) func(http.Handler) http.Handler {
	quiet := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		quiet[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		logged := LoggingMiddleware(logger)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := quiet[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			logged.ServeHTTP(w, r)
		})
	}
}

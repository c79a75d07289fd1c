package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/server/handlers"
	"github.com/iudanet/bulletinmirror/pkg/api"
)

// RateLimiter - token bucket на каждый ключ (пир или IP).
// Ведро вмещает rate токенов и пополняется непрерывно: rate токенов за window.
type RateLimiter struct {
	now     func() time.Time
	buckets map[string]*bucket
	logger  *slog.Logger
	done    chan struct{}
	stop    sync.Once
	window  time.Duration
	burst   float64
	perSec  float64
	mu      sync.Mutex
}

type bucket struct {
	seen   time.Time
	tokens float64
}

// NewRateLimiter создает limiter на rate запросов за window и запускает
// фоновую очистку простаивающих ключей. Stop обязателен.
func NewRateLimiter(rate int, window time.Duration, logger *slog.Logger) *RateLimiter {
	if rate <= 0 {
		rate = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	rl := &RateLimiter{
		now:     time.Now,
		buckets: make(map[string]*bucket),
		logger:  logger,
		done:    make(chan struct{}),
		window:  window,
		burst:   float64(rate),
		perSec:  float64(rate) / window.Seconds(),
	}
	go rl.sweepLoop()
	return rl
}

// Allow reports whether one more request for key fits into its bucket.
func (rl *RateLimiter) Allow(key string) bool {
	ok, _ := rl.take(key)
	return ok
}

// take забирает токен; при отказе возвращает время до появления следующего
func (rl *RateLimiter) take(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.burst, seen: now}
		rl.buckets[key] = b
	}

	if elapsed := now.Sub(b.seen); elapsed > 0 {
		b.tokens = math.Min(rl.burst, b.tokens+elapsed.Seconds()*rl.perSec)
	}
	b.seen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	wait := time.Duration((1 - b.tokens) / rl.perSec * float64(time.Second))
	return false, wait
}

// sweep удаляет ключи, не обращавшиеся дольше window: их ведро уже полное
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.seen) >= rl.window {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.done:
			return
		}
	}
}

// Stop останавливает фоновую очистку. Повторный вызов безопасен.
func (rl *RateLimiter) Stop() {
	rl.stop.Do(func() {
		close(rl.done)
	})
}

// RateLimitMiddleware ограничивает частоту запросов каждого пира.
// Ключ - публичный ключ вызывающего (после PeerAuthMiddleware), иначе IP адрес.
// Превышение лимита отвечает NO_SERVER: пир повторит запрос в следующем цикле.
func RateLimitMiddleware(limiter *RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			callerID, isPeer := handlers.GetCallerID(r.Context())
			key := "ip:" + clientIP(r)
			if isPeer {
				key = "peer:" + callerID
			}

			ok, wait := limiter.take(key)
			if !ok {
				logger.Warn("Rate limit exceeded",
					"caller", models.PublicCode(callerID),
					"ip", clientIP(r),
					"path", sanitizePath(r.URL.Path),
					"retry_after", wait,
				)

				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				writeResult(w, http.StatusTooManyRequests, api.ResultNoServer, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP возвращает адрес клиента без порта; первый адрес X-Forwarded-For,
// если сервер стоит за прокси
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/bulletinmirror/internal/mirror"
	"github.com/iudanet/bulletinmirror/internal/server/storage"
	"github.com/iudanet/bulletinmirror/pkg/api"
)

// StatsProvider возвращает счётчики локального хранилища
type StatsProvider interface {
	Stats(ctx context.Context) (*storage.Stats, error)
}

// StatusProvider возвращает состояние движков зеркалирования
type StatusProvider interface {
	Statuses() []mirror.Status
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger   *slog.Logger
	stats    StatsProvider
	engines  StatusProvider
	version  string
	serverID string
}

// NewHealthHandler создает новый handler для health check.
// stats и engines могут быть nil.
func NewHealthHandler(logger *slog.Logger, version, serverID string, stats StatsProvider, engines StatusProvider) *HealthHandler {
	return &HealthHandler{
		logger:   logger,
		stats:    stats,
		engines:  engines,
		version:  version,
		serverID: serverID,
	}
}

// Health обрабатывает GET /api/v1/health
// Health check endpoint для мониторинга
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		Status:  "ok",
		Version: h.version,
		Server:  h.serverID,
	}
	status := http.StatusOK

	if h.stats != nil {
		stats, err := h.stats.Stats(r.Context())
		if err != nil {
			// Хранилище недоступно - сервер не может обслуживать пиров
			h.logger.Error("Health check: storage unavailable", "error", err)
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			resp.Stats = &api.StoreStats{
				Accounts:   stats.Accounts,
				Drafts:     stats.Drafts,
				Sealed:     stats.Sealed,
				Tombstones: stats.Tombstones,
				Hidden:     stats.Hidden,
			}
		}
	}

	if h.engines != nil {
		for _, s := range h.engines.Statuses() {
			es := api.EngineStatus{
				PeerID:          s.PeerID,
				State:           s.State.String(),
				Capability:      s.Capability.String(),
				CurrentAccount:  s.CurrentAccount,
				PendingAccounts: s.PendingAccounts,
				PendingItems:    s.PendingItems,
				Pulled:          s.Pulled,
				Failed:          s.Failed,
			}
			if !s.SleepUntil.IsZero() {
				es.SleepUntil = s.SleepUntil.UTC().Format(time.RFC3339)
			}
			resp.Engines = append(resp.Engines, es)
		}
	}

	writeJSON(w, h.logger, status, resp)
}

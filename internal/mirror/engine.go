package mirror

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/iudanet/bulletinmirror/internal/crypto"
	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/server/storage"
	"github.com/iudanet/bulletinmirror/internal/transfer"
)

// DefaultInactiveSleep - пауза после цикла, в котором не нашлось работы
const DefaultInactiveSleep = 15 * time.Minute

// State is the current phase of an Engine.
type State int

const (
	// StateIdle - ждём sleepUntil, RPC не выполняются
	StateIdle State = iota
	// StateFetchingAccountList - запрашиваем список аккаунтов
	StateFetchingAccountList
	// StateDrainingAccount - разбираем очередь документов аккаунта
	StateDrainingAccount
	// StateFetchingItem - загружаем один документ
	StateFetchingItem
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetchingAccountList:
		return "fetching-account-list"
	case StateDrainingAccount:
		return "draining-account"
	case StateFetchingItem:
		return "fetching-item"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Config holds per-peer engine settings.
type Config struct {
	// Now возвращает текущее время; nil означает time.Now
	Now func() time.Time
	// PeerID имя пира для логов и журнала
	PeerID string
	// PeerPublicKey ожидаемый ключ поставщика; если задан, подпись заголовка обязательна
	PeerPublicKey string
	// TempDir каталог для частично загруженных документов
	TempDir string
	// InactiveSleep пауза после цикла без работы
	InactiveSleep time.Duration
	// RequestTimeout ограничивает каждый отдельный вызов поставщика
	RequestTimeout time.Duration
	// MaxChunkSize максимальный размер запрашиваемой части
	MaxChunkSize int64
}

// Status is a snapshot of engine progress.
type Status struct {
	SleepUntil      time.Time  `json:"sleep_until"`
	PeerID          string     `json:"peer_id"`
	CurrentAccount  string     `json:"current_account,omitempty"`
	State           State      `json:"state"`
	Capability      Capability `json:"capability"`
	PendingAccounts int        `json:"pending_accounts"`
	PendingItems    int        `json:"pending_items"`
	Pulled          int64      `json:"pulled"`
	Failed          int64      `json:"failed"`
}

// Engine pulls bulletins from one supplier, one unit of work per Tick.
//
// Состояние принадлежит только Tick; повторный вход запрещён флагом ticking.
// Status читает опубликованный снимок и безопасен из любых горутин.
type Engine struct {
	gateway Gateway
	store   Store
	journal Journal
	fetcher *transfer.Fetcher
	logger  *slog.Logger
	status  atomic.Pointer[Status]
	now     func() time.Time

	sleepUntil      time.Time
	cfg             Config
	currentAccount  string
	pendingAccounts []string
	pendingItems    []models.MirroringInfo
	pulled          int64
	failed          int64
	state           State
	capability      Capability
	ticking         atomic.Bool
	sleepPending    bool
}

// NewEngine creates an engine for one outbound peer. journal may be nil.
func NewEngine(cfg Config, gateway Gateway, store Store, journal Journal, logger *slog.Logger) (*Engine, error) {
	if cfg.TempDir == "" {
		return nil, fmt.Errorf("temp dir is required")
	}
	if err := os.MkdirAll(cfg.TempDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	if cfg.InactiveSleep <= 0 {
		cfg.InactiveSleep = DefaultInactiveSleep
	}
	if cfg.MaxChunkSize <= 0 {
		cfg.MaxChunkSize = transfer.DefaultMaxChunkSize
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger = logger.With("component", "mirror", "peer", cfg.PeerID)

	e := &Engine{
		cfg:     cfg,
		gateway: gateway,
		store:   store,
		journal: journal,
		fetcher: transfer.NewFetcher(logger, cfg.MaxChunkSize),
		logger:  logger,
		now:     now,
	}
	e.publishStatus()
	return e, nil
}

// PeerID returns the configured peer name.
func (e *Engine) PeerID() string {
	return e.cfg.PeerID
}

// Status returns the latest published snapshot.
func (e *Engine) Status() Status {
	return *e.status.Load()
}

// Tick performs at most one unit of work: an account list refresh, an item
// list refresh for one account, or one item pull. Tick never panics on
// supplier or storage failures and never returns them.
func (e *Engine) Tick(ctx context.Context) {
	if !e.ticking.CompareAndSwap(false, true) {
		e.logger.Warn("Tick skipped: previous tick still running")
		return
	}
	defer e.ticking.Store(false)
	defer e.publishStatus()

	switch {
	case len(e.pendingItems) > 0:
		item := e.pendingItems[0]
		e.pendingItems = e.pendingItems[1:]
		// найдена работа: следующий пустой цикл не уходит в сон
		e.sleepPending = false

		e.state = StateFetchingItem
		e.publishStatus()
		e.pullItem(ctx, item)
		e.state = StateDrainingAccount

	case len(e.pendingAccounts) > 0:
		account := e.pendingAccounts[0]
		e.pendingAccounts = e.pendingAccounts[1:]

		e.state = StateDrainingAccount
		e.currentAccount = account
		e.refreshItems(ctx, account)

	default:
		e.currentAccount = ""
		now := e.now()

		if e.sleepPending {
			e.enterIdle(now, "no work found")
			return
		}
		if now.Before(e.sleepUntil) {
			e.state = StateIdle
			return
		}
		e.refreshAccounts(ctx, now)
	}
}

// enterIdle переводит движок в Idle до now+InactiveSleep
func (e *Engine) enterIdle(now time.Time, reason string) {
	e.sleepPending = false
	e.state = StateIdle
	e.sleepUntil = now.Add(e.cfg.InactiveSleep)
	e.logger.Debug("Mirroring idle",
		"reason", reason,
		"sleep_until", e.sleepUntil,
	)
}

// refreshAccounts запрашивает список аккаунтов и заново определяет возможности поставщика
func (e *Engine) refreshAccounts(ctx context.Context, now time.Time) {
	e.state = StateFetchingAccountList
	e.publishStatus()
	e.capability = CapabilityRich

	rctx, cancel := e.requestContext(ctx)
	accounts, err := e.gateway.ListAccounts(rctx)
	cancel()
	if err != nil {
		e.logFailure("Failed to list accounts", err)
		e.enterIdle(now, "account list unavailable")
		return
	}
	if len(accounts) == 0 {
		e.enterIdle(now, "supplier has no accounts")
		return
	}

	e.logger.Debug("Accounts to mirror", "count", len(accounts))
	e.pendingAccounts = accounts
	e.sleepPending = true
	e.state = StateDrainingAccount
}

// refreshItems получает документы аккаунта и оставляет в очереди только нужные
func (e *Engine) refreshItems(ctx context.Context, account string) {
	items, err := e.listItems(ctx, account)
	if err != nil {
		e.logFailure("Failed to list items", err, "account", models.PublicCode(account))
		return
	}

	wanted := make([]models.MirroringInfo, 0, len(items))
	for _, item := range items {
		if d, ok := e.decide(ctx, account, item); ok && d.Wanted {
			wanted = append(wanted, item)
		}
	}

	e.logger.Debug("Items to mirror",
		"account", models.PublicCode(account),
		"offered", len(items),
		"wanted", len(wanted),
		"capability", e.capability.String(),
	)
	e.pendingItems = wanted
}

// listItems вызывает полное перечисление, а при ErrUnsupported - legacy-вызов
func (e *Engine) listItems(ctx context.Context, account string) ([]models.MirroringInfo, error) {
	if e.capability == CapabilityRich {
		rctx, cancel := e.requestContext(ctx)
		items, err := e.gateway.ListAvailableItems(rctx, account)
		cancel()
		if !errors.Is(err, ErrUnsupported) {
			return items, err
		}
		e.logger.Info("Supplier does not support full enumeration, using sealed-only listing")
		e.capability = CapabilityLegacySealedOnly
	}

	rctx, cancel := e.requestContext(ctx)
	defer cancel()
	legacy, err := e.gateway.ListBulletinsForMirroring(rctx, account)
	if err != nil {
		return nil, err
	}

	items := make([]models.MirroringInfo, 0, len(legacy))
	for _, l := range legacy {
		items = append(items, l.ToMirroringInfo(account))
	}
	return items, nil
}

// decide применяет правила выбора к кандидату. ok=false означает, что
// решение принять не удалось (ошибка уже залогирована).
func (e *Engine) decide(ctx context.Context, account string, item models.MirroringInfo) (Decision, bool) {
	if item.UID.AccountID != account {
		e.logger.Warn("Supplier offered item outside requested account",
			"account", models.PublicCode(account),
			"item", item.UID.String(),
		)
		return Decision{Reason: ReasonForeignAccount}, true
	}
	if err := item.UID.Validate(); err != nil {
		e.logger.Warn("Supplier offered invalid item id", "item", item.UID.String(), "error", err)
		return Decision{Reason: ReasonInvalidIdentity}, true
	}

	view, err := e.store.LocalView(ctx, item.UID)
	if err != nil {
		e.failed++
		e.logger.Error("Failed to read local state, skipping item",
			"item", item.UID.String(),
			"error", err,
		)
		return Decision{}, false
	}
	return Want(view, item), true
}

// pullItem загружает один документ и фиксирует его локально
func (e *Engine) pullItem(ctx context.Context, item models.MirroringInfo) {
	uid := item.UID
	log := e.logger.With("item", uid.String(), "status", item.Status.String())

	// локальное состояние могло измениться после постановки в очередь
	d, ok := e.decide(ctx, uid.AccountID, item)
	if !ok {
		return
	}
	if !d.Wanted {
		log.Debug("Item no longer wanted", "reason", d.Reason)
		return
	}

	rctx, cancel := e.requestContext(ctx)
	receipt, err := e.gateway.GetUploadRecord(rctx, uid)
	cancel()
	if errors.Is(err, ErrNotFound) || (err == nil && receipt.IsEmpty()) {
		log.Debug("Upload record not available yet, skipping")
		return
	}
	if err != nil {
		e.logFailure("Failed to get upload record", err, "item", uid.String())
		return
	}

	path := filepath.Join(e.cfg.TempDir, e.tempName(uid))
	total, err := e.fetcher.FetchFile(ctx, e.chunkSource(uid), path)
	if err != nil {
		e.logFailure("Failed to fetch bulletin", err, "item", uid.String())
		return
	}
	defer os.Remove(path)

	payload, err := os.ReadFile(path)
	if err != nil {
		e.failed++
		log.Error("Failed to read downloaded bulletin", "error", err)
		return
	}

	b := models.NewBulletin(uid, item.Status, item.ModifiedMillis, payload)
	if err := e.verify(item, b); err != nil {
		e.failed++
		log.Warn("Downloaded bulletin failed verification", "error", err)
		return
	}

	if err := e.store.CommitMirrored(ctx, b, payload, receipt, d.DropTombstone); err != nil {
		switch {
		case errors.Is(err, storage.ErrSealedExists),
			errors.Is(err, storage.ErrStaleDraft),
			errors.Is(err, storage.ErrTombstoned),
			errors.Is(err, storage.ErrRecordHidden):
			log.Debug("Local state changed during pull, item discarded", "error", err)
		default:
			e.failed++
			log.Error("Failed to commit mirrored bulletin", "error", err)
		}
		return
	}

	e.pulled++
	log.Info("Bulletin mirrored",
		"size", total,
		"tombstone_dropped", d.DropTombstone,
	)

	if e.journal != nil {
		rec := &models.PullRecord{
			PulledAt: e.now(),
			PeerID:   e.cfg.PeerID,
			UID:      uid,
			Status:   item.Status,
			Size:     total,
		}
		if err := e.journal.RecordPull(ctx, rec); err != nil {
			log.Warn("Failed to record pull", "error", err)
		}
	}
}

// verify проверяет подпись заголовка ключом пира, если он известен
func (e *Engine) verify(item models.MirroringInfo, b *models.Bulletin) error {
	if e.cfg.PeerPublicKey == "" {
		return nil
	}
	if len(item.HeaderSignature) == 0 {
		return fmt.Errorf("%w: missing header signature", transfer.ErrIntegrity)
	}
	if err := crypto.VerifyHeader(e.cfg.PeerPublicKey, b.UID, b.Status, b.PayloadDigest, item.HeaderSignature); err != nil {
		return fmt.Errorf("%w: %w", transfer.ErrIntegrity, err)
	}
	return nil
}

// chunkSource привязывает запросы частей к одному документу
func (e *Engine) chunkSource(uid models.UniversalID) transfer.Source {
	return transfer.SourceFunc(func(ctx context.Context, offset, maxSize int64) (*transfer.Chunk, error) {
		rctx, cancel := e.requestContext(ctx)
		defer cancel()
		return e.gateway.GetChunk(rctx, uid, offset, maxSize)
	})
}

// tempName детерминирован для пары (пир, документ), чтобы загрузку можно было продолжить
func (e *Engine) tempName(uid models.UniversalID) string {
	key := append([]byte(e.cfg.PeerID+"\x00"), uid.Key()...)
	return hex.EncodeToString(crypto.Digest(key)[:16])
}

func (e *Engine) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.cfg.RequestTimeout)
}

// logFailure логирует ошибку с уровнем по её категории
func (e *Engine) logFailure(msg string, err error, args ...any) {
	args = append(args, "error", err)

	switch {
	case errors.Is(err, ErrServerUnavailable):
		// недоступный поставщик - штатная ситуация, повторим в следующем цикле
		e.logger.Info(msg, args...)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		e.logger.Info(msg, args...)
	case errors.Is(err, ErrNotAuthorized):
		e.failed++
		e.logger.Warn(msg, args...)
	case errors.Is(err, transfer.ErrIntegrity), errors.Is(err, transfer.ErrSizeMismatch),
		errors.Is(err, ErrMalformedResponse):
		e.failed++
		e.logger.Warn(msg, args...)
	default:
		e.failed++
		e.logger.Error(msg, args...)
	}
}

func (e *Engine) publishStatus() {
	e.status.Store(&Status{
		PeerID:          e.cfg.PeerID,
		State:           e.state,
		Capability:      e.capability,
		CurrentAccount:  e.currentAccount,
		PendingAccounts: len(e.pendingAccounts),
		PendingItems:    len(e.pendingItems),
		SleepUntil:      e.sleepUntil,
		Pulled:          e.pulled,
		Failed:          e.failed,
	})
}

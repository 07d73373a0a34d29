package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tna-cash/treatsend/pkg/bus"
	"github.com/tna-cash/treatsend/pkg/config"
	"github.com/tna-cash/treatsend/pkg/logger"
	"github.com/tna-cash/treatsend/pkg/pipeline"
	"github.com/tna-cash/treatsend/pkg/relay"
	"github.com/tna-cash/treatsend/pkg/storage"
	"github.com/tna-cash/treatsend/pkg/storage/repository"
	"github.com/tna-cash/treatsend/pkg/task"
	"github.com/tna-cash/treatsend/pkg/wallet"
)

// ErrNoWallet is returned when a batch is requested before a mnemonic
// has been loaded in this session.
var ErrNoWallet = errors.New("no wallet loaded")

// App owns the session-scoped state: the config, the event bus, the
// batch history storage, the single relay session, and (after a
// mnemonic load) the wallet. The relay session is created once at
// startup, reused across batches, and reconnected on demand.
type App struct {
	cfg     *config.Config
	events  *bus.EventBus
	store   storage.Storage
	session *relay.Session

	mu     sync.RWMutex
	wallet *wallet.Wallet
}

// New assembles an app from the loaded configuration.
func New(cfg *config.Config) (*App, error) {
	sc := cfg.StorageSettings()
	storeCfg := storage.DefaultConfig(sc.Type)
	storeCfg.FilePath = cfg.WorkspacePath()
	storeCfg.DatabaseURL = sc.DatabaseURL
	storeCfg.SSLEnabled = sc.SSLEnabled

	store, err := storage.NewStorage(storeCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	events := bus.NewEventBus()

	return &App{
		cfg:     cfg,
		events:  events,
		store:   store,
		session: relay.NewSession(cfg.RelayURL(), events),
	}, nil
}

// Start connects the batch history storage. The relay is connected
// lazily by the first batch (or explicitly via ConnectRelay).
func (a *App) Start(ctx context.Context) error {
	if err := a.store.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect storage: %w", err)
	}
	return nil
}

func (a *App) Config() *config.Config { return a.cfg }

func (a *App) Events() *bus.EventBus { return a.events }

func (a *App) Session() *relay.Session { return a.session }

func (a *App) Batches() repository.BatchRepository { return a.store.Batches() }

// LoadWallet derives the session wallet from a mnemonic. The previous
// wallet, if any, is replaced; the mnemonic itself is not retained.
func (a *App) LoadWallet(mnemonic string) (*wallet.Wallet, error) {
	w, err := wallet.Load(mnemonic)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.wallet = w
	a.mu.Unlock()

	a.events.Publish(bus.Event{
		Type: bus.EventWalletLoaded,
		Npub: w.Npub,
	})
	return w, nil
}

// Wallet returns the loaded session wallet, or nil.
func (a *App) Wallet() *wallet.Wallet {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.wallet
}

// ConnectRelay (re)establishes the relay session connection.
func (a *App) ConnectRelay(ctx context.Context) error {
	return a.session.Connect(ctx)
}

// RelayStatus returns the observed session connection state.
func (a *App) RelayStatus() bus.RelayStatus {
	return bus.RelayStatus{
		URL:       a.session.URL(),
		Connected: a.session.IsConnected(),
	}
}

// RunBatch parses the raw task text and runs the transfer pipeline
// over it, returning the persisted batch record. A parse error or a
// relay connect failure aborts before any receipt is produced.
func (a *App) RunBatch(ctx context.Context, taskText string) (*repository.BatchRecord, error) {
	w := a.Wallet()
	if w == nil {
		return nil, ErrNoWallet
	}

	tasks, err := task.Parse(taskText)
	if err != nil {
		return nil, fmt.Errorf("task parse failed: %w", err)
	}
	if len(tasks) == 0 {
		return nil, errors.New("no tasks to transfer")
	}

	transfer := a.cfg.TransferSettings()
	p, err := pipeline.New(w, a.session, transfer.RecipientNpub, transfer.RoutingTag, a.events)
	if err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	startedAt := time.Now()

	receipts, err := p.Run(ctx, batchID, tasks)
	if err != nil {
		return nil, err
	}

	record := &repository.BatchRecord{
		ID:          batchID,
		RelayURL:    a.session.URL(),
		SenderNpub:  w.Npub,
		StartedAt:   startedAt,
		CompletedAt: time.Now(),
		Receipts:    receipts,
	}

	if err := a.store.Batches().Save(ctx, record); err != nil {
		// History is best-effort: the caller still gets the receipts.
		logger.WarnCF("app", "Failed to persist batch history", map[string]interface{}{
			"batch_id": batchID,
			"error":    err.Error(),
		})
	}

	return record, nil
}

// Close releases the relay connection and storage.
func (a *App) Close() {
	a.session.Close()
	if err := a.store.Close(); err != nil {
		logger.WarnCF("app", "Failed to close storage", map[string]interface{}{
			"error": err.Error(),
		})
	}
	a.events.Close()
}

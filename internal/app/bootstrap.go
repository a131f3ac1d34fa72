// Package app wires configuration, logging, storage and the trading
// session into a runnable process.
package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/praizykolluri46/binance-bot/internal/infra"
	"github.com/praizykolluri46/binance-bot/internal/storage"
	"github.com/praizykolluri46/binance-bot/internal/trading"
)

// Bootstrap orchestrates the application startup sequence.
type Bootstrap struct {
	Config  *infra.Config
	Journal *storage.OrderJournal
	Session *trading.Session

	unlock    func()
	closeLogs func() error
}

// NewBootstrap creates an empty Bootstrap; call Initialize next.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads configuration, sets up logging and storage, and opens
// the trading session. configPath may be empty, in which case the standard
// locations are searched. On failure everything acquired so far is
// released, including the instance lock, so a retry is not refused.
func (b *Bootstrap) Initialize(configPath string) (err error) {
	defer func() {
		if err != nil {
			b.Shutdown()
		}
	}()

	// .env is optional; real deployments export variables directly.
	_ = godotenv.Load()

	if configPath == "" {
		configPath = infra.ResolveConfigPath()
	}
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	// Data isolation per mode: _workspace/data/{mode}, _workspace/logs/{mode}.
	mode := strings.ToLower(cfg.Trading.Mode)
	workDir := infra.GetWorkspaceDir()
	dataDir := filepath.Join(workDir, "data", mode)
	logDir := filepath.Join(workDir, "logs", mode)

	if err := infra.EnsureDir(dataDir); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger, closeLogs, err := infra.NewLogger(cfg, logDir)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	b.closeLogs = closeLogs

	slog.Info("🚀 Bootstrapping binance-bot", "mode", cfg.Trading.Mode, "config", configPath)

	// One process per workspace, or the journal DB gets corrupted.
	unlock, err := infra.CreateLockFile(workDir)
	if err != nil {
		return err
	}
	b.unlock = unlock

	var journal trading.Recorder
	if cfg.Journal.Enabled {
		dbPath := filepath.Join(dataDir, "orders.db")
		j, err := storage.NewOrderJournal(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open order journal: %w", err)
		}
		b.Journal = j
		journal = j
		slog.Info("✅ Order journal ready (WAL-mode)", "path", dbPath)
	}

	session, err := trading.NewSession(cfg, journal)
	if err != nil {
		return err
	}
	b.Session = session
	slog.Info("✅ Trading session ready", "mode", session.Mode)

	return nil
}

// Shutdown releases everything Initialize acquired, in reverse order.
func (b *Bootstrap) Shutdown() {
	if b.Session != nil {
		b.Session.Close()
	}
	if b.Journal != nil {
		if err := b.Journal.Close(); err != nil {
			slog.Warn("failed to close journal", "err", err)
		}
	}
	if b.unlock != nil {
		b.unlock()
	}
	if b.closeLogs != nil {
		b.closeLogs()
	}
}

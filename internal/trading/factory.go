package trading

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"github.com/praizykolluri46/binance-bot/internal/infra"
	"github.com/praizykolluri46/binance-bot/internal/infra/binance"
)

// Session bundles the order pipeline for one configured venue: gateway,
// builder and closer wired for the trading mode. One logical session owns
// the underlying client; it is not safe for unsynchronized concurrent use.
type Session struct {
	Mode    string
	Gateway Gateway
	Builder *Builder
	Closer  *Closer

	// WSURL is the mark-price stream base; empty in dry-run mode.
	WSURL string

	client *binance.Client
}

// NewSession creates the session for cfg's trading mode. journal may be
// nil. REAL mode refuses to start without the CONFIRM_REAL_MONEY=true
// environment latch.
func NewSession(cfg *infra.Config, journal Recorder) (*Session, error) {
	mode := cfg.Trading.Mode
	slog.Info("initializing trading session", "mode", mode)

	if mode == infra.ModeDryRun {
		gateway := NewDryRunGateway(decimal.NewFromInt(10_000))
		builder := NewBuilder(StaticRules{})
		return &Session{
			Mode:    mode,
			Gateway: gateway,
			Builder: builder,
			Closer:  NewCloser(gateway, builder),
		}, nil
	}

	if !cfg.HasCredentials() {
		return nil, fmt.Errorf("mode %s requires API credentials", mode)
	}

	testnet := mode == infra.ModeTestnet
	if mode == infra.ModeReal {
		if os.Getenv("CONFIRM_REAL_MONEY") != "true" {
			return nil, fmt.Errorf("real trading requires CONFIRM_REAL_MONEY=true in the environment")
		}
		slog.Warn("connecting to Binance MAINNET with real funds")
	}

	client := binance.NewClient(
		cfg.API.Binance.APIKey,
		cfg.API.Binance.APISecret,
		cfg.API.Binance.RestURL,
		testnet,
	)
	client.SetRecvWindow(cfg.API.Binance.RecvWindowMS)

	gateway := NewExchangeGateway(client, journal)
	builder := NewBuilder(NewRulesProvider(client))

	wsURL := cfg.API.Binance.WSURL
	if wsURL == "" {
		wsURL = binance.MainnetWSURL
		if testnet {
			wsURL = binance.TestnetWSURL
		}
	}

	return &Session{
		Mode:    mode,
		Gateway: gateway,
		Builder: builder,
		Closer:  NewCloser(gateway, builder),
		WSURL:   wsURL,
		client:  client,
	}, nil
}

// Close wipes credentials held by the live client.
func (s *Session) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

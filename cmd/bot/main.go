package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/praizykolluri46/binance-bot/internal/app"
	"github.com/praizykolluri46/binance-bot/internal/cli"
	"github.com/praizykolluri46/binance-bot/internal/infra"
)

func main() {
	os.Exit(run())
}

func run() int {
	var args cli.OneShotArgs
	configPath := flag.String("config", "", "path to config.yaml (default: standard locations)")
	flag.StringVar(&args.Symbol, "symbol", "", "trading symbol, e.g. BTCUSDT")
	flag.StringVar(&args.Side, "side", "", "BUY or SELL")
	flag.StringVar(&args.Type, "type", "MARKET", "MARKET, LIMIT or STOP_LIMIT")
	flag.StringVar(&args.Quantity, "quantity", "", "order quantity (placing an order)")
	flag.StringVar(&args.Price, "price", "", "limit price")
	flag.StringVar(&args.StopPrice, "stop-price", "", "stop trigger price")
	flag.StringVar(&args.TimeInForce, "tif", "", "GTC, IOC or FOK (default GTC)")
	flag.BoolVar(&args.ReduceOnly, "reduce-only", false, "only reduce an existing position")
	flag.BoolVar(&args.ShowBalance, "balance", false, "print nonzero balances and exit")
	flag.BoolVar(&args.ShowOpenOrders, "open-orders", false, "print open orders and exit")
	flag.BoolVar(&args.ClosePositions, "close-positions", false, "close positions and exit (all, or -symbol's)")
	flag.Parse()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		return 1
	}
	defer bootstrap.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if args.WantsOneShot() {
		if err := cli.RunOneShot(ctx, bootstrap.Session, args); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return 1
		}
		return 0
	}

	infra.PrintBanner(bootstrap.Config)

	var history cli.OrderHistory
	if bootstrap.Journal != nil {
		history = bootstrap.Journal
	}

	menu := cli.NewMenu(bootstrap.Session, history)
	if err := menu.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("menu loop failed", slog.Any("error", err))
		return 1
	}

	slog.Info("👋 Shutting down gracefully...")
	return 0
}

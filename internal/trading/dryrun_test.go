package trading

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/praizykolluri46/binance-bot/internal/domain"
)

func TestDryRun_MarketOrderFillsAndMovesPosition(t *testing.T) {
	g := NewDryRunGateway(decimal.NewFromInt(10_000))
	ctx := context.Background()

	result, err := g.Submit(ctx, domain.OrderRequest{
		Symbol: "BTCUSDT", Side: domain.SideBuy, Type: "MARKET", Quantity: d("0.5"),
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Status != domain.StatusFilled {
		t.Errorf("market order should fill immediately, got %s", result.Status)
	}
	if !result.ExecutedQty.Equal(d("0.5")) {
		t.Errorf("executedQty = %s, want 0.5", result.ExecutedQty)
	}

	pos, err := g.Position(ctx, "BTCUSDT")
	if err != nil {
		t.Fatalf("Position failed: %v", err)
	}
	if pos == nil || !pos.Amount.Equal(d("0.5")) {
		t.Fatalf("expected 0.5 long position, got %+v", pos)
	}
}

func TestDryRun_LimitOrderRestsUntilCancelled(t *testing.T) {
	g := NewDryRunGateway(decimal.NewFromInt(10_000))
	ctx := context.Background()

	result, err := g.Submit(ctx, domain.OrderRequest{
		Symbol: "BTCUSDT", Side: domain.SideBuy, Type: "LIMIT",
		Quantity: d("0.1"), Price: d("50000"), TimeInForce: domain.TIFGoodTillCancel,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Status != domain.StatusNew {
		t.Errorf("limit order should rest, got %s", result.Status)
	}

	open, err := g.OpenOrders(ctx, "BTCUSDT")
	if err != nil {
		t.Fatalf("OpenOrders failed: %v", err)
	}
	if len(open) != 1 || open[0].OrderID != result.OrderID {
		t.Fatalf("expected one resting order, got %+v", open)
	}

	cancelled, err := g.Cancel(ctx, "BTCUSDT", result.OrderID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != domain.StatusCanceled {
		t.Errorf("status = %s, want CANCELED", cancelled.Status)
	}

	open, _ = g.OpenOrders(ctx, "BTCUSDT")
	if len(open) != 0 {
		t.Errorf("cancelled order should not be open, got %+v", open)
	}
}

func TestDryRun_UnknownOrderErrors(t *testing.T) {
	g := NewDryRunGateway(decimal.NewFromInt(10_000))
	ctx := context.Background()

	_, err := g.Cancel(ctx, "BTCUSDT", 999)
	var gErr *GatewayError
	if !errors.As(err, &gErr) || gErr.Code != -2011 {
		t.Errorf("cancel of unknown order should return -2011, got %v", err)
	}

	_, err = g.Status(ctx, "BTCUSDT", 999)
	if !errors.As(err, &gErr) || gErr.Code != -2013 {
		t.Errorf("status of unknown order should return -2013, got %v", err)
	}
}

func TestDryRun_ReduceOnlyNeverFlips(t *testing.T) {
	g := NewDryRunGateway(decimal.NewFromInt(10_000))
	ctx := context.Background()

	if err := g.SeedPosition("ETHUSDT", d("1"), d("3000")); err != nil {
		t.Fatal(err)
	}

	// Selling more than the position holds, reduce-only: clamps to flat.
	_, err := g.Submit(ctx, domain.OrderRequest{
		Symbol: "ETHUSDT", Side: domain.SideSell, Type: "MARKET",
		Quantity: d("5"), ReduceOnly: true,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	pos, err := g.Position(ctx, "ETHUSDT")
	if err != nil {
		t.Fatalf("Position failed: %v", err)
	}
	if pos != nil {
		t.Errorf("reduce-only overshoot should flatten, not flip: %+v", pos)
	}
}

func TestDryRun_ReduceOnlyWithoutPositionIsNoop(t *testing.T) {
	g := NewDryRunGateway(decimal.NewFromInt(10_000))
	ctx := context.Background()

	_, err := g.Submit(ctx, domain.OrderRequest{
		Symbol: "BTCUSDT", Side: domain.SideSell, Type: "MARKET",
		Quantity: d("1"), ReduceOnly: true,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	pos, _ := g.Position(ctx, "BTCUSDT")
	if pos != nil {
		t.Errorf("reduce-only fill with no position should not open one: %+v", pos)
	}
}

func TestDryRun_BalancesReportVirtualWallet(t *testing.T) {
	g := NewDryRunGateway(d("2500.75"))

	balances, err := g.Balances(context.Background())
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	usdt, ok := balances["USDT"]
	if !ok || !usdt.WalletBalance.Equal(d("2500.75")) {
		t.Errorf("unexpected balances: %+v", balances)
	}
}

func TestDryRun_OppositeFillsNetOut(t *testing.T) {
	g := NewDryRunGateway(decimal.NewFromInt(10_000))
	ctx := context.Background()

	g.Submit(ctx, domain.OrderRequest{Symbol: "BTCUSDT", Side: domain.SideBuy, Type: "MARKET", Quantity: d("0.3")})
	g.Submit(ctx, domain.OrderRequest{Symbol: "BTCUSDT", Side: domain.SideSell, Type: "MARKET", Quantity: d("0.3")})

	positions, err := g.Positions(ctx)
	if err != nil {
		t.Fatalf("Positions failed: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("netted-out symbol should disappear, got %+v", positions)
	}
}

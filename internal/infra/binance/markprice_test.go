package binance

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMarkPriceWorker_HandleMessage(t *testing.T) {
	var gotSymbol string
	var gotPrice decimal.Decimal
	var gotTs int64

	w := NewMarkPriceWorker(TestnetWSURL, "BTCUSDT", func(symbol string, price decimal.Decimal, tsMs int64) {
		gotSymbol, gotPrice, gotTs = symbol, price, tsMs
	})

	w.handleMessage([]byte(`{"e":"markPriceUpdate","E":1700000000123,"s":"BTCUSDT","p":"64321.50000000"}`))

	if gotSymbol != "BTCUSDT" {
		t.Errorf("unexpected symbol: %s", gotSymbol)
	}
	if !gotPrice.Equal(decimal.RequireFromString("64321.5")) {
		t.Errorf("unexpected price: %s", gotPrice)
	}
	if gotTs != 1700000000123 {
		t.Errorf("unexpected ts: %d", gotTs)
	}
}

func TestMarkPriceWorker_IgnoresOtherEvents(t *testing.T) {
	called := false
	w := NewMarkPriceWorker(TestnetWSURL, "BTCUSDT", func(string, decimal.Decimal, int64) {
		called = true
	})

	w.handleMessage([]byte(`{"e":"aggTrade","s":"BTCUSDT","p":"1"}`))
	w.handleMessage([]byte(`not json`))
	w.handleMessage([]byte(`{"e":"markPriceUpdate","s":"BTCUSDT","p":"bad"}`))

	if called {
		t.Error("callback fired for non-mark-price or malformed payloads")
	}
}

// The ping loop is tied to its connection's context and tracked by the
// worker's WaitGroup, so a reconnect never leaves a stale one behind.
func TestMarkPriceWorker_PingLoopStopsWithConnection(t *testing.T) {
	w := NewMarkPriceWorker(TestnetWSURL, "BTCUSDT", nil)

	pingCtx, stopPing := context.WithCancel(context.Background())
	w.wg.Add(1)
	go w.pingLoop(pingCtx)
	stopPing()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ping loop kept running after its connection context was cancelled")
	}
}

func TestBackoffDelay(t *testing.T) {
	if backoffDelay(0) != wsBaseDelay {
		t.Error("retry 0 should use base delay")
	}
	if backoffDelay(2) != 4*time.Second {
		t.Errorf("retry 2 = %v, want 4s", backoffDelay(2))
	}
	if backoffDelay(10) != wsMaxDelay {
		t.Error("large retry counts must cap at max delay")
	}
	if backoffDelay(63) != wsMaxDelay {
		t.Error("shift overflow guard failed")
	}
}

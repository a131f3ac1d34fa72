package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

const (
	wsHandshakeTimeout = 10 * time.Second
	wsBaseDelay        = 1 * time.Second
	wsMaxDelay         = 60 * time.Second
)

// markPriceUpdate is the <symbol>@markPrice stream payload.
type markPriceUpdate struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"`
	Symbol    string `json:"s"`
	MarkPrice string `json:"p"`
}

// MarkPriceWorker streams a symbol's mark price over the futures websocket
// and hands each update to a callback. It reconnects with exponential
// backoff; the order pipeline never depends on it.
type MarkPriceWorker struct {
	wsURL    string
	symbol   string
	onUpdate func(symbol string, price decimal.Decimal, tsMs int64)

	mu      sync.RWMutex
	writeMu sync.Mutex
	conn    *websocket.Conn
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewMarkPriceWorker creates a worker for one symbol. wsURL is the stream
// base (MainnetWSURL or TestnetWSURL).
func NewMarkPriceWorker(wsURL, symbol string, onUpdate func(string, decimal.Decimal, int64)) *MarkPriceWorker {
	return &MarkPriceWorker{
		wsURL:    wsURL,
		symbol:   symbol,
		onUpdate: onUpdate,
	}
}

// Connect starts the connection loop in the background.
func (w *MarkPriceWorker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.runLoop(ctx)
	return nil
}

// Disconnect stops the worker and waits for its goroutines.
func (w *MarkPriceWorker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConn()
	w.wg.Wait()
}

func (w *MarkPriceWorker) runLoop(ctx context.Context) {
	defer w.wg.Done()
	retry := 0

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			slog.Warn("mark price stream connect failed",
				"symbol", w.symbol, "err", err, "retry", retry)

			delay := backoffDelay(retry)
			retry++
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		}

		retry = 0

		// The ping loop lives exactly as long as this connection.
		pingCtx, stopPing := context.WithCancel(ctx)
		w.wg.Add(1)
		go w.pingLoop(pingCtx)

		w.readLoop(ctx)
		stopPing()
	}
}

func (w *MarkPriceWorker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: wsHandshakeTimeout}
	streamURL := fmt.Sprintf("%s/%s@markPrice", w.wsURL, strings.ToLower(w.symbol))

	conn, _, err := dialer.DialContext(ctx, streamURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", streamURL, err)
	}

	w.mu.Lock()
	w.conn = conn
	w.mu.Unlock()

	slog.Info("mark price stream connected", "symbol", w.symbol)
	return nil
}

func (w *MarkPriceWorker) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		w.mu.RLock()
		conn := w.conn
		w.mu.RUnlock()
		if conn == nil {
			return
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("mark price stream read error", "symbol", w.symbol, "err", err)
			}
			w.closeConn()
			return
		}

		w.handleMessage(msg)
	}
}

func (w *MarkPriceWorker) handleMessage(msg []byte) {
	var update markPriceUpdate
	if err := json.Unmarshal(msg, &update); err != nil {
		return
	}
	if update.EventType != "markPriceUpdate" || update.MarkPrice == "" {
		return
	}

	price, err := decimal.NewFromString(update.MarkPrice)
	if err != nil {
		return
	}

	if w.onUpdate != nil {
		w.onUpdate(update.Symbol, price, update.EventTime)
	}
}

// pingLoop answers the server's keepalive expectations. Binance streams
// drop connections that stay silent past the ping window.
func (w *MarkPriceWorker) pingLoop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.mu.RLock()
			conn := w.conn
			w.mu.RUnlock()
			if conn == nil {
				return
			}

			w.writeMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsHandshakeTimeout))
			w.writeMu.Unlock()
			if err != nil {
				slog.Warn("mark price stream ping failed", "symbol", w.symbol, "err", err)
				w.closeConn()
				return
			}
		}
	}
}

func (w *MarkPriceWorker) closeConn() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
}

// backoffDelay returns baseDelay * 2^retry capped at maxDelay.
func backoffDelay(retry int) time.Duration {
	if retry < 0 {
		return wsBaseDelay
	}
	if retry > 30 {
		return wsMaxDelay
	}
	d := wsBaseDelay * time.Duration(1<<uint(retry))
	if d > wsMaxDelay {
		return wsMaxDelay
	}
	return d
}

package trading

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/praizykolluri46/binance-bot/internal/domain"
)

// DryRunGateway simulates the exchange in memory: orders are logged and
// acknowledged, market orders fill immediately and move a virtual position,
// limit and stop orders rest until cancelled. No network, no credentials.
type DryRunGateway struct {
	mu         sync.Mutex
	nextID     int64
	orders     map[int64]domain.OrderResult
	positions  map[string]*domain.Position
	usdBalance decimal.Decimal
}

var _ Gateway = (*DryRunGateway)(nil)

// NewDryRunGateway creates a simulated gateway with the given virtual USDT
// wallet balance.
func NewDryRunGateway(initialUSDT decimal.Decimal) *DryRunGateway {
	return &DryRunGateway{
		nextID:     1,
		orders:     make(map[int64]domain.OrderResult),
		positions:  make(map[string]*domain.Position),
		usdBalance: initialUSDT,
	}
}

func (g *DryRunGateway) Submit(_ context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	result := domain.OrderResult{
		OrderID:       g.nextID,
		ClientOrderID: req.ClientOrderID,
		Symbol:        req.Symbol,
		Side:          req.Side,
		Type:          req.Type,
		Status:        domain.StatusNew,
		Price:         req.Price,
		OrigQty:       req.Quantity,
		StopPrice:     req.StopPrice,
	}
	g.nextID++

	if req.Type == "MARKET" {
		result.Status = domain.StatusFilled
		result.ExecutedQty = req.Quantity
		g.applyFill(req)
	}

	g.orders[result.OrderID] = result

	slog.Info("DRY RUN: order accepted",
		"orderId", result.OrderID,
		"symbol", req.Symbol,
		"side", req.Side,
		"type", req.Type,
		"quantity", req.Quantity.String(),
		"status", result.Status,
	)
	return &result, nil
}

// applyFill moves the virtual position for an immediately-filled order.
// Reduce-only fills never push a position through zero.
func (g *DryRunGateway) applyFill(req domain.OrderRequest) {
	delta := req.Quantity
	if req.Side == domain.SideSell {
		delta = delta.Neg()
	}

	pos, ok := g.positions[req.Symbol]
	if !ok {
		if req.ReduceOnly {
			return
		}
		g.positions[req.Symbol] = &domain.Position{
			Symbol:     req.Symbol,
			Amount:     delta,
			EntryPrice: req.Price,
		}
		return
	}

	if req.ReduceOnly {
		// Clamp so the fill can only shrink the position toward flat.
		if pos.Amount.Sign() > 0 && delta.Sign() < 0 && delta.Abs().GreaterThan(pos.Amount) {
			delta = pos.Amount.Neg()
		}
		if pos.Amount.Sign() < 0 && delta.Sign() > 0 && delta.GreaterThan(pos.Amount.Abs()) {
			delta = pos.Amount.Neg()
		}
		if pos.Amount.Sign() == delta.Sign() {
			return
		}
	}

	pos.Amount = pos.Amount.Add(delta)
	if pos.Amount.IsZero() {
		delete(g.positions, req.Symbol)
	}
}

func (g *DryRunGateway) Cancel(_ context.Context, symbol string, orderID int64) (*domain.OrderResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	order, ok := g.orders[orderID]
	if !ok || order.Symbol != symbol {
		return nil, &GatewayError{Op: "cancelOrder", Code: -2011, Message: "Unknown order sent."}
	}
	if !order.IsOpen() {
		return nil, &GatewayError{Op: "cancelOrder", Code: -2011, Message: "Unknown order sent."}
	}

	order.Status = domain.StatusCanceled
	g.orders[orderID] = order

	slog.Info("DRY RUN: order cancelled", "orderId", orderID, "symbol", symbol)
	return &order, nil
}

func (g *DryRunGateway) Status(_ context.Context, symbol string, orderID int64) (*domain.OrderResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	order, ok := g.orders[orderID]
	if !ok || order.Symbol != symbol {
		return nil, &GatewayError{Op: "getOrder", Code: -2013, Message: "Order does not exist."}
	}
	return &order, nil
}

func (g *DryRunGateway) OpenOrders(_ context.Context, symbol string) ([]domain.OrderResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var open []domain.OrderResult
	for _, order := range g.orders {
		if !order.IsOpen() {
			continue
		}
		if symbol != "" && order.Symbol != symbol {
			continue
		}
		open = append(open, order)
	}
	return open, nil
}

func (g *DryRunGateway) Balances(_ context.Context) (map[string]domain.AssetBalance, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return map[string]domain.AssetBalance{
		"USDT": {
			Asset:            "USDT",
			WalletBalance:    g.usdBalance,
			AvailableBalance: g.usdBalance,
		},
	}, nil
}

func (g *DryRunGateway) Position(_ context.Context, symbol string) (*domain.Position, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	pos, ok := g.positions[symbol]
	if !ok {
		return nil, nil
	}
	copied := *pos
	return &copied, nil
}

func (g *DryRunGateway) Positions(_ context.Context) ([]domain.Position, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	positions := make([]domain.Position, 0, len(g.positions))
	for _, pos := range g.positions {
		positions = append(positions, *pos)
	}
	return positions, nil
}

// SeedPosition plants a virtual position, used by tests and demos.
func (g *DryRunGateway) SeedPosition(symbol string, amount, entryPrice decimal.Decimal) error {
	if amount.IsZero() {
		return fmt.Errorf("seed position amount must be nonzero")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.positions[symbol] = &domain.Position{Symbol: symbol, Amount: amount, EntryPrice: entryPrice}
	return nil
}

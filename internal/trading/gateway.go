package trading

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/praizykolluri46/binance-bot/internal/domain"
	"github.com/praizykolluri46/binance-bot/internal/infra/binance"
)

// restAPI is the slice of the REST client the gateway consumes. Tests
// substitute a scripted implementation.
type restAPI interface {
	exchangeInfoAPI
	Account(ctx context.Context) (*binance.Account, error)
	PositionRisk(ctx context.Context) ([]binance.PositionRisk, error)
	CreateOrder(ctx context.Context, order binance.NewOrder) (*binance.OrderAck, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) (*binance.OrderAck, error)
	GetOrder(ctx context.Context, symbol string, orderID int64) (*binance.OrderAck, error)
	OpenOrders(ctx context.Context, symbol string) ([]binance.OrderAck, error)
}

// ExchangeGateway submits orders and runs account queries against the live
// exchange, translating wire responses into domain types and every failure
// into *GatewayError. No retry, no backoff; errors go straight up.
type ExchangeGateway struct {
	api     restAPI
	journal Recorder // optional
}

var _ Gateway = (*ExchangeGateway)(nil)

// NewExchangeGateway creates a gateway. journal may be nil.
func NewExchangeGateway(api restAPI, journal Recorder) *ExchangeGateway {
	return &ExchangeGateway{api: api, journal: journal}
}

// Submit sends the built request to the exchange.
func (g *ExchangeGateway) Submit(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	order := binance.NewOrder{
		Symbol:           req.Symbol,
		Side:             string(req.Side),
		Type:             req.Type,
		Quantity:         req.Quantity.String(),
		TimeInForce:      string(req.TimeInForce),
		ReduceOnly:       req.ReduceOnly,
		NewClientOrderID: req.ClientOrderID,
	}
	if req.Price.Sign() > 0 {
		order.Price = req.Price.String()
	}
	if req.StopPrice.Sign() > 0 {
		order.StopPrice = req.StopPrice.String()
	}

	slog.Info("placing order",
		"symbol", req.Symbol,
		"side", req.Side,
		"type", req.Type,
		"quantity", req.Quantity.String(),
		"price", order.Price,
		"stopPrice", order.StopPrice,
		"reduceOnly", req.ReduceOnly,
	)

	ack, err := g.api.CreateOrder(ctx, order)
	if err != nil {
		return nil, asGatewayError("createOrder", err)
	}

	result := ackToResult(ack)
	g.record(ctx, result)
	slog.Info("order placed", "orderId", result.OrderID, "status", result.Status)
	return &result, nil
}

// Cancel cancels an open order.
func (g *ExchangeGateway) Cancel(ctx context.Context, symbol string, orderID int64) (*domain.OrderResult, error) {
	slog.Info("cancelling order", "symbol", symbol, "orderId", orderID)

	ack, err := g.api.CancelOrder(ctx, symbol, orderID)
	if err != nil {
		return nil, asGatewayError("cancelOrder", err)
	}

	result := ackToResult(ack)
	g.record(ctx, result)
	return &result, nil
}

// Status queries one order.
func (g *ExchangeGateway) Status(ctx context.Context, symbol string, orderID int64) (*domain.OrderResult, error) {
	ack, err := g.api.GetOrder(ctx, symbol, orderID)
	if err != nil {
		return nil, asGatewayError("getOrder", err)
	}
	result := ackToResult(ack)
	return &result, nil
}

// OpenOrders lists open orders; empty symbol means all.
func (g *ExchangeGateway) OpenOrders(ctx context.Context, symbol string) ([]domain.OrderResult, error) {
	acks, err := g.api.OpenOrders(ctx, symbol)
	if err != nil {
		return nil, asGatewayError("openOrders", err)
	}

	results := make([]domain.OrderResult, 0, len(acks))
	for i := range acks {
		results = append(results, ackToResult(&acks[i]))
	}
	return results, nil
}

// Balances returns account assets holding a positive wallet balance.
func (g *ExchangeGateway) Balances(ctx context.Context) (map[string]domain.AssetBalance, error) {
	acct, err := g.api.Account(ctx)
	if err != nil {
		return nil, asGatewayError("account", err)
	}

	balances := make(map[string]domain.AssetBalance)
	for _, a := range acct.Assets {
		wallet := parseDecimal(a.WalletBalance)
		if wallet.Sign() <= 0 {
			continue
		}
		balances[a.Asset] = domain.AssetBalance{
			Asset:            a.Asset,
			WalletBalance:    wallet,
			AvailableBalance: parseDecimal(a.AvailableBalance),
		}
	}
	return balances, nil
}

// Position returns the position for symbol, or nil when there is none.
func (g *ExchangeGateway) Position(ctx context.Context, symbol string) (*domain.Position, error) {
	positions, err := g.Positions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range positions {
		if positions[i].Symbol == symbol {
			return &positions[i], nil
		}
	}
	return nil, nil
}

// Positions returns every position with a nonzero amount.
func (g *ExchangeGateway) Positions(ctx context.Context) ([]domain.Position, error) {
	risks, err := g.api.PositionRisk(ctx)
	if err != nil {
		return nil, asGatewayError("positionRisk", err)
	}

	var positions []domain.Position
	for _, r := range risks {
		amount := parseDecimal(r.PositionAmt)
		if amount.IsZero() {
			continue
		}
		positions = append(positions, domain.Position{
			Symbol:        r.Symbol,
			Amount:        amount,
			EntryPrice:    parseDecimal(r.EntryPrice),
			UnrealizedPnL: parseDecimal(r.UnRealizedProfit),
		})
	}
	return positions, nil
}

func (g *ExchangeGateway) record(ctx context.Context, result domain.OrderResult) {
	if g.journal == nil {
		return
	}
	if err := g.journal.RecordOrder(ctx, result); err != nil {
		slog.Warn("order journal write failed", "orderId", result.OrderID, "err", err)
	}
}

func ackToResult(ack *binance.OrderAck) domain.OrderResult {
	return domain.OrderResult{
		OrderID:       ack.OrderID,
		ClientOrderID: ack.ClientOrderID,
		Symbol:        ack.Symbol,
		Side:          domain.Side(ack.Side),
		Type:          ack.Type,
		Status:        domain.OrderStatus(ack.Status),
		Price:         parseDecimal(ack.Price),
		OrigQty:       parseDecimal(ack.OrigQty),
		ExecutedQty:   parseDecimal(ack.ExecutedQty),
		StopPrice:     parseDecimal(ack.StopPrice),
		UpdateTimeMs:  ack.UpdateTime,
	}
}

// parseDecimal is tolerant at the wire boundary: an empty or malformed
// field decodes to zero rather than failing a whole response.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}

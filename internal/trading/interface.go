package trading

import (
	"context"

	"github.com/praizykolluri46/binance-bot/internal/domain"
)

// Gateway is the synchronous order surface the CLI and the position closer
// talk to. Every call blocks until the venue answers; nothing is retried.
type Gateway interface {
	// Submit sends a built order and returns the exchange's acknowledgment.
	Submit(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error)

	// Cancel cancels an open order by exchange ID.
	Cancel(ctx context.Context, symbol string, orderID int64) (*domain.OrderResult, error)

	// Status queries a single order's current state.
	Status(ctx context.Context, symbol string, orderID int64) (*domain.OrderResult, error)

	// OpenOrders lists open orders; an empty symbol means all symbols.
	OpenOrders(ctx context.Context, symbol string) ([]domain.OrderResult, error)

	// Balances returns assets with a positive wallet balance.
	Balances(ctx context.Context) (map[string]domain.AssetBalance, error)

	// Position returns the open position for symbol, or nil when flat.
	Position(ctx context.Context, symbol string) (*domain.Position, error)

	// Positions returns every nonzero position.
	Positions(ctx context.Context) ([]domain.Position, error)
}

// Recorder receives successfully acknowledged orders for audit purposes.
// Recording failures are logged by the gateway and never fail the order.
type Recorder interface {
	RecordOrder(ctx context.Context, result domain.OrderResult) error
}

package trading

import (
	"context"
	"log/slog"

	"github.com/praizykolluri46/binance-bot/internal/domain"
)

// Closer flattens open positions with reduce-only market orders.
type Closer struct {
	gateway Gateway
	builder *Builder
}

// NewCloser creates a position closer over the gateway and builder.
func NewCloser(gateway Gateway, builder *Builder) *Closer {
	return &Closer{gateway: gateway, builder: builder}
}

// CloseAll closes every nonzero position, or only symbolFilter's when it is
// non-empty. Each position gets one reduce-only market order on the
// opposite side for its absolute amount. A failure on one position is
// logged and the loop moves on; only the position enumeration itself is
// fatal. Returns the number of positions successfully closed.
func (c *Closer) CloseAll(ctx context.Context, symbolFilter string) (int, error) {
	positions, err := c.gateway.Positions(ctx)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, pos := range positions {
		if symbolFilter != "" && pos.Symbol != symbolFilter {
			continue
		}

		intent := domain.OrderIntent{
			Symbol:     pos.Symbol,
			Side:       pos.CloseSide(),
			Kind:       domain.KindMarket,
			Quantity:   pos.CloseQuantity(),
			ReduceOnly: true,
		}

		req, err := c.builder.Build(ctx, intent)
		if err != nil {
			slog.Error("failed to build close order",
				"symbol", pos.Symbol, "amount", pos.Amount.String(), "err", err)
			continue
		}

		if _, err := c.gateway.Submit(ctx, req); err != nil {
			slog.Error("failed to close position",
				"symbol", pos.Symbol, "amount", pos.Amount.String(), "err", err)
			continue
		}

		slog.Info("position closed",
			"symbol", pos.Symbol,
			"side", intent.Side,
			"quantity", intent.Quantity.String(),
		)
		closed++
	}
	return closed, nil
}

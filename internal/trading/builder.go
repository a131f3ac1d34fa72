package trading

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/praizykolluri46/binance-bot/internal/domain"
	"github.com/praizykolluri46/binance-bot/pkg/quant"
)

// Builder turns an OrderIntent into a wire-shaped OrderRequest: fail-fast
// validation, per-symbol rule lookup, exact-decimal quantization, then the
// per-kind field mapping. One pipeline serves market, limit and stop-limit
// orders.
type Builder struct {
	rules RulesSource
}

// NewBuilder creates a builder over the given rules source.
func NewBuilder(rules RulesSource) *Builder {
	return &Builder{rules: rules}
}

// Build validates the intent, resolves the symbol's rules and returns the
// normalized request. All intent problems come back as *ValidationError
// before any order leaves the process; an unknown or non-tradable symbol is
// a validation failure too, because the rule lookup happens strictly before
// submission.
func (b *Builder) Build(ctx context.Context, intent domain.OrderIntent) (domain.OrderRequest, error) {
	if err := validateIntent(&intent); err != nil {
		return domain.OrderRequest{}, err
	}

	rules, err := b.rules.Rules(ctx, intent.Symbol)
	if err != nil {
		if errors.Is(err, ErrSymbolNotFound) {
			return domain.OrderRequest{}, &ValidationError{
				Field:  "symbol",
				Reason: fmt.Sprintf("unknown symbol %s", intent.Symbol),
			}
		}
		return domain.OrderRequest{}, err
	}
	if !rules.Tradable {
		return domain.OrderRequest{}, &ValidationError{
			Field:  "symbol",
			Reason: fmt.Sprintf("symbol %s is not tradable", intent.Symbol),
		}
	}

	return buildWithRules(intent, rules), nil
}

// validateIntent applies the checks in fixed order; the first violation
// wins. Defaults TimeInForce to GTC for kinds that carry one.
func validateIntent(intent *domain.OrderIntent) error {
	if !intent.Side.Valid() {
		return &ValidationError{Field: "side", Reason: "must be BUY or SELL"}
	}
	if !intent.Kind.Valid() {
		return &ValidationError{Field: "type", Reason: "must be MARKET, LIMIT or STOP_LIMIT"}
	}
	if intent.Quantity.Sign() <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if intent.Kind.NeedsPrice() && intent.Price.Sign() <= 0 {
		return &ValidationError{Field: "price", Reason: "must be positive"}
	}
	if intent.Kind == domain.KindStopLimit && intent.StopPrice.Sign() <= 0 {
		return &ValidationError{Field: "stopPrice", Reason: "must be positive"}
	}
	if intent.Kind != domain.KindMarket {
		if intent.TimeInForce == "" {
			intent.TimeInForce = domain.TIFGoodTillCancel
		}
		if !intent.TimeInForce.Valid() {
			return &ValidationError{Field: "timeInForce", Reason: "must be GTC, IOC or FOK"}
		}
	}
	return nil
}

// buildWithRules quantizes the intent against the symbol's granularity and
// emits the wire shape for its kind. Pure; exposed to tests that supply
// rules directly.
func buildWithRules(intent domain.OrderIntent, rules domain.SymbolRules) domain.OrderRequest {
	req := domain.OrderRequest{
		Symbol:        intent.Symbol,
		Side:          intent.Side,
		Type:          intent.Kind.WireType(),
		Quantity:      quant.FloorToStep(intent.Quantity, rules.QuantityStep),
		ReduceOnly:    intent.ReduceOnly,
		ClientOrderID: uuid.NewString(),
	}

	// Market orders carry neither price nor time-in-force on the wire.
	if intent.Kind == domain.KindMarket {
		return req
	}

	req.Price = quant.FloorToStep(intent.Price, rules.PriceTick)
	req.TimeInForce = intent.TimeInForce
	if intent.Kind == domain.KindStopLimit {
		req.StopPrice = quant.FloorToStep(intent.StopPrice, rules.PriceTick)
	}
	return req
}

package trading

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/praizykolluri46/binance-bot/internal/domain"
	"github.com/praizykolluri46/binance-bot/internal/infra/binance"
)

// exchangeInfoAPI is the slice of the REST client the rules provider needs.
type exchangeInfoAPI interface {
	ExchangeInfo(ctx context.Context) (*binance.ExchangeInfo, error)
}

// RulesSource resolves per-symbol trading rules. Implemented by
// RulesProvider against the live exchange and by StaticRules for dry runs.
type RulesSource interface {
	Rules(ctx context.Context, symbol string) (domain.SymbolRules, error)
}

// RulesProvider fetches symbol rules from exchange metadata. Every call
// re-queries the exchange; snapshots are discarded after use.
type RulesProvider struct {
	api exchangeInfoAPI
}

// NewRulesProvider creates a provider on top of the REST client.
func NewRulesProvider(api exchangeInfoAPI) *RulesProvider {
	return &RulesProvider{api: api}
}

// Rules returns the quantization rules for symbol. The symbol match is
// exact and case-sensitive; an absent symbol is ErrSymbolNotFound. Missing
// filter entries yield zero steps, which downstream quantization treats as
// "pass the value through unchanged".
func (p *RulesProvider) Rules(ctx context.Context, symbol string) (domain.SymbolRules, error) {
	info, err := p.api.ExchangeInfo(ctx)
	if err != nil {
		return domain.SymbolRules{}, asGatewayError("exchangeInfo", err)
	}

	for _, s := range info.Symbols {
		if s.Symbol != symbol {
			continue
		}

		rules := domain.SymbolRules{
			Symbol:   symbol,
			Tradable: s.Status == "TRADING",
		}
		for _, f := range s.Filters {
			switch f.FilterType {
			case "LOT_SIZE":
				if step, err := decimal.NewFromString(f.StepSize); err == nil {
					rules.QuantityStep = step
				}
			case "PRICE_FILTER":
				if tick, err := decimal.NewFromString(f.TickSize); err == nil {
					rules.PriceTick = tick
				}
			}
		}
		return rules, nil
	}

	return domain.SymbolRules{}, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
}

// StaticRules is a RulesSource that accepts every symbol with no
// granularity constraints. Used by the dry-run session where there is no
// exchange to ask.
type StaticRules struct{}

func (StaticRules) Rules(_ context.Context, symbol string) (domain.SymbolRules, error) {
	return domain.SymbolRules{Symbol: symbol, Tradable: true}, nil
}

package domain

import (
	"github.com/shopspring/decimal"
)

// SymbolRules is an immutable snapshot of a symbol's trading constraints
// taken from exchange metadata. It is fetched per order and discarded; no
// caching. A zero QuantityStep or PriceTick means the exchange published no
// such filter and quantization passes values through unchanged.
type SymbolRules struct {
	Symbol       string
	QuantityStep decimal.Decimal
	PriceTick    decimal.Decimal
	Tradable     bool
}

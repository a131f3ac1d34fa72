// Package quant provides exact-decimal granularity math for order sizing.
// All calculations stay in decimal space; float64 never touches a quantity
// or price on its way to the exchange.
package quant

import (
	"github.com/shopspring/decimal"
)

// FloorToStep returns the largest exact multiple of step that does not
// exceed v. A step of zero (or less) means the symbol carries no
// granularity rule and v is returned unchanged.
//
// The remainder is computed via QuoRem with an integer quotient, which is
// exact for any pair of decimals. Never round-to-nearest, never ceiling:
// an order must not grow past what the caller asked for.
func FloorToStep(v, step decimal.Decimal) decimal.Decimal {
	if step.Sign() <= 0 {
		return v
	}
	_, rem := v.QuoRem(step, 0)
	return v.Sub(rem)
}

package domain

import (
	"github.com/shopspring/decimal"
)

// Position is an open futures position. Amount is signed: positive for
// long, negative for short. A zero-amount entry from the exchange is not a
// position and is filtered out before it reaches callers.
type Position struct {
	Symbol        string
	Amount        decimal.Decimal
	EntryPrice    decimal.Decimal
	UnrealizedPnL decimal.Decimal
}

// IsLong reports whether the position is long.
func (p *Position) IsLong() bool {
	return p.Amount.Sign() > 0
}

// IsShort reports whether the position is short.
func (p *Position) IsShort() bool {
	return p.Amount.Sign() < 0
}

// CloseSide returns the order side that reduces the position to flat.
func (p *Position) CloseSide() Side {
	if p.IsLong() {
		return SideSell
	}
	return SideBuy
}

// CloseQuantity returns the absolute amount needed to flatten the position.
func (p *Position) CloseQuantity() decimal.Decimal {
	return p.Amount.Abs()
}

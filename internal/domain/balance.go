package domain

import (
	"github.com/shopspring/decimal"
)

// AssetBalance is a single asset's futures wallet balance. Only assets
// with a positive wallet balance are surfaced by the gateway.
type AssetBalance struct {
	Asset            string
	WalletBalance    decimal.Decimal
	AvailableBalance decimal.Decimal
}

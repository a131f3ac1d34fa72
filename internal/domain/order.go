package domain

import (
	"github.com/shopspring/decimal"
)

// Side represents the order side on the wire.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Valid reports whether the side is one the exchange accepts.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Opposite returns the side that closes a position opened with s.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Kind is the order variant the caller asked for. It is not the wire type:
// StopLimit maps to the generic "STOP" wire type carrying both trigger and
// execution prices.
type Kind string

const (
	KindMarket    Kind = "MARKET"
	KindLimit     Kind = "LIMIT"
	KindStopLimit Kind = "STOP_LIMIT"
)

// Valid reports whether the kind is a known order variant.
func (k Kind) Valid() bool {
	switch k {
	case KindMarket, KindLimit, KindStopLimit:
		return true
	}
	return false
}

// NeedsPrice reports whether the kind requires an execution price.
func (k Kind) NeedsPrice() bool {
	return k == KindLimit || k == KindStopLimit
}

// WireType returns the exchange order type token for the kind.
func (k Kind) WireType() string {
	if k == KindStopLimit {
		return "STOP"
	}
	return string(k)
}

// TimeInForce controls how long an order stays active.
type TimeInForce string

const (
	TIFGoodTillCancel  TimeInForce = "GTC"
	TIFImmediateCancel TimeInForce = "IOC"
	TIFFillOrKill      TimeInForce = "FOK"
)

// Valid reports whether the time-in-force is one the exchange accepts.
func (t TimeInForce) Valid() bool {
	switch t {
	case TIFGoodTillCancel, TIFImmediateCancel, TIFFillOrKill:
		return true
	}
	return false
}

// OrderIntent is what the caller wants before any exchange rule is applied.
// Price/StopPrice at zero mean "absent": Price is required for Limit and
// StopLimit, StopPrice only for StopLimit. An empty TimeInForce defaults
// to GTC during build.
type OrderIntent struct {
	Symbol      string
	Side        Side
	Kind        Kind
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	StopPrice   decimal.Decimal
	TimeInForce TimeInForce
	ReduceOnly  bool
}

// OrderRequest is a validated, quantized intent in wire shape. Quantity,
// Price and StopPrice are exact multiples of the symbol's step/tick and
// never exceed the intent's originals.
type OrderRequest struct {
	Symbol        string
	Side          Side
	Type          string // wire order type: MARKET, LIMIT, STOP
	Quantity      decimal.Decimal
	Price         decimal.Decimal // zero when Type is MARKET
	StopPrice     decimal.Decimal // zero unless Type is STOP
	TimeInForce   TimeInForce     // empty when Type is MARKET
	ReduceOnly    bool
	ClientOrderID string
}

// OrderStatus is the exchange-reported order lifecycle state.
type OrderStatus string

const (
	StatusNew             OrderStatus = "NEW"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCanceled        OrderStatus = "CANCELED"
	StatusRejected        OrderStatus = "REJECTED"
	StatusExpired         OrderStatus = "EXPIRED"
)

// OrderResult is the exchange's view of an order after a submit, cancel or
// status query. Read-only to callers.
type OrderResult struct {
	OrderID       int64
	ClientOrderID string
	Symbol        string
	Side          Side
	Type          string
	Status        OrderStatus
	Price         decimal.Decimal
	OrigQty       decimal.Decimal
	ExecutedQty   decimal.Decimal
	StopPrice     decimal.Decimal
	UpdateTimeMs  int64
}

// IsOpen reports whether the order can still fill.
func (r *OrderResult) IsOpen() bool {
	return r.Status == StatusNew || r.Status == StatusPartiallyFilled
}

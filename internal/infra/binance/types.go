package binance

import (
	"fmt"
	"time"
)

const (
	MainnetURL = "https://fapi.binance.com"
	TestnetURL = "https://testnet.binancefuture.com"

	MainnetWSURL = "wss://fstream.binance.com/ws"
	TestnetWSURL = "wss://stream.binancefuture.com/ws"

	defaultRecvWindowMs = 5000
	requestTimeout      = 10 * time.Second

	pingInterval = 3 * time.Minute
	readTimeout  = 10 * time.Minute
)

// APIError is the error body Binance returns alongside non-2xx statuses
// (and occasionally inside 200 responses on some endpoints).
type APIError struct {
	Code    int64  `json:"code"`
	Message string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance: code=%d msg=%q", e.Code, e.Message)
}

// SymbolFilter is one entry of a symbol's filters array. stepSize and
// tickSize are populated depending on FilterType.
type SymbolFilter struct {
	FilterType string `json:"filterType"`
	StepSize   string `json:"stepSize"`
	TickSize   string `json:"tickSize"`
}

// SymbolInfo is one tradable instrument in exchangeInfo.
type SymbolInfo struct {
	Symbol  string         `json:"symbol"`
	Status  string         `json:"status"`
	Filters []SymbolFilter `json:"filters"`
}

// ExchangeInfo is the /fapi/v1/exchangeInfo response.
type ExchangeInfo struct {
	Symbols []SymbolInfo `json:"symbols"`
}

// AccountAsset is one asset entry of /fapi/v2/account.
type AccountAsset struct {
	Asset            string `json:"asset"`
	WalletBalance    string `json:"walletBalance"`
	AvailableBalance string `json:"availableBalance"`
}

// Account is the subset of /fapi/v2/account this client consumes.
type Account struct {
	Assets []AccountAsset `json:"assets"`
}

// PositionRisk is one entry of /fapi/v2/positionRisk.
type PositionRisk struct {
	Symbol           string `json:"symbol"`
	PositionAmt      string `json:"positionAmt"`
	EntryPrice       string `json:"entryPrice"`
	UnRealizedProfit string `json:"unRealizedProfit"`
}

// NewOrder is the parameter set for POST /fapi/v1/order. Empty strings are
// omitted from the signed query.
type NewOrder struct {
	Symbol           string
	Side             string
	Type             string
	Quantity         string
	Price            string
	StopPrice        string
	TimeInForce      string
	ReduceOnly       bool
	NewClientOrderID string
}

// OrderAck is the order representation Binance returns from create, cancel
// and query endpoints.
type OrderAck struct {
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Price         string `json:"price"`
	OrigQty       string `json:"origQty"`
	ExecutedQty   string `json:"executedQty"`
	StopPrice     string `json:"stopPrice"`
	UpdateTime    int64  `json:"updateTime"`
}

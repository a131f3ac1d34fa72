// Package binance implements a minimal REST client for the Binance USD-M
// Futures API. It covers exactly the endpoints the order pipeline needs;
// no retries, no caching: every failure is surfaced to the caller.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client handles Binance USD-M Futures REST communication. It is not safe
// for unsynchronized concurrent use; one logical session owns it.
type Client struct {
	baseURL      string
	signer       *Signer
	recvWindowMs int64
	httpClient   *http.Client

	// now is swappable for deterministic signing tests.
	now func() time.Time
}

// NewClient creates a REST client. testnet selects the Binance futures
// testnet endpoint; baseURL overrides both when non-empty.
func NewClient(apiKey, secretKey, baseURL string, testnet bool) *Client {
	if baseURL == "" {
		baseURL = MainnetURL
		if testnet {
			baseURL = TestnetURL
		}
	}

	return &Client{
		baseURL:      baseURL,
		signer:       NewSigner(apiKey, secretKey),
		recvWindowMs: defaultRecvWindowMs,
		httpClient:   &http.Client{Timeout: requestTimeout},
		now:          time.Now,
	}
}

// SetRecvWindow overrides the signed-request receive window. Values <= 0
// keep the default.
func (c *Client) SetRecvWindow(ms int64) {
	if ms > 0 {
		c.recvWindowMs = ms
	}
}

// Close wipes the API credentials.
func (c *Client) Close() error {
	c.signer.Wipe()
	return nil
}

// ExchangeInfo fetches symbol metadata and trading filters. Unsigned.
func (c *Client) ExchangeInfo(ctx context.Context) (*ExchangeInfo, error) {
	var info ExchangeInfo
	if err := c.do(ctx, http.MethodGet, "/fapi/v1/exchangeInfo", nil, false, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Account fetches futures account assets. Signed.
func (c *Client) Account(ctx context.Context) (*Account, error) {
	var acct Account
	if err := c.do(ctx, http.MethodGet, "/fapi/v2/account", url.Values{}, true, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// PositionRisk fetches position information for all symbols. Signed.
func (c *Client) PositionRisk(ctx context.Context) ([]PositionRisk, error) {
	var positions []PositionRisk
	if err := c.do(ctx, http.MethodGet, "/fapi/v2/positionRisk", url.Values{}, true, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// CreateOrder submits a new order. Signed.
func (c *Client) CreateOrder(ctx context.Context, order NewOrder) (*OrderAck, error) {
	params := url.Values{}
	params.Set("symbol", order.Symbol)
	params.Set("side", order.Side)
	params.Set("type", order.Type)
	params.Set("quantity", order.Quantity)
	if order.Price != "" {
		params.Set("price", order.Price)
	}
	if order.StopPrice != "" {
		params.Set("stopPrice", order.StopPrice)
	}
	if order.TimeInForce != "" {
		params.Set("timeInForce", order.TimeInForce)
	}
	if order.ReduceOnly {
		params.Set("reduceOnly", "true")
	}
	if order.NewClientOrderID != "" {
		params.Set("newClientOrderId", order.NewClientOrderID)
	}

	var ack OrderAck
	if err := c.do(ctx, http.MethodPost, "/fapi/v1/order", params, true, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// CancelOrder cancels an open order by exchange ID. Signed.
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) (*OrderAck, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", strconv.FormatInt(orderID, 10))

	var ack OrderAck
	if err := c.do(ctx, http.MethodDelete, "/fapi/v1/order", params, true, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// GetOrder queries a single order's state. Signed.
func (c *Client) GetOrder(ctx context.Context, symbol string, orderID int64) (*OrderAck, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", strconv.FormatInt(orderID, 10))

	var ack OrderAck
	if err := c.do(ctx, http.MethodGet, "/fapi/v1/order", params, true, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// OpenOrders lists open orders, optionally restricted to one symbol. Signed.
func (c *Client) OpenOrders(ctx context.Context, symbol string) ([]OrderAck, error) {
	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", symbol)
	}

	var acks []OrderAck
	if err := c.do(ctx, http.MethodGet, "/fapi/v1/openOrders", params, true, &acks); err != nil {
		return nil, err
	}
	return acks, nil
}

// do executes one request. Signed requests get timestamp + recvWindow and a
// trailing signature parameter over the encoded query, with the API key in
// the X-MBX-APIKEY header. Binance accepts signed parameters in the query
// string for all methods, which keeps POST and DELETE uniform here.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, signed bool, out any) error {
	query := ""
	if params != nil {
		if signed {
			params.Set("timestamp", strconv.FormatInt(c.now().UnixMilli(), 10))
			params.Set("recvWindow", strconv.FormatInt(c.recvWindowMs, 10))
		}
		query = params.Encode()
		if signed {
			query += "&signature=" + c.signer.Sign(query)
		}
	}

	reqURL := c.baseURL + path
	if query != "" {
		reqURL += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return err
	}
	if signed {
		req.Header.Set("X-MBX-APIKEY", c.signer.APIKey())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr APIError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return &apiErr
		}
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			slog.Debug("malformed exchange response", "path", path, "err", err)
			return fmt.Errorf("decode response %s: %w", path, err)
		}
	}
	return nil
}

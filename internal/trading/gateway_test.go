package trading

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/praizykolluri46/binance-bot/internal/domain"
	"github.com/praizykolluri46/binance-bot/internal/infra/binance"
)

// stubAPI scripts the REST client surface for gateway tests.
type stubAPI struct {
	exchangeInfo *binance.ExchangeInfo
	account      *binance.Account
	positions    []binance.PositionRisk
	createAck    *binance.OrderAck
	createErr    error
	cancelAck    *binance.OrderAck
	getAck       *binance.OrderAck
	openAcks     []binance.OrderAck
	err          error

	createdOrders []binance.NewOrder
}

func (s *stubAPI) ExchangeInfo(context.Context) (*binance.ExchangeInfo, error) {
	return s.exchangeInfo, s.err
}

func (s *stubAPI) Account(context.Context) (*binance.Account, error) {
	return s.account, s.err
}

func (s *stubAPI) PositionRisk(context.Context) ([]binance.PositionRisk, error) {
	return s.positions, s.err
}

func (s *stubAPI) CreateOrder(_ context.Context, order binance.NewOrder) (*binance.OrderAck, error) {
	s.createdOrders = append(s.createdOrders, order)
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.createAck != nil {
		return s.createAck, s.err
	}
	return &binance.OrderAck{
		OrderID: int64(len(s.createdOrders)),
		Symbol:  order.Symbol,
		Side:    order.Side,
		Type:    order.Type,
		Status:  "NEW",
		OrigQty: order.Quantity,
	}, s.err
}

func (s *stubAPI) CancelOrder(context.Context, string, int64) (*binance.OrderAck, error) {
	return s.cancelAck, s.err
}

func (s *stubAPI) GetOrder(context.Context, string, int64) (*binance.OrderAck, error) {
	return s.getAck, s.err
}

func (s *stubAPI) OpenOrders(context.Context, string) ([]binance.OrderAck, error) {
	return s.openAcks, s.err
}

// recordingJournal captures RecordOrder calls.
type recordingJournal struct {
	recorded []domain.OrderResult
	err      error
}

func (r *recordingJournal) RecordOrder(_ context.Context, result domain.OrderResult) error {
	r.recorded = append(r.recorded, result)
	return r.err
}

func TestGateway_SubmitTranslatesAck(t *testing.T) {
	api := &stubAPI{createAck: &binance.OrderAck{
		OrderID:     7,
		Symbol:      "BTCUSDT",
		Side:        "BUY",
		Type:        "LIMIT",
		Status:      "NEW",
		Price:       "65000.3",
		OrigQty:     "0.123",
		ExecutedQty: "0",
	}}
	journal := &recordingJournal{}
	g := NewExchangeGateway(api, journal)

	result, err := g.Submit(context.Background(), domain.OrderRequest{
		Symbol: "BTCUSDT", Side: domain.SideBuy, Type: "LIMIT",
		Quantity: d("0.123"), Price: d("65000.3"), TimeInForce: domain.TIFGoodTillCancel,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if result.OrderID != 7 || result.Status != domain.StatusNew {
		t.Errorf("unexpected result: %+v", result)
	}
	if !result.Price.Equal(d("65000.3")) || !result.OrigQty.Equal(d("0.123")) {
		t.Errorf("decimal fields not translated: %+v", result)
	}
	if len(journal.recorded) != 1 || journal.recorded[0].OrderID != 7 {
		t.Error("acknowledged order not journaled")
	}
}

func TestGateway_SubmitOmitsZeroFields(t *testing.T) {
	api := &stubAPI{}
	g := NewExchangeGateway(api, nil)

	_, err := g.Submit(context.Background(), domain.OrderRequest{
		Symbol: "BTCUSDT", Side: domain.SideSell, Type: "MARKET", Quantity: d("0.5"),
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	sent := api.createdOrders[0]
	if sent.Price != "" || sent.StopPrice != "" || sent.TimeInForce != "" {
		t.Errorf("market order leaked price/stop/tif onto the wire: %+v", sent)
	}
}

func TestGateway_SubmitWrapsAPIError(t *testing.T) {
	api := &stubAPI{createErr: &binance.APIError{Code: -2019, Message: "Margin is insufficient."}}
	g := NewExchangeGateway(api, nil)

	_, err := g.Submit(context.Background(), domain.OrderRequest{
		Symbol: "BTCUSDT", Side: domain.SideBuy, Type: "MARKET", Quantity: d("100"),
	})

	var gErr *GatewayError
	if !errors.As(err, &gErr) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	if gErr.Code != -2019 || gErr.Message != "Margin is insufficient." {
		t.Errorf("exchange code/message not preserved: %+v", gErr)
	}
}

func TestGateway_SubmitWrapsTransportError(t *testing.T) {
	api := &stubAPI{createErr: fmt.Errorf("connection refused")}
	g := NewExchangeGateway(api, nil)

	_, err := g.Submit(context.Background(), domain.OrderRequest{
		Symbol: "BTCUSDT", Side: domain.SideBuy, Type: "MARKET", Quantity: d("1"),
	})

	var gErr *GatewayError
	if !errors.As(err, &gErr) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	if gErr.Code != 0 {
		t.Errorf("transport failure should carry no exchange code, got %d", gErr.Code)
	}
}

func TestGateway_JournalFailureDoesNotFailOrder(t *testing.T) {
	api := &stubAPI{}
	journal := &recordingJournal{err: fmt.Errorf("disk full")}
	g := NewExchangeGateway(api, journal)

	_, err := g.Submit(context.Background(), domain.OrderRequest{
		Symbol: "BTCUSDT", Side: domain.SideBuy, Type: "MARKET", Quantity: d("1"),
	})
	if err != nil {
		t.Fatalf("journal failure must not fail the order: %v", err)
	}
}

func TestGateway_BalancesFiltersZeroWallets(t *testing.T) {
	api := &stubAPI{account: &binance.Account{Assets: []binance.AccountAsset{
		{Asset: "USDT", WalletBalance: "1000.5", AvailableBalance: "900.25"},
		{Asset: "BNB", WalletBalance: "0.00000000", AvailableBalance: "0"},
		{Asset: "BTC", WalletBalance: "0.5", AvailableBalance: "0.5"},
	}}}
	g := NewExchangeGateway(api, nil)

	balances, err := g.Balances(context.Background())
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}

	if len(balances) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(balances))
	}
	if _, ok := balances["BNB"]; ok {
		t.Error("zero wallet balance should be filtered out")
	}
	if !balances["USDT"].AvailableBalance.Equal(d("900.25")) {
		t.Errorf("unexpected USDT balance: %+v", balances["USDT"])
	}
}

func TestGateway_PositionsSkipFlat(t *testing.T) {
	api := &stubAPI{positions: []binance.PositionRisk{
		{Symbol: "BTCUSDT", PositionAmt: "0.000", EntryPrice: "0", UnRealizedProfit: "0"},
		{Symbol: "ETHUSDT", PositionAmt: "-2.5", EntryPrice: "3200.5", UnRealizedProfit: "-12.75"},
	}}
	g := NewExchangeGateway(api, nil)

	positions, err := g.Positions(context.Background())
	if err != nil {
		t.Fatalf("Positions failed: %v", err)
	}
	if len(positions) != 1 || positions[0].Symbol != "ETHUSDT" {
		t.Fatalf("expected only ETHUSDT, got %+v", positions)
	}
	if !positions[0].Amount.Equal(d("-2.5")) {
		t.Errorf("unexpected amount: %s", positions[0].Amount)
	}

	pos, err := g.Position(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("Position failed: %v", err)
	}
	if pos != nil {
		t.Error("flat symbol should return nil position")
	}
}

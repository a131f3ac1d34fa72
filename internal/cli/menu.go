// Package cli implements the interactive terminal menu and one-shot
// command handling around a trading session.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/praizykolluri46/binance-bot/internal/domain"
	"github.com/praizykolluri46/binance-bot/internal/infra/binance"
	"github.com/praizykolluri46/binance-bot/internal/trading"
)

// OrderHistory is the slice of the journal the menu reads.
type OrderHistory interface {
	RecentOrders(ctx context.Context, limit int) ([]domain.OrderResult, error)
}

// Menu drives the interactive loop. history may be nil when journaling is
// disabled.
type Menu struct {
	session *trading.Session
	history OrderHistory
	in      *bufio.Reader
	out     io.Writer
}

// NewMenu creates a menu reading stdin and writing stdout.
func NewMenu(session *trading.Session, history OrderHistory) *Menu {
	return &Menu{
		session: session,
		history: history,
		in:      bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
}

// Run loops until the user exits or ctx is cancelled. Individual command
// failures are printed and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		m.printMenu()
		choice, err := m.prompt("> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if err := m.dispatch(ctx, choice); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			m.printError(err)
		}
	}
}

var errExit = errors.New("exit")

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out)
	fmt.Fprintf(m.out, "--- %s ---\n", m.session.Mode)
	fmt.Fprintln(m.out, " 1) Place market order")
	fmt.Fprintln(m.out, " 2) Place limit order")
	fmt.Fprintln(m.out, " 3) Place stop-limit order")
	fmt.Fprintln(m.out, " 4) Order status")
	fmt.Fprintln(m.out, " 5) Cancel order")
	fmt.Fprintln(m.out, " 6) Open orders")
	fmt.Fprintln(m.out, " 7) Account balances")
	fmt.Fprintln(m.out, " 8) Positions")
	fmt.Fprintln(m.out, " 9) Close positions")
	fmt.Fprintln(m.out, "10) Watch mark price")
	fmt.Fprintln(m.out, "11) Recent orders (journal)")
	fmt.Fprintln(m.out, " 0) Exit")
}

func (m *Menu) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return m.placeOrder(ctx, domain.KindMarket)
	case "2":
		return m.placeOrder(ctx, domain.KindLimit)
	case "3":
		return m.placeOrder(ctx, domain.KindStopLimit)
	case "4":
		return m.orderStatus(ctx)
	case "5":
		return m.cancelOrder(ctx)
	case "6":
		return m.openOrders(ctx)
	case "7":
		return m.balances(ctx)
	case "8":
		return m.positions(ctx)
	case "9":
		return m.closePositions(ctx)
	case "10":
		return m.watchMarkPrice(ctx)
	case "11":
		return m.recentOrders(ctx)
	case "0", "q", "exit":
		return errExit
	default:
		fmt.Fprintf(m.out, "unknown choice %q\n", choice)
		return nil
	}
}

func (m *Menu) placeOrder(ctx context.Context, kind domain.Kind) error {
	symbol, err := m.promptSymbol()
	if err != nil {
		return err
	}
	side, err := m.promptSide()
	if err != nil {
		return err
	}
	quantity, err := m.promptDecimal("Quantity: ")
	if err != nil {
		return err
	}

	intent := domain.OrderIntent{
		Symbol:   symbol,
		Side:     side,
		Kind:     kind,
		Quantity: quantity,
	}

	if kind.NeedsPrice() {
		if intent.Price, err = m.promptDecimal("Limit price: "); err != nil {
			return err
		}
	}
	if kind == domain.KindStopLimit {
		if intent.StopPrice, err = m.promptDecimal("Stop (trigger) price: "); err != nil {
			return err
		}
	}

	req, err := m.session.Builder.Build(ctx, intent)
	if err != nil {
		return err
	}

	fmt.Fprintf(m.out, "Submitting %s %s %s qty=%s", req.Type, req.Side, req.Symbol, req.Quantity)
	if req.Price.Sign() > 0 {
		fmt.Fprintf(m.out, " price=%s", req.Price)
	}
	if req.StopPrice.Sign() > 0 {
		fmt.Fprintf(m.out, " stop=%s", req.StopPrice)
	}
	fmt.Fprintln(m.out)

	result, err := m.session.Gateway.Submit(ctx, req)
	if err != nil {
		return err
	}
	m.printOrder(*result)
	return nil
}

func (m *Menu) orderStatus(ctx context.Context) error {
	symbol, err := m.promptSymbol()
	if err != nil {
		return err
	}
	orderID, err := m.promptInt("Order ID: ")
	if err != nil {
		return err
	}

	result, err := m.session.Gateway.Status(ctx, symbol, orderID)
	if err != nil {
		return err
	}
	m.printOrder(*result)
	return nil
}

func (m *Menu) cancelOrder(ctx context.Context) error {
	symbol, err := m.promptSymbol()
	if err != nil {
		return err
	}
	orderID, err := m.promptInt("Order ID: ")
	if err != nil {
		return err
	}

	ok, err := m.confirm(fmt.Sprintf("Cancel order %d on %s?", orderID, symbol))
	if err != nil || !ok {
		return err
	}

	result, err := m.session.Gateway.Cancel(ctx, symbol, orderID)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Cancelled order %d (%s)\n", result.OrderID, result.Status)
	return nil
}

func (m *Menu) openOrders(ctx context.Context) error {
	symbol, err := m.prompt("Symbol (empty for all): ")
	if err != nil {
		return err
	}
	symbol = strings.ToUpper(symbol)

	orders, err := m.session.Gateway.OpenOrders(ctx, symbol)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(m.out, "No open orders.")
		return nil
	}
	for _, o := range orders {
		m.printOrder(o)
	}
	return nil
}

func (m *Menu) balances(ctx context.Context) error {
	balances, err := m.session.Gateway.Balances(ctx)
	if err != nil {
		return err
	}
	if len(balances) == 0 {
		fmt.Fprintln(m.out, "No nonzero balances.")
		return nil
	}
	for _, b := range balances {
		fmt.Fprintf(m.out, "%-8s wallet=%s available=%s\n",
			b.Asset, b.WalletBalance, b.AvailableBalance)
	}
	return nil
}

func (m *Menu) positions(ctx context.Context) error {
	positions, err := m.session.Gateway.Positions(ctx)
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		fmt.Fprintln(m.out, "No open positions.")
		return nil
	}
	for _, p := range positions {
		direction := "LONG"
		if p.IsShort() {
			direction = "SHORT"
		}
		fmt.Fprintf(m.out, "%-12s %-5s amount=%s entry=%s uPnL=%s\n",
			p.Symbol, direction, p.Amount, p.EntryPrice, p.UnrealizedPnL)
	}
	return nil
}

func (m *Menu) closePositions(ctx context.Context) error {
	symbol, err := m.prompt("Symbol (empty for ALL positions): ")
	if err != nil {
		return err
	}
	symbol = strings.ToUpper(symbol)

	target := "ALL positions"
	if symbol != "" {
		target = symbol
	}
	ok, err := m.confirm(fmt.Sprintf("Close %s with market orders?", target))
	if err != nil || !ok {
		return err
	}

	closed, err := m.session.Closer.CloseAll(ctx, symbol)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Closed %d position(s).\n", closed)
	return nil
}

// watchMarkPrice streams the mark price until the user presses Enter. Not
// available in dry-run mode, which has no exchange connection.
func (m *Menu) watchMarkPrice(ctx context.Context) error {
	if m.session.WSURL == "" {
		fmt.Fprintln(m.out, "Mark price streaming is not available in DRYRUN mode.")
		return nil
	}

	symbol, err := m.promptSymbol()
	if err != nil {
		return err
	}

	worker := binance.NewMarkPriceWorker(m.session.WSURL, symbol,
		func(sym string, price decimal.Decimal, tsMs int64) {
			fmt.Fprintf(m.out, "%s mark price: %s\n", sym, price)
		})

	if err := worker.Connect(ctx); err != nil {
		return err
	}
	defer worker.Disconnect()

	fmt.Fprintln(m.out, "Streaming; press Enter to stop.")
	_, err = m.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (m *Menu) recentOrders(ctx context.Context) error {
	if m.history == nil {
		fmt.Fprintln(m.out, "Journal is disabled.")
		return nil
	}

	orders, err := m.history.RecentOrders(ctx, 20)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(m.out, "Journal is empty.")
		return nil
	}
	for _, o := range orders {
		m.printOrder(o)
	}
	return nil
}

func (m *Menu) printOrder(o domain.OrderResult) {
	fmt.Fprintf(m.out, "#%-10d %-12s %-4s %-10s %-15s qty=%s filled=%s",
		o.OrderID, o.Symbol, o.Side, o.Type, o.Status, o.OrigQty, o.ExecutedQty)
	if o.Price.Sign() > 0 {
		fmt.Fprintf(m.out, " price=%s", o.Price)
	}
	if o.StopPrice.Sign() > 0 {
		fmt.Fprintf(m.out, " stop=%s", o.StopPrice)
	}
	fmt.Fprintln(m.out)
}

// printError renders pipeline errors without a stack of wrapped prefixes.
func (m *Menu) printError(err error) {
	var vErr *trading.ValidationError
	if errors.As(err, &vErr) {
		fmt.Fprintf(m.out, "Rejected: %s (%s)\n", vErr.Reason, vErr.Field)
		return
	}
	var gErr *trading.GatewayError
	if errors.As(err, &gErr) {
		if gErr.Code != 0 {
			fmt.Fprintf(m.out, "Exchange error %d: %s\n", gErr.Code, gErr.Message)
		} else {
			fmt.Fprintf(m.out, "Exchange call failed (%s): %v\n", gErr.Op, err)
		}
		return
	}
	fmt.Fprintf(m.out, "Error: %v\n", err)
}

func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *Menu) promptSymbol() (string, error) {
	s, err := m.prompt("Symbol (e.g. BTCUSDT): ")
	if err != nil {
		return "", err
	}
	return strings.ToUpper(s), nil
}

func (m *Menu) promptSide() (domain.Side, error) {
	s, err := m.prompt("Side (BUY/SELL): ")
	if err != nil {
		return "", err
	}
	return domain.Side(strings.ToUpper(s)), nil
}

func (m *Menu) promptDecimal(label string) (decimal.Decimal, error) {
	s, err := m.prompt(label)
	if err != nil {
		return decimal.Zero, err
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

func (m *Menu) promptInt(label string) (int64, error) {
	s, err := m.prompt(label)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return v, nil
}

func (m *Menu) confirm(question string) (bool, error) {
	answer, err := m.prompt(question + " [y/N] ")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes"), nil
}

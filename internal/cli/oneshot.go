package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/praizykolluri46/binance-bot/internal/domain"
	"github.com/praizykolluri46/binance-bot/internal/trading"
)

// OneShotArgs is the flag surface for non-interactive runs. Exactly one
// action runs per invocation: an order when Quantity is set, otherwise one
// of the query/close flags.
type OneShotArgs struct {
	Symbol      string
	Side        string
	Type        string
	Quantity    string
	Price       string
	StopPrice   string
	TimeInForce string
	ReduceOnly  bool

	ShowBalance    bool
	ShowOpenOrders bool
	ClosePositions bool
}

// WantsOneShot reports whether any non-interactive action was requested.
func (a OneShotArgs) WantsOneShot() bool {
	return a.Quantity != "" || a.ShowBalance || a.ShowOpenOrders || a.ClosePositions
}

// RunOneShot executes a single command and returns; errors go to the
// caller for a nonzero exit.
func RunOneShot(ctx context.Context, session *trading.Session, args OneShotArgs) error {
	switch {
	case args.Quantity != "":
		return oneShotOrder(ctx, session, args)
	case args.ShowBalance:
		return oneShotBalances(ctx, session)
	case args.ShowOpenOrders:
		return oneShotOpenOrders(ctx, session, strings.ToUpper(args.Symbol))
	case args.ClosePositions:
		return oneShotClose(ctx, session, strings.ToUpper(args.Symbol))
	default:
		return fmt.Errorf("no action requested")
	}
}

func oneShotOrder(ctx context.Context, session *trading.Session, args OneShotArgs) error {
	quantity, err := decimal.NewFromString(args.Quantity)
	if err != nil {
		return fmt.Errorf("invalid -quantity %q", args.Quantity)
	}

	intent := domain.OrderIntent{
		Symbol:      strings.ToUpper(args.Symbol),
		Side:        domain.Side(strings.ToUpper(args.Side)),
		Kind:        domain.Kind(strings.ToUpper(args.Type)),
		Quantity:    quantity,
		TimeInForce: domain.TimeInForce(strings.ToUpper(args.TimeInForce)),
		ReduceOnly:  args.ReduceOnly,
	}
	if args.Price != "" {
		if intent.Price, err = decimal.NewFromString(args.Price); err != nil {
			return fmt.Errorf("invalid -price %q", args.Price)
		}
	}
	if args.StopPrice != "" {
		if intent.StopPrice, err = decimal.NewFromString(args.StopPrice); err != nil {
			return fmt.Errorf("invalid -stop-price %q", args.StopPrice)
		}
	}

	req, err := session.Builder.Build(ctx, intent)
	if err != nil {
		return err
	}

	result, err := session.Gateway.Submit(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("order %d %s %s %s qty=%s status=%s\n",
		result.OrderID, result.Symbol, result.Side, result.Type,
		result.OrigQty, result.Status)
	return nil
}

func oneShotBalances(ctx context.Context, session *trading.Session) error {
	balances, err := session.Gateway.Balances(ctx)
	if err != nil {
		return err
	}
	if len(balances) == 0 {
		fmt.Println("no nonzero balances")
		return nil
	}
	for _, b := range balances {
		fmt.Printf("%-8s wallet=%s available=%s\n", b.Asset, b.WalletBalance, b.AvailableBalance)
	}
	return nil
}

func oneShotOpenOrders(ctx context.Context, session *trading.Session, symbol string) error {
	orders, err := session.Gateway.OpenOrders(ctx, symbol)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Println("no open orders")
		return nil
	}
	for _, o := range orders {
		fmt.Printf("#%-10d %-12s %-4s %-10s %-15s qty=%s\n",
			o.OrderID, o.Symbol, o.Side, o.Type, o.Status, o.OrigQty)
	}
	return nil
}

func oneShotClose(ctx context.Context, session *trading.Session, symbol string) error {
	closed, err := session.Closer.CloseAll(ctx, symbol)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "closed %d position(s)\n", closed)
	return nil
}

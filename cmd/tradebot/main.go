package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"tradebot/internal/auth"
	"tradebot/internal/config"
	"tradebot/internal/orders"
	"tradebot/internal/rest"
	"tradebot/internal/validate"
)

const usageText = `tradebot - Binance USDT-M futures testnet trading CLI

Usage:
  tradebot <command> [flags]

Commands:
  place-order    Place a MARKET, LIMIT or STOP_MARKET order
  cancel-order   Cancel an open order by order id
  get-order      Query a single order by order id
  open-orders    List open orders, optionally filtered by symbol
  account        Show account balances
  exchange-info  Show trading rules for a symbol
  ping           Check connectivity to the testnet

Set BINANCE_API_KEY and BINANCE_API_SECRET before use.
Run 'tradebot <command> --help' for command flags.
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		fmt.Print(usageText)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\nSet BINANCE_API_KEY and BINANCE_API_SECRET, e.g.:\n"+
			"  export BINANCE_API_KEY=your_key\n  export BINANCE_API_SECRET=your_secret\n", err)
		return 1
	}

	logger := newLogger(cfg.LogLevel)

	client, err := newClient(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	command, flags := args[0], args[1:]
	switch command {
	case "place-order":
		return cmdPlaceOrder(cfg, client, logger, flags)
	case "cancel-order":
		return cmdCancelOrder(client, flags)
	case "get-order":
		return cmdGetOrder(client, flags)
	case "open-orders":
		return cmdOpenOrders(client, flags)
	case "account":
		return cmdAccount(client, flags)
	case "exchange-info":
		return cmdExchangeInfo(client, flags)
	case "ping":
		return cmdPing(client)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", command, usageText)
		return 2
	}
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Logger().Level(parsed)
}

func newClient(cfg *config.Config, logger zerolog.Logger) (*rest.Client, error) {
	signer := auth.NewSignerWithRecvWindow(cfg.APIKey, cfg.APISecret, cfg.RecvWindow)
	return rest.NewClient(cfg.BaseURL, signer,
		rest.WithTimeout(cfg.Timeout),
		rest.WithMaxRetries(cfg.MaxRetries),
		rest.WithLogger(logger.With().Str("component", "rest").Logger()),
	)
}

func cmdPlaceOrder(cfg *config.Config, client *rest.Client, logger zerolog.Logger, args []string) int {
	fs := pflag.NewFlagSet("place-order", pflag.ContinueOnError)
	symbol := fs.StringP("symbol", "s", "", "trading pair, e.g. BTCUSDT")
	side := fs.String("side", "", "order side: BUY or SELL")
	orderType := fs.String("type", "", "order type: MARKET | LIMIT | STOP_MARKET")
	quantity := fs.StringP("quantity", "q", "", "order quantity, e.g. 0.001")
	price := fs.StringP("price", "p", "", "limit price (LIMIT) or stop price (STOP_MARKET)")
	tif := fs.String("tif", "GTC", "time-in-force for LIMIT orders: GTC | IOC | FOK")
	reduceOnly := fs.Bool("reduce-only", false, "only reduce an existing position")
	positionSide := fs.String("position-side", "BOTH", "position side: BOTH | LONG | SHORT")
	if err := fs.Parse(args); err != nil {
		return flagError(err)
	}

	svcOpts := []orders.Option{}
	if cfg.Preflight {
		svcOpts = append(svcOpts, orders.WithPreflight())
	}
	svc := orders.NewService(client, logger.With().Str("component", "orders").Logger(), svcOpts...)

	placement, err := svc.Place(context.Background(), orders.PlaceParams{
		Symbol:       *symbol,
		Side:         *side,
		Type:         *orderType,
		Quantity:     *quantity,
		Price:        *price,
		TimeInForce:  *tif,
		ReduceOnly:   *reduceOnly,
		PositionSide: *positionSide,
	})
	if err != nil {
		return printError(err)
	}

	fmt.Println("Order placed:")
	fmt.Printf("  Order ID     : %d\n", placement.OrderID)
	fmt.Printf("  Symbol       : %s\n", placement.Symbol)
	fmt.Printf("  Side         : %s\n", placement.Side)
	fmt.Printf("  Type         : %s\n", placement.Type)
	fmt.Printf("  Status       : %s\n", placement.Status)
	fmt.Printf("  Orig Qty     : %s\n", placement.OrigQty)
	fmt.Printf("  Executed Qty : %s\n", placement.ExecutedQty)
	if placement.AvgPrice.IsPositive() {
		fmt.Printf("  Avg Price    : %s\n", placement.AvgPrice)
	}
	if placement.Price.IsPositive() {
		fmt.Printf("  Limit Price  : %s\n", placement.Price)
	}
	return 0
}

func cmdCancelOrder(client *rest.Client, args []string) int {
	fs := pflag.NewFlagSet("cancel-order", pflag.ContinueOnError)
	symbol := fs.StringP("symbol", "s", "", "trading pair, e.g. BTCUSDT")
	orderID := fs.Int64("order-id", 0, "the order id to cancel")
	if err := fs.Parse(args); err != nil {
		return flagError(err)
	}

	vSymbol, err := validate.Symbol(*symbol)
	if err != nil {
		return printError(err)
	}

	order, err := client.CancelOrder(context.Background(), vSymbol, *orderID)
	if err != nil {
		return printError(err)
	}

	fmt.Printf("Order cancelled: orderId=%d status=%s\n", order.OrderID, order.Status)
	return 0
}

func cmdGetOrder(client *rest.Client, args []string) int {
	fs := pflag.NewFlagSet("get-order", pflag.ContinueOnError)
	symbol := fs.StringP("symbol", "s", "", "trading pair, e.g. BTCUSDT")
	orderID := fs.Int64("order-id", 0, "the order id to query")
	if err := fs.Parse(args); err != nil {
		return flagError(err)
	}

	vSymbol, err := validate.Symbol(*symbol)
	if err != nil {
		return printError(err)
	}

	order, err := client.GetOrder(context.Background(), vSymbol, *orderID)
	if err != nil {
		return printError(err)
	}

	fmt.Printf("%-14s %-12s %-5s %-12s qty=%s price=%s status=%s\n",
		fmt.Sprint(order.OrderID), order.Symbol, order.Side, order.Type,
		order.OrigQty, order.Price, order.Status)
	return 0
}

func cmdOpenOrders(client *rest.Client, args []string) int {
	fs := pflag.NewFlagSet("open-orders", pflag.ContinueOnError)
	symbol := fs.StringP("symbol", "s", "", "filter by symbol (omit for all symbols)")
	if err := fs.Parse(args); err != nil {
		return flagError(err)
	}

	vSymbol := ""
	if *symbol != "" {
		var err error
		if vSymbol, err = validate.Symbol(*symbol); err != nil {
			return printError(err)
		}
	}

	list, err := client.GetOpenOrders(context.Background(), vSymbol)
	if err != nil {
		return printError(err)
	}

	if len(list) == 0 {
		fmt.Println("No open orders.")
		return 0
	}

	for _, order := range list {
		fmt.Printf("%-14s %-12s %-5s %-12s qty=%s price=%s status=%s\n",
			fmt.Sprint(order.OrderID), order.Symbol, order.Side, order.Type,
			order.OrigQty, order.Price, order.Status)
	}
	return 0
}

func cmdAccount(client *rest.Client, args []string) int {
	fs := pflag.NewFlagSet("account", pflag.ContinueOnError)
	showAll := fs.Bool("show-all", false, "include zero balances")
	if err := fs.Parse(args); err != nil {
		return flagError(err)
	}

	account, err := client.GetAccount(context.Background())
	if err != nil {
		return printError(err)
	}

	fmt.Printf("Total wallet balance: %s  available: %s\n",
		account.TotalWalletBalance, account.AvailableBalance)
	for _, asset := range account.Assets {
		if asset.WalletBalance.IsZero() && !*showAll {
			continue
		}
		fmt.Printf("  %-8s wallet=%-14s unrealized PnL=%s\n",
			asset.Asset, asset.WalletBalance, asset.UnrealizedProfit)
	}
	return 0
}

func cmdExchangeInfo(client *rest.Client, args []string) int {
	fs := pflag.NewFlagSet("exchange-info", pflag.ContinueOnError)
	symbol := fs.StringP("symbol", "s", "", "show rules for one symbol only")
	if err := fs.Parse(args); err != nil {
		return flagError(err)
	}

	vSymbol := ""
	if *symbol != "" {
		var err error
		if vSymbol, err = validate.Symbol(*symbol); err != nil {
			return printError(err)
		}
	}

	info, err := client.GetExchangeInfo(context.Background())
	if err != nil {
		return printError(err)
	}

	for _, sym := range info.Symbols {
		if vSymbol != "" && sym.Symbol != vSymbol {
			continue
		}
		fmt.Printf("%-12s status=%-10s base=%-6s quote=%-6s\n",
			sym.Symbol, sym.Status, sym.BaseAsset, sym.QuoteAsset)
		for _, filter := range sym.Filters {
			switch filter.FilterType {
			case "PRICE_FILTER":
				fmt.Printf("  %-16s min=%s max=%s tick=%s\n",
					filter.FilterType, filter.MinPrice, filter.MaxPrice, filter.TickSize)
			case "LOT_SIZE", "MARKET_LOT_SIZE":
				fmt.Printf("  %-16s min=%s max=%s step=%s\n",
					filter.FilterType, filter.MinQty, filter.MaxQty, filter.StepSize)
			case "MIN_NOTIONAL":
				fmt.Printf("  %-16s notional=%s\n", filter.FilterType, filter.MinNotional)
			}
		}
	}
	return 0
}

func cmdPing(client *rest.Client) int {
	if client.Ping(context.Background()) {
		fmt.Println("Testnet is reachable.")
		return 0
	}
	fmt.Fprintln(os.Stderr, "Testnet is NOT reachable.")
	return 1
}

func flagError(err error) int {
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	fmt.Fprintln(os.Stderr, err)
	return 2
}

// printError renders a failure for the user and maps it to exit code 1.
// The error kinds stay distinguishable so the hints can differ.
func printError(err error) int {
	var invalidErr *validate.InvalidInputError
	var apiErr *rest.APIError
	var netErr *rest.NetworkError

	switch {
	case errors.As(err, &invalidErr):
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
	case errors.As(err, &apiErr):
		fmt.Fprintf(os.Stderr, "API error %d: %s\n", apiErr.Code, apiErr.Message)
		if apiErr.IsAuthError() {
			fmt.Fprintln(os.Stderr, "Check BINANCE_API_KEY and BINANCE_API_SECRET.")
		}
	case errors.As(err, &netErr):
		fmt.Fprintf(os.Stderr, "Network error: %v\n", err)
	default:
		fmt.Fprintln(os.Stderr, err)
	}
	return 1
}

// Package validate normalises and checks raw order parameters before
// they reach the network. All functions are pure; the first invalid
// field wins.
package validate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"tradebot/internal/rest"
)

// InvalidInputError reports a user-supplied field that failed
// validation. It is surfaced before any network I/O happens.
type InvalidInputError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Order is a canonical, fully validated order description.
type Order struct {
	Symbol   string
	Side     string
	Type     string
	Quantity decimal.Decimal

	// Price doubles as limit price (LIMIT) and trigger price
	// (STOP_MARKET). HasPrice is false for MARKET orders.
	Price    decimal.Decimal
	HasPrice bool
}

// Symbol trims and upper-cases the trading pair. Only alphabetic
// symbols are accepted.
func Symbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return "", invalid("symbol", "cannot be empty")
	}
	for _, r := range symbol {
		if r < 'A' || r > 'Z' {
			return "", invalid("symbol", "'%s' must contain letters only (e.g. BTCUSDT)", symbol)
		}
	}
	return symbol, nil
}

// Side accepts BUY or SELL, case-insensitively.
func Side(raw string) (string, error) {
	side := strings.ToUpper(strings.TrimSpace(raw))
	switch side {
	case rest.SideBuy, rest.SideSell:
		return side, nil
	}
	return "", invalid("side", "'%s' must be BUY or SELL", side)
}

// OrderType accepts MARKET, LIMIT or STOP_MARKET, case-insensitively.
func OrderType(raw string) (string, error) {
	orderType := strings.ToUpper(strings.TrimSpace(raw))
	switch orderType {
	case rest.TypeMarket, rest.TypeLimit, rest.TypeStopMarket:
		return orderType, nil
	}
	return "", invalid("order type", "'%s' must be MARKET, LIMIT or STOP_MARKET", orderType)
}

// Quantity parses the order size as an exact decimal and requires it
// to be positive.
func Quantity(raw string) (decimal.Decimal, error) {
	qty, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, invalid("quantity", "'%s' is not a valid number", raw)
	}
	if !qty.IsPositive() {
		return decimal.Decimal{}, invalid("quantity", "must be greater than 0 (got %s)", qty)
	}
	return qty, nil
}

// Price validates the price field against the order type. LIMIT and
// STOP_MARKET require a positive value (the field is the limit price
// and the stop-trigger price respectively); MARKET ignores it
// entirely. The second return value reports whether a price applies.
func Price(raw string, orderType string) (decimal.Decimal, bool, error) {
	field := "price"
	if orderType == rest.TypeStopMarket {
		field = "stop price"
	}

	switch orderType {
	case rest.TypeLimit, rest.TypeStopMarket:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return decimal.Decimal{}, false, invalid(field, "required for %s orders", orderType)
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Decimal{}, false, invalid(field, "'%s' is not a valid number", raw)
		}
		if !price.IsPositive() {
			return decimal.Decimal{}, false, invalid(field, "must be greater than 0 (got %s)", price)
		}
		return price, true, nil
	}

	return decimal.Decimal{}, false, nil
}

// ValidateOrder runs every field validator in a fixed sequence
// (symbol, side, order type, quantity, price) and returns the first
// failure, so error messages are deterministic.
func ValidateOrder(symbol, side, orderType, quantity, price string) (*Order, error) {
	vSymbol, err := Symbol(symbol)
	if err != nil {
		return nil, err
	}

	vSide, err := Side(side)
	if err != nil {
		return nil, err
	}

	vType, err := OrderType(orderType)
	if err != nil {
		return nil, err
	}

	vQty, err := Quantity(quantity)
	if err != nil {
		return nil, err
	}

	vPrice, hasPrice, err := Price(price, vType)
	if err != nil {
		return nil, err
	}

	return &Order{
		Symbol:   vSymbol,
		Side:     vSide,
		Type:     vType,
		Quantity: vQty,
		Price:    vPrice,
		HasPrice: hasPrice,
	}, nil
}

// Package filters validates orders against the exchange's published
// trading rules (tick size, lot size, minimum notional). It is an
// optional pre-flight step: the exchange remains the authority.
package filters

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"tradebot/internal/rest"
	"tradebot/internal/validate"
)

// Validator checks validated orders against per-symbol filters.
type Validator struct {
	mu      sync.RWMutex
	filters map[string]*SymbolFilters
}

// NewValidator builds a validator from decoded symbol filters.
func NewValidator(symbols []SymbolFilters) *Validator {
	v := &Validator{
		filters: make(map[string]*SymbolFilters, len(symbols)),
	}
	for i := range symbols {
		v.filters[symbols[i].Symbol] = &symbols[i]
	}
	return v
}

// NewValidatorFromExchangeInfo is a convenience constructor for the
// common case of feeding exchange info straight in.
func NewValidatorFromExchangeInfo(info *rest.ExchangeInfo) *Validator {
	return NewValidator(FromExchangeInfo(info))
}

// Check validates an order against every filter of its symbol.
func (v *Validator) Check(order *validate.Order) error {
	v.mu.RLock()
	sf, exists := v.filters[order.Symbol]
	v.mu.RUnlock()

	if !exists {
		return fmt.Errorf("unknown symbol: %s", order.Symbol)
	}

	for _, filter := range sf.Filters {
		if err := filter.Validate(order); err != nil {
			return fmt.Errorf("%s: %w", filter.Type(), err)
		}
	}
	return nil
}

// RoundPrice rounds a price down to the symbol's tick grid. Prices for
// unknown symbols pass through unchanged.
func (v *Validator) RoundPrice(symbol string, price decimal.Decimal) decimal.Decimal {
	v.mu.RLock()
	sf, exists := v.filters[symbol]
	v.mu.RUnlock()

	if !exists {
		return price
	}

	for _, filter := range sf.Filters {
		if pf, ok := filter.(*PriceFilter); ok && !pf.TickSize.IsZero() {
			return price.Div(pf.TickSize).Floor().Mul(pf.TickSize)
		}
	}
	return price
}

// RoundQuantity rounds a quantity down to the symbol's step grid.
func (v *Validator) RoundQuantity(symbol string, quantity decimal.Decimal) decimal.Decimal {
	v.mu.RLock()
	sf, exists := v.filters[symbol]
	v.mu.RUnlock()

	if !exists {
		return quantity
	}

	for _, filter := range sf.Filters {
		if lf, ok := filter.(*LotSizeFilter); ok && !lf.StepSize.IsZero() {
			return quantity.Div(lf.StepSize).Floor().Mul(lf.StepSize)
		}
	}
	return quantity
}

// Validate implements Filter. MARKET orders have no price to check.
func (f *PriceFilter) Validate(order *validate.Order) error {
	if !order.HasPrice {
		return nil
	}

	if !f.MinPrice.IsZero() && order.Price.LessThan(f.MinPrice) {
		return fmt.Errorf("price below minimum: %s < %s", order.Price, f.MinPrice)
	}
	if !f.MaxPrice.IsZero() && order.Price.GreaterThan(f.MaxPrice) {
		return fmt.Errorf("price above maximum: %s > %s", order.Price, f.MaxPrice)
	}
	if !f.TickSize.IsZero() && !order.Price.Mod(f.TickSize).IsZero() {
		return fmt.Errorf("price %s not a multiple of tick size %s", order.Price, f.TickSize)
	}
	return nil
}

// Type implements Filter.
func (f *PriceFilter) Type() string { return "PRICE_FILTER" }

// Validate implements Filter.
func (f *LotSizeFilter) Validate(order *validate.Order) error {
	if !f.MinQty.IsZero() && order.Quantity.LessThan(f.MinQty) {
		return fmt.Errorf("quantity below minimum: %s < %s", order.Quantity, f.MinQty)
	}
	if !f.MaxQty.IsZero() && order.Quantity.GreaterThan(f.MaxQty) {
		return fmt.Errorf("quantity above maximum: %s > %s", order.Quantity, f.MaxQty)
	}
	if !f.StepSize.IsZero() && !order.Quantity.Mod(f.StepSize).IsZero() {
		return fmt.Errorf("quantity %s not a multiple of step size %s", order.Quantity, f.StepSize)
	}
	return nil
}

// Type implements Filter.
func (f *LotSizeFilter) Type() string { return "LOT_SIZE" }

// Validate implements Filter.
func (f *MarketLotSizeFilter) Validate(order *validate.Order) error {
	if order.Type != rest.TypeMarket {
		return nil
	}

	if !f.MinQty.IsZero() && order.Quantity.LessThan(f.MinQty) {
		return fmt.Errorf("quantity below minimum: %s < %s", order.Quantity, f.MinQty)
	}
	if !f.MaxQty.IsZero() && order.Quantity.GreaterThan(f.MaxQty) {
		return fmt.Errorf("quantity above maximum: %s > %s", order.Quantity, f.MaxQty)
	}
	if !f.StepSize.IsZero() && !order.Quantity.Mod(f.StepSize).IsZero() {
		return fmt.Errorf("quantity %s not a multiple of step size %s", order.Quantity, f.StepSize)
	}
	return nil
}

// Type implements Filter.
func (f *MarketLotSizeFilter) Type() string { return "MARKET_LOT_SIZE" }

// Validate implements Filter. Without a price the notional is unknown,
// so MARKET orders are left for the exchange to judge.
func (f *MinNotionalFilter) Validate(order *validate.Order) error {
	if !order.HasPrice || f.MinNotional.IsZero() {
		return nil
	}

	notional := order.Price.Mul(order.Quantity)
	if notional.LessThan(f.MinNotional) {
		return fmt.Errorf("order value below minimum notional: %s < %s", notional, f.MinNotional)
	}
	return nil
}

// Type implements Filter.
func (f *MinNotionalFilter) Type() string { return "MIN_NOTIONAL" }

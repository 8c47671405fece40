package filters

import (
	"github.com/shopspring/decimal"

	"tradebot/internal/rest"
	"tradebot/internal/validate"
)

// Filter is one trading rule applied to a validated order.
type Filter interface {
	Type() string
	Validate(order *validate.Order) error
}

// SymbolFilters groups the decoded trading rules of one contract.
type SymbolFilters struct {
	Symbol  string
	Filters []Filter
}

// PriceFilter bounds prices and pins them to the tick grid.
type PriceFilter struct {
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	TickSize decimal.Decimal
}

// LotSizeFilter bounds quantities and pins them to the step grid.
type LotSizeFilter struct {
	MinQty   decimal.Decimal
	MaxQty   decimal.Decimal
	StepSize decimal.Decimal
}

// MarketLotSizeFilter bounds quantities for MARKET orders only.
type MarketLotSizeFilter struct {
	MinQty   decimal.Decimal
	MaxQty   decimal.Decimal
	StepSize decimal.Decimal
}

// MinNotionalFilter enforces a minimum order value.
type MinNotionalFilter struct {
	MinNotional decimal.Decimal
}

// FromExchangeInfo decodes raw exchange-info filter entries into typed
// filters. Unknown filter types are skipped; unparsable bounds decode
// to zero, which the validators treat as "no constraint".
func FromExchangeInfo(info *rest.ExchangeInfo) []SymbolFilters {
	symbols := make([]SymbolFilters, 0, len(info.Symbols))

	for _, sym := range info.Symbols {
		sf := SymbolFilters{Symbol: sym.Symbol}

		for _, raw := range sym.Filters {
			switch raw.FilterType {
			case "PRICE_FILTER":
				sf.Filters = append(sf.Filters, &PriceFilter{
					MinPrice: parseDecimal(raw.MinPrice),
					MaxPrice: parseDecimal(raw.MaxPrice),
					TickSize: parseDecimal(raw.TickSize),
				})
			case "LOT_SIZE":
				sf.Filters = append(sf.Filters, &LotSizeFilter{
					MinQty:   parseDecimal(raw.MinQty),
					MaxQty:   parseDecimal(raw.MaxQty),
					StepSize: parseDecimal(raw.StepSize),
				})
			case "MARKET_LOT_SIZE":
				sf.Filters = append(sf.Filters, &MarketLotSizeFilter{
					MinQty:   parseDecimal(raw.MinQty),
					MaxQty:   parseDecimal(raw.MaxQty),
					StepSize: parseDecimal(raw.StepSize),
				})
			case "MIN_NOTIONAL":
				sf.Filters = append(sf.Filters, &MinNotionalFilter{
					MinNotional: parseDecimal(raw.MinNotional),
				})
			}
		}

		symbols = append(symbols, sf)
	}

	return symbols
}

func parseDecimal(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

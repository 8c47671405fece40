package filters

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebot/internal/rest"
	"tradebot/internal/validate"
)

func btcFilters() []SymbolFilters {
	return []SymbolFilters{{
		Symbol: "BTCUSDT",
		Filters: []Filter{
			&PriceFilter{
				MinPrice: decimal.RequireFromString("556.80"),
				MaxPrice: decimal.RequireFromString("4529764"),
				TickSize: decimal.RequireFromString("0.10"),
			},
			&LotSizeFilter{
				MinQty:   decimal.RequireFromString("0.001"),
				MaxQty:   decimal.RequireFromString("1000"),
				StepSize: decimal.RequireFromString("0.001"),
			},
			&MinNotionalFilter{
				MinNotional: decimal.RequireFromString("100"),
			},
		},
	}}
}

func limitOrder(price, qty string) *validate.Order {
	return &validate.Order{
		Symbol:   "BTCUSDT",
		Side:     "BUY",
		Type:     "LIMIT",
		Quantity: decimal.RequireFromString(qty),
		Price:    decimal.RequireFromString(price),
		HasPrice: true,
	}
}

func TestValidatorCheck(t *testing.T) {
	v := NewValidator(btcFilters())

	t.Run("accepts a conforming order", func(t *testing.T) {
		assert.NoError(t, v.Check(limitOrder("100000.50", "0.002")))
	})

	t.Run("rejects unknown symbols", func(t *testing.T) {
		order := limitOrder("100000", "0.002")
		order.Symbol = "DOGEUSDT"
		assert.ErrorContains(t, v.Check(order), "unknown symbol")
	})

	t.Run("rejects prices off the tick grid", func(t *testing.T) {
		assert.ErrorContains(t, v.Check(limitOrder("100000.55", "0.002")), "tick size")
	})

	t.Run("rejects prices out of bounds", func(t *testing.T) {
		assert.ErrorContains(t, v.Check(limitOrder("100", "1")), "below minimum")
		assert.ErrorContains(t, v.Check(limitOrder("5000000", "1")), "above maximum")
	})

	t.Run("rejects quantities off the step grid", func(t *testing.T) {
		assert.ErrorContains(t, v.Check(limitOrder("100000", "0.0015")), "step size")
	})

	t.Run("rejects sub-minimum notional", func(t *testing.T) {
		assert.ErrorContains(t, v.Check(limitOrder("1000", "0.001")), "notional")
	})

	t.Run("market orders skip price and notional checks", func(t *testing.T) {
		order := &validate.Order{
			Symbol:   "BTCUSDT",
			Side:     "SELL",
			Type:     "MARKET",
			Quantity: decimal.RequireFromString("0.001"),
		}
		assert.NoError(t, v.Check(order))
	})
}

func TestRounding(t *testing.T) {
	v := NewValidator(btcFilters())

	t.Run("rounds price down to the tick grid", func(t *testing.T) {
		rounded := v.RoundPrice("BTCUSDT", decimal.RequireFromString("100000.57"))
		assert.True(t, decimal.RequireFromString("100000.5").Equal(rounded), "got %s", rounded)
	})

	t.Run("rounds quantity down to the step grid", func(t *testing.T) {
		rounded := v.RoundQuantity("BTCUSDT", decimal.RequireFromString("0.0019"))
		assert.True(t, decimal.RequireFromString("0.001").Equal(rounded), "got %s", rounded)
	})

	t.Run("passes unknown symbols through", func(t *testing.T) {
		price := decimal.RequireFromString("1.2345")
		assert.True(t, price.Equal(v.RoundPrice("DOGEUSDT", price)))
		assert.True(t, price.Equal(v.RoundQuantity("DOGEUSDT", price)))
	})
}

func TestFromExchangeInfo(t *testing.T) {
	info := &rest.ExchangeInfo{
		Symbols: []rest.Symbol{{
			Symbol: "BTCUSDT",
			Filters: []rest.SymbolFilter{
				{FilterType: "PRICE_FILTER", MinPrice: "556.80", MaxPrice: "4529764", TickSize: "0.10"},
				{FilterType: "LOT_SIZE", MinQty: "0.001", MaxQty: "1000", StepSize: "0.001"},
				{FilterType: "MARKET_LOT_SIZE", MinQty: "0.001", MaxQty: "120", StepSize: "0.001"},
				{FilterType: "MIN_NOTIONAL", MinNotional: "100"},
				{FilterType: "PERCENT_PRICE", MinPrice: "0.05"}, // unknown type, skipped
			},
		}},
	}

	symbols := FromExchangeInfo(info)
	require.Len(t, symbols, 1)
	assert.Equal(t, "BTCUSDT", symbols[0].Symbol)
	assert.Len(t, symbols[0].Filters, 4)

	v := NewValidatorFromExchangeInfo(info)
	assert.NoError(t, v.Check(limitOrder("100000.50", "0.002")))

	t.Run("market lot size applies to market orders only", func(t *testing.T) {
		order := &validate.Order{
			Symbol:   "BTCUSDT",
			Type:     "MARKET",
			Quantity: decimal.RequireFromString("500"), // above MARKET_LOT_SIZE max, below LOT_SIZE max
		}
		assert.ErrorContains(t, v.Check(order), "MARKET_LOT_SIZE")

		order.Type = "LIMIT"
		order.Price = decimal.RequireFromString("100000.50")
		order.HasPrice = true
		assert.NoError(t, v.Check(order))
	})
}

package validate

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbol(t *testing.T) {
	t.Run("trims and upper-cases", func(t *testing.T) {
		symbol, err := Symbol("  btcusdt ")
		require.NoError(t, err)
		assert.Equal(t, "BTCUSDT", symbol)
	})

	t.Run("accepts already canonical input", func(t *testing.T) {
		symbol, err := Symbol("ETHUSDT")
		require.NoError(t, err)
		assert.Equal(t, "ETHUSDT", symbol)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := Symbol("   ")
		var invalidErr *InvalidInputError
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, "symbol", invalidErr.Field)
	})

	t.Run("rejects digits and symbols", func(t *testing.T) {
		for _, raw := range []string{"BTC1USDT", "BTC/USDT", "BTC USDT", "BTC-USDT", "42"} {
			_, err := Symbol(raw)
			assert.Error(t, err, "expected %q to fail", raw)
		}
	})
}

func TestSide(t *testing.T) {
	t.Run("normalises case", func(t *testing.T) {
		side, err := Side(" buy ")
		require.NoError(t, err)
		assert.Equal(t, "BUY", side)

		side, err = Side("Sell")
		require.NoError(t, err)
		assert.Equal(t, "SELL", side)
	})

	t.Run("rejects anything else", func(t *testing.T) {
		for _, raw := range []string{"", "HOLD", "LONG", "B"} {
			_, err := Side(raw)
			assert.Error(t, err, "expected %q to fail", raw)
		}
	})
}

func TestOrderType(t *testing.T) {
	t.Run("accepts the three supported types", func(t *testing.T) {
		for _, raw := range []string{"market", " LIMIT ", "stop_market"} {
			orderType, err := OrderType(raw)
			require.NoError(t, err)
			assert.Contains(t, []string{"MARKET", "LIMIT", "STOP_MARKET"}, orderType)
		}
	})

	t.Run("rejects unsupported types", func(t *testing.T) {
		for _, raw := range []string{"", "STOP_LIMIT", "TRAILING_STOP", "OCO"} {
			_, err := OrderType(raw)
			assert.Error(t, err, "expected %q to fail", raw)
		}
	})
}

func TestQuantity(t *testing.T) {
	t.Run("parses exact decimals", func(t *testing.T) {
		qty, err := Quantity("0.001")
		require.NoError(t, err)
		assert.True(t, qty.Equal(decimal.RequireFromString("0.001")))
		assert.Equal(t, "0.001", qty.String())
	})

	t.Run("rejects non-numbers", func(t *testing.T) {
		for _, raw := range []string{"", "abc", "1.2.3", "1e"} {
			_, err := Quantity(raw)
			assert.Error(t, err, "expected %q to fail", raw)
		}
	})

	t.Run("rejects zero and negatives", func(t *testing.T) {
		_, err := Quantity("0")
		assert.Error(t, err)

		_, err = Quantity("-0.5")
		assert.Error(t, err)
	})
}

func TestPrice(t *testing.T) {
	t.Run("market orders ignore the price entirely", func(t *testing.T) {
		for _, raw := range []string{"", "10.5", "garbage", "-3"} {
			price, hasPrice, err := Price(raw, "MARKET")
			require.NoError(t, err, "input %q", raw)
			assert.False(t, hasPrice)
			assert.True(t, price.IsZero())
		}
	})

	t.Run("limit orders require a positive price", func(t *testing.T) {
		price, hasPrice, err := Price("10.5", "LIMIT")
		require.NoError(t, err)
		assert.True(t, hasPrice)
		assert.Equal(t, "10.5", price.String())

		_, _, err = Price("", "LIMIT")
		assert.ErrorContains(t, err, "required for LIMIT")

		_, _, err = Price("0", "LIMIT")
		assert.Error(t, err)

		_, _, err = Price("-1", "LIMIT")
		assert.Error(t, err)
	})

	t.Run("stop market orders require a positive stop price", func(t *testing.T) {
		price, hasPrice, err := Price("95000", "STOP_MARKET")
		require.NoError(t, err)
		assert.True(t, hasPrice)
		assert.Equal(t, "95000", price.String())

		_, _, err = Price("", "STOP_MARKET")
		assert.ErrorContains(t, err, "stop price")

		_, _, err = Price("0", "STOP_MARKET")
		assert.Error(t, err)
	})

	t.Run("preserves exact decimal representation", func(t *testing.T) {
		price, _, err := Price("100000.00000001", "LIMIT")
		require.NoError(t, err)
		assert.True(t, price.Equal(decimal.RequireFromString("100000.00000001")))
	})
}

func TestValidateOrder(t *testing.T) {
	t.Run("returns a canonical order", func(t *testing.T) {
		order, err := ValidateOrder(" btcusdt ", "buy", "limit", "0.001", "100000")

		require.NoError(t, err)
		assert.Equal(t, "BTCUSDT", order.Symbol)
		assert.Equal(t, "BUY", order.Side)
		assert.Equal(t, "LIMIT", order.Type)
		assert.Equal(t, "0.001", order.Quantity.String())
		assert.True(t, order.HasPrice)
		assert.Equal(t, "100000", order.Price.String())
	})

	t.Run("market order carries no price", func(t *testing.T) {
		order, err := ValidateOrder("BTCUSDT", "SELL", "MARKET", "1", "")

		require.NoError(t, err)
		assert.False(t, order.HasPrice)
	})

	t.Run("fails fast on the first invalid field", func(t *testing.T) {
		// Symbol and side are both invalid; the symbol check runs first.
		_, err := ValidateOrder("BTC-USDT", "HOLD", "MARKET", "1", "")

		var invalidErr *InvalidInputError
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, "symbol", invalidErr.Field)
	})

	t.Run("reports side before order type", func(t *testing.T) {
		_, err := ValidateOrder("BTCUSDT", "HOLD", "NOPE", "1", "")

		var invalidErr *InvalidInputError
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, "side", invalidErr.Field)
	})

	t.Run("price is validated against the normalised type", func(t *testing.T) {
		_, err := ValidateOrder("BTCUSDT", "BUY", " limit ", "1", "")
		assert.ErrorContains(t, err, "required for LIMIT")
	})

	t.Run("errors are matchable by type", func(t *testing.T) {
		_, err := ValidateOrder("BTCUSDT", "BUY", "LIMIT", "zero", "1")

		var invalidErr *InvalidInputError
		assert.True(t, errors.As(err, &invalidErr))
	})
}

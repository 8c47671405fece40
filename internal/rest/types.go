package rest

import (
	"github.com/shopspring/decimal"
)

// Order sides.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Order types accepted by the futures testnet.
const (
	TypeMarket     = "MARKET"
	TypeLimit      = "LIMIT"
	TypeStopMarket = "STOP_MARKET"
)

// PositionSideBoth is the default position side for one-way mode.
const PositionSideBoth = "BOTH"

// OrderRequest describes a futures order to be placed.
type OrderRequest struct {
	Symbol       string
	Side         string // BUY or SELL
	Type         string // MARKET, LIMIT or STOP_MARKET
	Quantity     decimal.Decimal
	Price        decimal.Decimal // limit price, LIMIT only
	StopPrice    decimal.Decimal // trigger price, STOP_MARKET only
	TimeInForce  string          // GTC, IOC, FOK; LIMIT only, defaults to GTC
	ReduceOnly   bool
	PositionSide string // BOTH (default), LONG or SHORT
}

// OrderResponse is the exchange's view of an order, returned by
// placement, cancellation and queries alike.
type OrderResponse struct {
	OrderID       int64           `json:"orderId"`
	Symbol        string          `json:"symbol"`
	Status        string          `json:"status"`
	ClientOrderID string          `json:"clientOrderId"`
	Price         decimal.Decimal `json:"price"`
	AvgPrice      decimal.Decimal `json:"avgPrice"`
	OrigQty       decimal.Decimal `json:"origQty"`
	ExecutedQty   decimal.Decimal `json:"executedQty"`
	CumQty        decimal.Decimal `json:"cumQty"`
	CumQuote      decimal.Decimal `json:"cumQuote"`
	TimeInForce   string          `json:"timeInForce"`
	Type          string          `json:"type"`
	OrigType      string          `json:"origType"`
	ReduceOnly    bool            `json:"reduceOnly"`
	ClosePosition bool            `json:"closePosition"`
	Side          string          `json:"side"`
	PositionSide  string          `json:"positionSide"`
	StopPrice     decimal.Decimal `json:"stopPrice"`
	WorkingType   string          `json:"workingType"`
	Time          int64           `json:"time"`
	UpdateTime    int64           `json:"updateTime"`
}

// AccountResponse holds futures account balances and positions.
type AccountResponse struct {
	TotalWalletBalance    decimal.Decimal `json:"totalWalletBalance"`
	TotalUnrealizedProfit decimal.Decimal `json:"totalUnrealizedProfit"`
	TotalMarginBalance    decimal.Decimal `json:"totalMarginBalance"`
	AvailableBalance      decimal.Decimal `json:"availableBalance"`
	MaxWithdrawAmount     decimal.Decimal `json:"maxWithdrawAmount"`
	CanTrade              bool            `json:"canTrade"`
	CanDeposit            bool            `json:"canDeposit"`
	CanWithdraw           bool            `json:"canWithdraw"`
	UpdateTime            int64           `json:"updateTime"`
	Assets                []Asset         `json:"assets"`
	Positions             []Position      `json:"positions"`
}

// Asset is a single futures wallet asset.
type Asset struct {
	Asset            string          `json:"asset"`
	WalletBalance    decimal.Decimal `json:"walletBalance"`
	UnrealizedProfit decimal.Decimal `json:"unrealizedProfit"`
	MarginBalance    decimal.Decimal `json:"marginBalance"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
}

// Position is an open futures position.
type Position struct {
	Symbol           string          `json:"symbol"`
	PositionSide     string          `json:"positionSide"`
	PositionAmt      decimal.Decimal `json:"positionAmt"`
	EntryPrice       decimal.Decimal `json:"entryPrice"`
	UnrealizedProfit decimal.Decimal `json:"unrealizedProfit"`
	Leverage         string          `json:"leverage"`
	Isolated         bool            `json:"isolated"`
}

// ExchangeInfo holds futures trading rules and symbol metadata.
type ExchangeInfo struct {
	Timezone   string   `json:"timezone"`
	ServerTime int64    `json:"serverTime"`
	Symbols    []Symbol `json:"symbols"`
}

// Symbol describes one tradable futures contract.
type Symbol struct {
	Symbol            string         `json:"symbol"`
	Status            string         `json:"status"`
	BaseAsset         string         `json:"baseAsset"`
	QuoteAsset        string         `json:"quoteAsset"`
	PricePrecision    int            `json:"pricePrecision"`
	QuantityPrecision int            `json:"quantityPrecision"`
	OrderTypes        []string       `json:"orderTypes"`
	TimeInForce       []string       `json:"timeInForce"`
	Filters           []SymbolFilter `json:"filters"`
}

// SymbolFilter is one raw trading-rule entry from exchange info.
// Numeric bounds arrive as strings; decoding into decimals is left to
// the filters package so unknown filter types pass through untouched.
type SymbolFilter struct {
	FilterType  string `json:"filterType"`
	MinPrice    string `json:"minPrice"`
	MaxPrice    string `json:"maxPrice"`
	TickSize    string `json:"tickSize"`
	MinQty      string `json:"minQty"`
	MaxQty      string `json:"maxQty"`
	StepSize    string `json:"stepSize"`
	MinNotional string `json:"notional"`
}

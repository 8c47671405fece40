// Package orders sits between the CLI layer and the REST client: it
// validates raw inputs, assembles the request, and normalises the
// exchange's response for display.
package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"tradebot/internal/filters"
	"tradebot/internal/rest"
	"tradebot/internal/validate"
)

// Exchange is the slice of the REST client the service depends on.
type Exchange interface {
	PlaceOrder(ctx context.Context, req *rest.OrderRequest) (*rest.OrderResponse, error)
	GetExchangeInfo(ctx context.Context) (*rest.ExchangeInfo, error)
}

// Service handles order placement.
type Service struct {
	exchange  Exchange
	logger    zerolog.Logger
	preflight bool
}

// Option configures the service.
type Option func(*Service)

// WithPreflight enables checking orders against the exchange's symbol
// filters before submitting them.
func WithPreflight() Option {
	return func(s *Service) {
		s.preflight = true
	}
}

// NewService creates an order placement service.
func NewService(exchange Exchange, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		exchange: exchange,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceParams carries raw, unvalidated order parameters.
type PlaceParams struct {
	Symbol       string
	Side         string
	Type         string
	Quantity     string
	Price        string // limit price or stop-trigger price, by type
	TimeInForce  string // LIMIT only; defaults to GTC
	ReduceOnly   bool
	PositionSide string // defaults to BOTH
}

// Placement is the normalised view of a placed order.
type Placement struct {
	OrderID     int64
	Symbol      string
	Side        string
	Type        string
	Status      string
	Price       decimal.Decimal
	AvgPrice    decimal.Decimal
	OrigQty     decimal.Decimal
	ExecutedQty decimal.Decimal
	TimeInForce string
	UpdateTime  int64
}

// Place validates params, optionally pre-checks them against exchange
// filters, submits the order and returns the normalised response.
// Validation failures surface before any network I/O.
func (s *Service) Place(ctx context.Context, params PlaceParams) (*Placement, error) {
	s.logger.Debug().
		Str("symbol", params.Symbol).
		Str("side", params.Side).
		Str("type", params.Type).
		Str("quantity", params.Quantity).
		Str("price", params.Price).
		Msg("validating order input")

	order, err := validate.ValidateOrder(params.Symbol, params.Side, params.Type, params.Quantity, params.Price)
	if err != nil {
		return nil, err
	}

	if s.preflight {
		if err := s.runPreflight(ctx, order); err != nil {
			return nil, err
		}
	}

	req := &rest.OrderRequest{
		Symbol:       order.Symbol,
		Side:         order.Side,
		Type:         order.Type,
		Quantity:     order.Quantity,
		ReduceOnly:   params.ReduceOnly,
		PositionSide: strings.ToUpper(strings.TrimSpace(params.PositionSide)),
	}

	switch order.Type {
	case rest.TypeLimit:
		req.Price = order.Price
		req.TimeInForce = strings.ToUpper(strings.TrimSpace(params.TimeInForce))
	case rest.TypeStopMarket:
		req.StopPrice = order.Price
	}

	resp, err := s.exchange.PlaceOrder(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", order.Symbol).Msg("order placement failed")
		return nil, err
	}

	placement := newPlacement(resp)
	s.logger.Info().
		Int64("order_id", placement.OrderID).
		Str("symbol", placement.Symbol).
		Str("status", placement.Status).
		Str("executed_qty", placement.ExecutedQty.String()).
		Msg("order complete")

	return placement, nil
}

// runPreflight fetches the current trading rules and checks the order
// against them.
func (s *Service) runPreflight(ctx context.Context, order *validate.Order) error {
	info, err := s.exchange.GetExchangeInfo(ctx)
	if err != nil {
		return fmt.Errorf("preflight: %w", err)
	}

	if err := filters.NewValidatorFromExchangeInfo(info).Check(order); err != nil {
		return fmt.Errorf("preflight: %w", err)
	}
	return nil
}

func newPlacement(resp *rest.OrderResponse) *Placement {
	return &Placement{
		OrderID:     resp.OrderID,
		Symbol:      resp.Symbol,
		Side:        resp.Side,
		Type:        resp.Type,
		Status:      resp.Status,
		Price:       resp.Price,
		AvgPrice:    resp.AvgPrice,
		OrigQty:     resp.OrigQty,
		ExecutedQty: resp.ExecutedQty,
		TimeInForce: resp.TimeInForce,
		UpdateTime:  resp.UpdateTime,
	}
}

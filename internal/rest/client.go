package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tradebot/internal/auth"
)

// DefaultBaseURL points at the Binance USDT-M futures testnet.
const DefaultBaseURL = "https://testnet.binancefuture.com"

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = 1 * time.Second
)

// Client executes authenticated and public calls against the futures
// REST API. One HTTP session is reused across sequential calls; the
// client issues at most one request at a time.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	signer      *auth.Signer
	maxRetries  int
	backoffBase time.Duration
	sleep       func(time.Duration)
	logger      zerolog.Logger
}

// Option configures the client.
type Option func(*Client)

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithMaxRetries sets how many attempts a single call may make.
func WithMaxRetries(maxRetries int) Option {
	return func(c *Client) {
		if maxRetries > 0 {
			c.maxRetries = maxRetries
		}
	}
}

// WithBackoffBase overrides the first retry delay. The delay doubles
// on every subsequent attempt.
func WithBackoffBase(base time.Duration) Option {
	return func(c *Client) {
		if base > 0 {
			c.backoffBase = base
		}
	}
}

// WithLogger injects a logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a REST client for the given base URL. The signer
// must carry a non-empty key and secret; the client refuses to
// initialise otherwise.
func NewClient(baseURL string, signer *auth.Signer, opts ...Option) (*Client, error) {
	if signer == nil || !signer.HasCredentials() {
		return nil, &ConfigError{Reason: "API key and secret must not be empty"}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: defaultTimeout},
		signer:      signer,
		maxRetries:  defaultMaxRetries,
		backoffBase: defaultBackoffBase,
		sleep:       time.Sleep,
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	client.logger.Info().Str("base_url", client.baseURL).Msg("REST client initialised")
	return client, nil
}

// BaseURL returns the base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request HTTP timeout.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// MaxRetries returns the maximum attempts per call.
func (c *Client) MaxRetries() int {
	return c.maxRetries
}

// Ping reports whether the testnet is reachable. Any failure is
// swallowed into false.
func (c *Client) Ping(ctx context.Context) bool {
	if _, err := c.doRequest(ctx, http.MethodGet, "/fapi/v1/ping", nil, false); err != nil {
		c.logger.Warn().Err(err).Msg("ping failed")
		return false
	}
	return true
}

// GetExchangeInfo fetches trading rules and symbol metadata.
func (c *Client) GetExchangeInfo(ctx context.Context) (*ExchangeInfo, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/fapi/v1/exchangeInfo", nil, false)
	if err != nil {
		return nil, errorWithContext(err, "GetExchangeInfo")
	}

	var info ExchangeInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, errorWithContext(err, "GetExchangeInfo")
	}
	return &info, nil
}

// GetAccount fetches account balances and positions.
func (c *Client) GetAccount(ctx context.Context) (*AccountResponse, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/fapi/v2/account", nil, true)
	if err != nil {
		return nil, errorWithContext(err, "GetAccount")
	}

	var account AccountResponse
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, errorWithContext(err, "GetAccount")
	}
	return &account, nil
}

// PlaceOrder submits a new order. The parameter set is assembled
// conditionally: price and timeInForce only for LIMIT (GTC when
// unspecified), stopPrice only for STOP_MARKET, reduceOnly only when
// set.
func (c *Client) PlaceOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if req.Side == "" {
		return nil, fmt.Errorf("side is required")
	}
	if req.Type == "" {
		return nil, fmt.Errorf("type is required")
	}
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("quantity is required")
	}
	if req.Type == TypeLimit && !req.Price.IsPositive() {
		return nil, fmt.Errorf("price is required for LIMIT orders")
	}
	if req.Type == TypeStopMarket && !req.StopPrice.IsPositive() {
		return nil, fmt.Errorf("stopPrice is required for STOP_MARKET orders")
	}

	params := url.Values{}
	params.Set("symbol", req.Symbol)
	params.Set("side", req.Side)
	params.Set("type", req.Type)
	params.Set("quantity", req.Quantity.String())

	positionSide := req.PositionSide
	if positionSide == "" {
		positionSide = PositionSideBoth
	}
	params.Set("positionSide", positionSide)

	if req.Type == TypeLimit {
		params.Set("price", req.Price.String())
		tif := req.TimeInForce
		if tif == "" {
			tif = "GTC"
		}
		params.Set("timeInForce", tif)
	}
	if req.Type == TypeStopMarket {
		params.Set("stopPrice", req.StopPrice.String())
	}
	if req.ReduceOnly {
		params.Set("reduceOnly", "true")
	}

	c.logger.Info().
		Str("symbol", req.Symbol).
		Str("side", req.Side).
		Str("type", req.Type).
		Str("quantity", req.Quantity.String()).
		Msg("placing order")

	body, err := c.doRequest(ctx, http.MethodPost, "/fapi/v1/order", params, true)
	if err != nil {
		return nil, errorWithContext(err, "PlaceOrder")
	}

	var order OrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, errorWithContext(err, "PlaceOrder")
	}

	c.logger.Info().Int64("order_id", order.OrderID).Str("status", order.Status).Msg("order placed")
	return &order, nil
}

// CancelOrder cancels an open order by orderId.
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) (*OrderResponse, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if orderID <= 0 {
		return nil, fmt.Errorf("orderID is required")
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", strconv.FormatInt(orderID, 10))

	body, err := c.doRequest(ctx, http.MethodDelete, "/fapi/v1/order", params, true)
	if err != nil {
		return nil, errorWithContext(err, "CancelOrder")
	}

	var order OrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, errorWithContext(err, "CancelOrder")
	}
	return &order, nil
}

// GetOpenOrders lists open orders, optionally filtered by symbol.
func (c *Client) GetOpenOrders(ctx context.Context, symbol string) ([]OrderResponse, error) {
	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", symbol)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/fapi/v1/openOrders", params, true)
	if err != nil {
		return nil, errorWithContext(err, "GetOpenOrders")
	}

	var orders []OrderResponse
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, errorWithContext(err, "GetOpenOrders")
	}
	return orders, nil
}

// GetOrder queries a single order by orderId.
func (c *Client) GetOrder(ctx context.Context, symbol string, orderID int64) (*OrderResponse, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if orderID <= 0 {
		return nil, fmt.Errorf("orderID is required")
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", strconv.FormatInt(orderID, 10))

	body, err := c.doRequest(ctx, http.MethodGet, "/fapi/v1/order", params, true)
	if err != nil {
		return nil, errorWithContext(err, "GetOrder")
	}

	var order OrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, errorWithContext(err, "GetOrder")
	}
	return &order, nil
}

// doRequest executes one API call with bounded retry. Transport
// failures are retried with exponential backoff; a well-formed API
// rejection returns immediately.
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, signed bool) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	if signed {
		params = c.signer.SignedRequest(params)
	}

	requestURL := c.baseURL + path
	encoded := params.Encode()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Str("params", redactSignature(params)).
		Msg("sending request")

	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		body, retryable, err := c.attempt(ctx, method, requestURL, encoded)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}

		lastErr = err
		c.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_retries", c.maxRetries).
			Str("method", method).
			Str("path", path).
			Msg("transport failure")

		if attempt < c.maxRetries {
			delay := c.backoffDelay(attempt)
			c.logger.Info().Dur("delay", delay).Msg("retrying after backoff")
			c.sleep(delay)
		}
	}

	return nil, &NetworkError{
		Method:   method,
		URL:      requestURL,
		Attempts: c.maxRetries,
		Err:      lastErr,
	}
}

// attempt performs a single HTTP exchange. The second return value
// reports whether the failure is a transient transport condition.
func (c *Client) attempt(ctx context.Context, method, requestURL, encoded string) ([]byte, bool, error) {
	var body io.Reader
	target := requestURL

	// GET and DELETE carry parameters in the query string, POST in a
	// form-encoded body.
	if method == http.MethodPost {
		body = strings.NewReader(encoded)
	} else if encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.signer.APIKey())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Caller cancellation is not a transient fault.
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, err
	}

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, true, err
	}

	c.logger.Debug().
		Str("method", method).
		Int("status", resp.StatusCode).
		Msg("received response")

	// A parseable error payload is a definitive rejection, whatever
	// the status line says.
	if apiErr := decodeAPIError(respBody, resp.StatusCode); apiErr != nil {
		return nil, false, apiErr
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, false, nil
	}

	// Opaque gateway failures are worth another attempt; anything else
	// is not going to change.
	retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
	return nil, retryable, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
}

// backoffDelay returns the sleep before the next attempt: the base
// doubles with every failed attempt (1s, 2s, 4s, ... by default).
func (c *Client) backoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 30 {
		attempt = 30
	}
	return c.backoffBase * time.Duration(1<<(attempt-1))
}

// redactSignature renders params for logging with the signature value
// masked.
func redactSignature(params url.Values) string {
	if params.Get("signature") == "" {
		return params.Encode()
	}
	clone := make(url.Values, len(params))
	for key, values := range params {
		for _, value := range values {
			if key == "signature" {
				value = "***"
			}
			clone.Add(key, value)
		}
	}
	return clone.Encode()
}

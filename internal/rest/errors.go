package rest

import (
	"encoding/json"
	"fmt"
)

// apiSuccessCode is the sentinel Binance uses for "no error" when a
// code field appears in an otherwise successful payload.
const apiSuccessCode = 200

// APIError is a well-formed rejection returned by the exchange.
// It is never retried: repeating the request cannot change the outcome.
type APIError struct {
	Code       int64  `json:"code"`
	Message    string `json:"msg"`
	HTTPStatus int    `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("binance API error %d: %s", e.Code, e.Message)
}

// IsAuthError reports whether the rejection concerns credentials.
func (e *APIError) IsAuthError() bool {
	switch e.Code {
	case -1022, -2014, -2015: // bad signature, malformed key, invalid key/IP/permissions
		return true
	}
	return false
}

// IsOrderError reports whether the rejection concerns the order itself
// (insufficient balance, unknown order, and similar).
func (e *APIError) IsOrderError() bool {
	switch e.Code {
	case -2010, -2011, -2013:
		return true
	}
	return false
}

// NetworkError is raised when the transport keeps failing and all
// attempts are exhausted. It wraps the last underlying error.
type NetworkError struct {
	Method   string
	URL      string
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("failed to reach %s %s after %d attempts: %v", e.Method, e.URL, e.Attempts, e.Err)
}

// Unwrap exposes the last transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ConfigError signals an unusable client configuration, such as missing
// credentials. It is fatal and never retried.
type ConfigError struct {
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("client configuration error: %s", e.Reason)
}

// decodeAPIError probes a response body for a Binance error payload.
// A JSON object carrying a code field other than the success sentinel
// is a rejection regardless of the HTTP status line; Binance reports
// some errors with status 200.
func decodeAPIError(body []byte, httpStatus int) *APIError {
	var probe struct {
		Code *int64 `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil
	}
	if probe.Code == nil || *probe.Code == apiSuccessCode {
		return nil
	}
	return &APIError{
		Code:       *probe.Code,
		Message:    probe.Msg,
		HTTPStatus: httpStatus,
	}
}

// errorWithContext wraps an error with the operation that produced it.
func errorWithContext(err error, operation string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", operation, err)
}

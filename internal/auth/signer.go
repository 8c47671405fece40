package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"time"
)

// DefaultRecvWindow is the validity window (ms) attached to signed requests.
// Binance rejects requests whose timestamp has drifted outside this window.
const DefaultRecvWindow int64 = 5000

// Signer produces HMAC-SHA256 signatures for Binance futures API requests.
// The secret is held internally and never leaves this package.
type Signer struct {
	apiKey     string
	apiSecret  string
	recvWindow int64
}

// NewSigner creates a signer with the default recv window.
func NewSigner(apiKey, apiSecret string) *Signer {
	return NewSignerWithRecvWindow(apiKey, apiSecret, DefaultRecvWindow)
}

// NewSignerWithRecvWindow creates a signer with a custom recv window.
func NewSignerWithRecvWindow(apiKey, apiSecret string, recvWindow int64) *Signer {
	if recvWindow <= 0 {
		recvWindow = DefaultRecvWindow
	}
	return &Signer{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		recvWindow: recvWindow,
	}
}

// APIKey returns the API key, sent as the X-MBX-APIKEY header.
func (s *Signer) APIKey() string {
	return s.apiKey
}

// RecvWindow returns the configured recv window in milliseconds.
func (s *Signer) RecvWindow() int64 {
	return s.recvWindow
}

// HasCredentials reports whether both key and secret are non-empty.
func (s *Signer) HasCredentials() bool {
	return s.apiKey != "" && s.apiSecret != ""
}

// Sign returns the lowercase hex HMAC-SHA256 digest of the canonical
// query-string encoding of params. url.Values.Encode sorts keys, so the
// digest is deterministic for a given set of key/value pairs.
func (s *Signer) Sign(params url.Values) string {
	payload := params.Encode()

	mac := hmac.New(sha256.New, []byte(s.apiSecret))
	mac.Write([]byte(payload))

	return hex.EncodeToString(mac.Sum(nil))
}

// SignedRequest returns a copy of params extended with timestamp,
// recvWindow and signature. The signature covers every field except
// itself, so it must be appended last.
func (s *Signer) SignedRequest(params url.Values) url.Values {
	signed := make(url.Values, len(params)+3)
	for key, values := range params {
		for _, value := range values {
			signed.Add(key, value)
		}
	}

	signed.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	if signed.Get("recvWindow") == "" {
		signed.Set("recvWindow", strconv.FormatInt(s.recvWindow, 10))
	}

	signed.Set("signature", s.Sign(signed))
	return signed
}

// ValidateSignature verifies a signature against the given parameters
// in constant time.
func (s *Signer) ValidateSignature(params url.Values, signature string) bool {
	expected := s.Sign(params)
	return hmac.Equal([]byte(expected), []byte(signature))
}

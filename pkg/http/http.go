package http

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypeJSON = "application/json"

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 1 << 20
)

var ErrResponseTooLarge = errors.New("response body exceeds limit")

var DefaultHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

// Doer sends a single HTTP request. *http.Client implements it.
// Cancellation is carried by the request context.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// DoerProvider returns the Doer to use for the next request.
// The caller of a provider never closes or otherwise owns the returned Doer.
type DoerProvider func() Doer

// StaticDoer returns a provider that always hands out d.
func StaticDoer(d Doer) DoerProvider {
	return func() Doer {
		return d
	}
}

// BasicAuthorization returns the value of an `Authorization: Basic` header.
// When formEncode is set, user and password are form-url-encoded before
// they are joined, as RFC 6749 section 2.3.1 requires.
func BasicAuthorization(user, password string, formEncode bool) string {
	if formEncode {
		user = url.QueryEscape(user)
		password = url.QueryEscape(password)
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))
}

// BearerAuthorization returns the value of an `Authorization: Bearer` header.
func BearerAuthorization(token string) string {
	return "Bearer " + token
}

// NewFormRequest creates a POST request carrying an already encoded form body.
func NewFormRequest(ctx context.Context, endpoint, form string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", ContentTypeForm)
	return req, nil
}

// ReadBody reads and closes the response body, up to MaxResponseSize.
func ReadBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, ErrResponseTooLarge
	}
	return body, nil
}

// IsSuccess reports whether the status code is in the 2xx range.
func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

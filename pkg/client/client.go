package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/zitadel/logging"

	"github.com/zitadel/oidcclient/internal/otel"
	httphelper "github.com/zitadel/oidcclient/pkg/http"
	"github.com/zitadel/oidcclient/pkg/oidc"
)

var Tracer = otel.Tracer("github.com/zitadel/oidcclient/pkg/client")

// Visitor is called with the prepared request right before it is sent.
type Visitor func(*http.Request)

// Client sends protocol requests through a Doer.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	doer   httphelper.Doer
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Client)

// New creates a Client. A nil doer uses httphelper.DefaultHTTPClient.
func New(doer httphelper.Doer, opts ...Option) *Client {
	if doer == nil {
		doer = httphelper.DefaultHTTPClient
	}
	c := &Client{
		doer: doer,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLogger sets the logger used when the context does not carry one.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock sets the time source for token expiry computation.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// Logger returns the logger from ctx, or the one set with WithLogger.
func (c *Client) Logger(ctx context.Context) (logger *slog.Logger, ok bool) {
	logger, ok = logging.FromContext(ctx)
	if ok {
		return logger, ok
	}
	return c.logger, c.logger != nil
}

// send runs the visitors on req, sends it and normalizes the outcome.
func (c *Client) send(ctx context.Context, operation string, req *http.Request, visitors []Visitor, payload any) Response {
	for _, visit := range visitors {
		if visit != nil {
			visit(req)
		}
	}
	httpResp, err := c.doer.Do(req)
	if err != nil && httpResp != nil && httpResp.Body != nil {
		httpResp.Body.Close()
	}
	resp := normalize(httpResp, err, payload)

	var failure error
	if resp.IsError() {
		failure = &resp
	}
	otel.RecordResponse(otel.SpanFromContext(ctx), operation, resp.StatusCode, failure)

	if logger, ok := c.Logger(ctx); ok {
		endpoint := *req.URL
		endpoint.RawQuery = ""
		attrs := []any{
			slog.String("operation", operation),
			slog.String("method", req.Method),
			slog.String("address", endpoint.String()),
			slog.Int("status", resp.StatusCode),
		}
		if resp.IsError() {
			attrs = append(attrs, slog.String("error_type", resp.ErrorType.String()), slog.Any("err", resp.Err))
		}
		logger.DebugContext(ctx, "oidc client request", attrs...)
	}
	return resp
}

// RequestToken sends r to its token endpoint.
// The returned error is always a configuration error; failures after
// the request was built are reported through the response.
func (c *Client) RequestToken(ctx context.Context, r *TokenRequest, visitors ...Visitor) (*TokenResponse, error) {
	ctx, span := Tracer.Start(ctx, "RequestToken")
	defer span.End()

	req, err := NewTokenRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	resp := &TokenResponse{issuedAt: c.now()}
	resp.Response = c.send(ctx, "token", req, visitors, &resp.AccessTokenResponse)
	return resp, nil
}

func (c *Client) requestGrant(ctx context.Context, r *TokenRequest, grantType oidc.GrantType, visitors []Visitor) (*TokenResponse, error) {
	if r == nil {
		return nil, ErrNilRequest
	}
	grant := *r
	grant.GrantType = grantType
	return c.RequestToken(ctx, &grant, visitors...)
}

func (c *Client) RequestClientCredentialsToken(ctx context.Context, r *TokenRequest, visitors ...Visitor) (*TokenResponse, error) {
	return c.requestGrant(ctx, r, oidc.GrantTypeClientCredentials, visitors)
}

func (c *Client) RequestPasswordToken(ctx context.Context, r *TokenRequest, visitors ...Visitor) (*TokenResponse, error) {
	return c.requestGrant(ctx, r, oidc.GrantTypePassword, visitors)
}

func (c *Client) RequestAuthorizationCodeToken(ctx context.Context, r *TokenRequest, visitors ...Visitor) (*TokenResponse, error) {
	return c.requestGrant(ctx, r, oidc.GrantTypeCode, visitors)
}

func (c *Client) RequestRefreshToken(ctx context.Context, r *TokenRequest, visitors ...Visitor) (*TokenResponse, error) {
	return c.requestGrant(ctx, r, oidc.GrantTypeRefreshToken, visitors)
}

func (c *Client) RequestDeviceToken(ctx context.Context, r *TokenRequest, visitors ...Visitor) (*TokenResponse, error) {
	return c.requestGrant(ctx, r, oidc.GrantTypeDeviceCode, visitors)
}

// RequestTokenRaw sends params as they are to the token endpoint at address.
// params must carry a grant_type.
func (c *Client) RequestTokenRaw(ctx context.Context, address string, params *Parameters, visitors ...Visitor) (*TokenResponse, error) {
	return c.RequestToken(ctx, &TokenRequest{
		Request: Request{
			Address:    address,
			Parameters: params,
		},
	}, visitors...)
}

// PollDeviceToken requests a device token every interval until the
// authorization is granted or denied. A zero or negative interval means
// oidc.DefaultPollingInterval seconds. A slow_down answer adds 5 seconds
// to the interval. Cancelling ctx ends polling with an
// ErrorTypeException response.
func (c *Client) PollDeviceToken(ctx context.Context, r *TokenRequest, interval time.Duration, visitors ...Visitor) (*TokenResponse, error) {
	if interval <= 0 {
		interval = oidc.DefaultPollingInterval * time.Second
	}
	for {
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return &TokenResponse{Response: exceptionResponse(ctx.Err())}, nil
		case <-timer.C:
		}

		resp, err := c.RequestDeviceToken(ctx, r, visitors...)
		if err != nil {
			return nil, err
		}
		protocolErr := resp.ProtocolError()
		if protocolErr == nil || !protocolErr.IsPending() {
			return resp, nil
		}
		if protocolErr.ErrorType == oidc.SlowDown {
			interval += 5 * time.Second
		}
	}
}

// RequestDeviceAuthorization starts a RFC 8628 device flow.
func (c *Client) RequestDeviceAuthorization(ctx context.Context, r *DeviceAuthorizationRequest, visitors ...Visitor) (*DeviceAuthorizationResponse, error) {
	ctx, span := Tracer.Start(ctx, "RequestDeviceAuthorization")
	defer span.End()

	req, err := NewDeviceAuthorizationRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	resp := new(DeviceAuthorizationResponse)
	resp.Response = c.send(ctx, "device_authorization", req, visitors, &resp.DeviceAuthorizationResponse)
	return resp, nil
}

func (c *Client) IntrospectToken(ctx context.Context, r *IntrospectionRequest, visitors ...Visitor) (*IntrospectionResponse, error) {
	ctx, span := Tracer.Start(ctx, "IntrospectToken")
	defer span.End()

	req, err := NewIntrospectionRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	resp := new(IntrospectionResponse)
	resp.Response = c.send(ctx, "introspection", req, visitors, &resp.IntrospectionResponse)
	return resp, nil
}

func (c *Client) RevokeToken(ctx context.Context, r *RevocationRequest, visitors ...Visitor) (*RevocationResponse, error) {
	ctx, span := Tracer.Start(ctx, "RevokeToken")
	defer span.End()

	req, err := NewRevocationRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	return &RevocationResponse{
		Response: c.send(ctx, "revocation", req, visitors, nil),
	}, nil
}

func (c *Client) GetUserInfo(ctx context.Context, r *UserInfoRequest, visitors ...Visitor) (*UserInfoResponse, error) {
	ctx, span := Tracer.Start(ctx, "GetUserInfo")
	defer span.End()

	req, err := NewUserInfoRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	resp := new(UserInfoResponse)
	resp.Response = c.send(ctx, "userinfo", req, visitors, &resp.UserInfo)
	return resp, nil
}

// GetDiscoveryDocument fetches the discovery document and the key set
// it references. The authority is checked against the policy before
// anything is sent; the document after it was received.
func (c *Client) GetDiscoveryDocument(ctx context.Context, r *DiscoveryRequest, visitors ...Visitor) (*DiscoveryDocumentResponse, error) {
	ctx, span := Tracer.Start(ctx, "GetDiscoveryDocument")
	defer span.End()

	req, err := NewDiscoveryRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	endpoint, err := ParseDiscoveryURL(r.Address)
	if err != nil {
		return nil, err
	}
	policy := r.Policy
	if policy == nil {
		policy = DefaultDiscoveryPolicy()
	}

	resp := new(DiscoveryDocumentResponse)
	if err := policy.validateAddress(endpoint.Authority); err != nil {
		resp.Response = policyViolationResponse(err)
		return resp, nil
	}
	resp.Response = c.send(ctx, "discovery", req, visitors, &resp.DiscoveryConfiguration)
	if resp.IsError() {
		return resp, nil
	}
	if err := policy.validateDocument(&resp.DiscoveryConfiguration, endpoint.Authority); err != nil {
		resp.ErrorType = ErrorTypePolicyViolation
		resp.Err = err
		return resp, nil
	}
	if resp.JwksURI == "" {
		return resp, nil
	}

	keysRequest := &Request{Address: resp.JwksURI, Header: r.Header.Clone()}
	keysReq, err := keysRequest.prepare(ctx, http.MethodGet)
	if err != nil {
		resp.ErrorType = ErrorTypeException
		resp.Err = fmt.Errorf("jwks_uri: %w", err)
		return resp, nil
	}
	keySet := new(jose.JSONWebKeySet)
	keysResp := c.send(ctx, "jwks", keysReq, visitors, keySet)
	if keysResp.IsError() {
		resp.StatusCode = keysResp.StatusCode
		resp.Status = keysResp.Status
		resp.ErrorType = keysResp.ErrorType
		resp.ErrorCode = keysResp.ErrorCode
		resp.ErrorDescription = keysResp.ErrorDescription
		resp.Err = fmt.Errorf("jwks: %w", &keysResp)
		return resp, nil
	}
	resp.KeySet = keySet
	return resp, nil
}

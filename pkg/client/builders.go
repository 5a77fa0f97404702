package client

import (
	"context"
	"fmt"
	"net/http"

	httphelper "github.com/zitadel/oidcclient/pkg/http"
	"github.com/zitadel/oidcclient/pkg/oidc"
)

// TokenRequest is a request to the token endpoint.
// GrantType selects which of the fields are sent:
//
//   - client_credentials: Scope
//   - password: Username, Password (may be empty), Scope
//   - authorization_code: Code, RedirectURI, CodeVerifier
//   - refresh_token: RefreshToken, Scope
//   - device_code: DeviceCode
//
// Any other grant type is sent with Scope and whatever the caller put
// in Parameters. An empty GrantType is allowed when Parameters
// already carries a grant_type.
type TokenRequest struct {
	Request

	GrantType    oidc.GrantType
	Scope        string
	Code         string
	RedirectURI  string
	CodeVerifier string
	Username     string
	Password     string
	RefreshToken string
	DeviceCode   string
}

func (r *TokenRequest) Clone() *TokenRequest {
	c := *r
	c.Request = *r.Request.Clone()
	return &c
}

type DeviceAuthorizationRequest struct {
	Request
	Scope string
}

func (r *DeviceAuthorizationRequest) Clone() *DeviceAuthorizationRequest {
	c := *r
	c.Request = *r.Request.Clone()
	return &c
}

// IntrospectionRequest is a RFC 7662 token introspection request.
type IntrospectionRequest struct {
	Request
	Token         string
	TokenTypeHint string
}

func (r *IntrospectionRequest) Clone() *IntrospectionRequest {
	c := *r
	c.Request = *r.Request.Clone()
	return &c
}

// RevocationRequest is a RFC 7009 token revocation request.
type RevocationRequest struct {
	Request
	Token         string
	TokenTypeHint string
}

func (r *RevocationRequest) Clone() *RevocationRequest {
	c := *r
	c.Request = *r.Request.Clone()
	return &c
}

// UserInfoRequest fetches the userinfo of the owner of Token.
// Client credentials of the embedded Request are never sent.
type UserInfoRequest struct {
	Request
	Token string
}

func (r *UserInfoRequest) Clone() *UserInfoRequest {
	c := *r
	c.Request = *r.Request.Clone()
	return &c
}

// DiscoveryRequest fetches the discovery document of the authority in
// Address. Address may also be the full well-known URL.
// A nil Policy uses DefaultDiscoveryPolicy.
type DiscoveryRequest struct {
	Request
	Policy *DiscoveryPolicy
}

func (r *DiscoveryRequest) Clone() *DiscoveryRequest {
	c := *r
	c.Request = *r.Request.Clone()
	if r.Policy != nil {
		c.Policy = r.Policy.Clone()
	}
	return &c
}

// formWriter stops at the first failing required parameter.
type formWriter struct {
	params *Parameters
	err    error
}

func (w *formWriter) required(key, value string) {
	w.requiredAllowEmpty(key, value, false)
}

func (w *formWriter) requiredAllowEmpty(key, value string, allowEmpty bool) {
	if w.err != nil {
		return
	}
	w.err = w.params.AddRequired(key, value, allowEmpty)
}

func (w *formWriter) optional(key, value string) {
	if w.err != nil {
		return
	}
	w.params.AddOptional(key, value)
}

// NewTokenRequest builds the token endpoint request for r.GrantType.
// r itself is left untouched.
func NewTokenRequest(ctx context.Context, r *TokenRequest) (*http.Request, error) {
	if r == nil {
		return nil, ErrNilRequest
	}
	c := r.Clone()
	w := &formWriter{params: c.Parameters}

	switch c.GrantType {
	case oidc.GrantTypeClientCredentials:
		w.required(oidc.ParamGrantType, string(c.GrantType))
		w.optional(oidc.ParamScope, c.Scope)
	case oidc.GrantTypePassword:
		w.required(oidc.ParamGrantType, string(c.GrantType))
		w.required(oidc.ParamUsername, c.Username)
		w.requiredAllowEmpty(oidc.ParamPassword, c.Password, true)
		w.optional(oidc.ParamScope, c.Scope)
	case oidc.GrantTypeCode:
		w.required(oidc.ParamGrantType, string(c.GrantType))
		w.required(oidc.ParamCode, c.Code)
		w.required(oidc.ParamRedirectURI, c.RedirectURI)
		w.optional(oidc.ParamCodeVerifier, c.CodeVerifier)
	case oidc.GrantTypeRefreshToken:
		w.required(oidc.ParamGrantType, string(c.GrantType))
		w.required(oidc.ParamRefreshToken, c.RefreshToken)
		w.optional(oidc.ParamScope, c.Scope)
	case oidc.GrantTypeDeviceCode:
		w.required(oidc.ParamGrantType, string(c.GrantType))
		w.required(oidc.ParamDeviceCode, c.DeviceCode)
	default:
		if !c.Parameters.Has(oidc.ParamGrantType) {
			if isMissing(string(c.GrantType)) {
				return nil, ErrMissingGrantType
			}
			c.Parameters.Set(oidc.ParamGrantType, string(c.GrantType))
		}
		w.optional(oidc.ParamScope, c.Scope)
	}
	if w.err != nil {
		return nil, fmt.Errorf("token request (%s): %w", c.GrantType, w.err)
	}
	return c.prepare(ctx, http.MethodPost)
}

// NewDeviceAuthorizationRequest builds a RFC 8628 device authorization request.
func NewDeviceAuthorizationRequest(ctx context.Context, r *DeviceAuthorizationRequest) (*http.Request, error) {
	if r == nil {
		return nil, ErrNilRequest
	}
	c := r.Clone()
	c.Parameters.AddOptional(oidc.ParamScope, c.Scope)
	return c.prepare(ctx, http.MethodPost)
}

func NewIntrospectionRequest(ctx context.Context, r *IntrospectionRequest) (*http.Request, error) {
	if r == nil {
		return nil, ErrNilRequest
	}
	c := r.Clone()
	if err := addTokenParameters(c.Parameters, c.Token, c.TokenTypeHint); err != nil {
		return nil, err
	}
	return c.prepare(ctx, http.MethodPost)
}

func NewRevocationRequest(ctx context.Context, r *RevocationRequest) (*http.Request, error) {
	if r == nil {
		return nil, ErrNilRequest
	}
	c := r.Clone()
	if err := addTokenParameters(c.Parameters, c.Token, c.TokenTypeHint); err != nil {
		return nil, err
	}
	return c.prepare(ctx, http.MethodPost)
}

func addTokenParameters(params *Parameters, token, hint string) error {
	if isMissing(token) {
		return ErrMissingToken
	}
	params.Set(oidc.ParamToken, token)
	params.AddOptional(oidc.ParamTokenTypeHint, hint)
	return nil
}

// NewUserInfoRequest builds a GET request carrying r.Token as bearer token.
func NewUserInfoRequest(ctx context.Context, r *UserInfoRequest) (*http.Request, error) {
	if r == nil {
		return nil, ErrNilRequest
	}
	if isMissing(r.Token) {
		return nil, ErrMissingToken
	}
	c := r.Clone()
	c.AuthStyle = AuthStyleNone
	if c.Header == nil {
		c.Header = make(http.Header)
	}
	c.Header.Set("Authorization", httphelper.BearerAuthorization(c.Token))
	return c.prepare(ctx, http.MethodGet)
}

// NewDiscoveryRequest builds the GET request for the discovery document.
// The authority policy is not checked here, see GetDiscoveryDocument.
func NewDiscoveryRequest(ctx context.Context, r *DiscoveryRequest) (*http.Request, error) {
	if r == nil {
		return nil, ErrNilRequest
	}
	if isMissing(r.Address) {
		return nil, ErrMissingAddress
	}
	endpoint, err := ParseDiscoveryURL(r.Address)
	if err != nil {
		return nil, err
	}
	c := r.Clone()
	c.Address = endpoint.URL
	c.AuthStyle = AuthStyleNone
	return c.prepare(ctx, http.MethodGet)
}

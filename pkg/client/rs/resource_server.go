// Package rs lets a resource server check access tokens at the
// introspection endpoint of its authority.
package rs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zitadel/oidcclient/pkg/client"
	"github.com/zitadel/oidcclient/pkg/client/discovery"
	httphelper "github.com/zitadel/oidcclient/pkg/http"
)

var ErrMissingIntrospectionURL = errors.New("resource server: introspection URL is empty")

type ResourceServer interface {
	IntrospectionURL() string
	TokenEndpoint() string
	Client() *client.Client
	// Authorize sets the client credentials on r.
	Authorize(r *client.Request) error
}

type resourceServer struct {
	issuer        string
	tokenURL      string
	introspectURL string
	doer          httphelper.Doer
	cache         *discovery.Cache
	clientOpts    []client.Option
	client        *client.Client
	authorizer    func(*client.Request) error
}

func (r *resourceServer) IntrospectionURL() string {
	return r.introspectURL
}

func (r *resourceServer) TokenEndpoint() string {
	return r.tokenURL
}

func (r *resourceServer) Client() *client.Client {
	return r.client
}

func (r *resourceServer) Authorize(req *client.Request) error {
	if r.authorizer == nil {
		return nil
	}
	return r.authorizer(req)
}

// NewResourceServerClientCredentials authenticates with client_id and
// client_secret in a Basic authorization header.
func NewResourceServerClientCredentials(ctx context.Context, issuer, clientID, clientSecret string, option ...Option) (ResourceServer, error) {
	authorizer := func(r *client.Request) error {
		r.AuthStyle = client.AuthStyleBasic
		r.ClientID = clientID
		r.ClientSecret = clientSecret
		return nil
	}
	return newResourceServer(ctx, issuer, authorizer, option...)
}

// NewResourceServerJWTProfile authenticates with a client assertion signed
// by key. A fresh assertion is signed for every request.
func NewResourceServerJWTProfile(ctx context.Context, issuer, clientID, keyID string, key []byte, options ...Option) (ResourceServer, error) {
	signer, err := client.NewSignerFromPrivateKeyByte(key, keyID)
	if err != nil {
		return nil, err
	}
	authorizer := func(r *client.Request) error {
		assertion, err := client.SignedJWTProfileAssertion(clientID, []string{issuer}, time.Hour, signer)
		if err != nil {
			return err
		}
		r.AuthStyle = client.AuthStylePostBody
		r.ClientID = clientID
		r.ClientAssertion = client.ClientAssertion{Value: assertion}
		return nil
	}
	return newResourceServer(ctx, issuer, authorizer, options...)
}

func NewResourceServerFromKeyFile(ctx context.Context, issuer, path string, options ...Option) (ResourceServer, error) {
	c, err := client.ConfigFromKeyFile(path)
	if err != nil {
		return nil, err
	}
	return NewResourceServerJWTProfile(ctx, issuer, c.Subject(), c.KeyID, []byte(c.Key), options...)
}

func newResourceServer(ctx context.Context, issuer string, authorizer func(*client.Request) error, options ...Option) (*resourceServer, error) {
	rs := &resourceServer{
		issuer:     issuer,
		doer:       httphelper.DefaultHTTPClient,
		authorizer: authorizer,
	}
	for _, optFunc := range options {
		optFunc(rs)
	}
	rs.client = client.New(rs.doer, rs.clientOpts...)
	if rs.introspectURL == "" || rs.tokenURL == "" {
		if rs.cache == nil {
			cache, err := discovery.NewCache(rs.issuer, httphelper.StaticDoer(rs.doer),
				discovery.WithClientOptions(rs.clientOpts...),
			)
			if err != nil {
				return nil, err
			}
			rs.cache = cache
		}
		config := rs.cache.Get(ctx)
		if config.IsError() {
			return nil, fmt.Errorf("resource server: discovery: %w", &config.Response)
		}
		if rs.tokenURL == "" {
			rs.tokenURL = config.TokenEndpoint
		}
		if rs.introspectURL == "" {
			rs.introspectURL = config.IntrospectionEndpoint
		}
	}
	if rs.tokenURL == "" {
		return nil, errors.New("tokenURL is empty: please provide with either `WithStaticEndpoints` or a discovery url")
	}
	return rs, nil
}

type Option func(*resourceServer)

// WithClient sets the Doer that sends all requests of the resource server.
func WithClient(doer httphelper.Doer) Option {
	return func(server *resourceServer) {
		server.doer = doer
	}
}

// WithClientOptions configures the underlying client, for example its logger.
func WithClientOptions(opts ...client.Option) Option {
	return func(server *resourceServer) {
		server.clientOpts = append(server.clientOpts, opts...)
	}
}

// WithDiscoveryCache shares a discovery cache between resource servers
// of the same authority.
func WithDiscoveryCache(cache *discovery.Cache) Option {
	return func(server *resourceServer) {
		server.cache = cache
	}
}

// WithStaticEndpoints provides the ability to set static token and introspect URL
func WithStaticEndpoints(tokenURL, introspectURL string) Option {
	return func(server *resourceServer) {
		server.tokenURL = tokenURL
		server.introspectURL = introspectURL
	}
}

// Introspect asks the authority about token and decodes the response into R.
// An inactive token is not an error: check the active member of R.
func Introspect[R any](ctx context.Context, rp ResourceServer, token string) (resp R, err error) {
	ctx, span := client.Tracer.Start(ctx, "Introspect")
	defer span.End()

	if rp.IntrospectionURL() == "" {
		return resp, ErrMissingIntrospectionURL
	}
	req := &client.IntrospectionRequest{
		Request: client.Request{Address: rp.IntrospectionURL()},
		Token:   token,
	}
	if err := rp.Authorize(&req.Request); err != nil {
		return resp, err
	}
	result, err := rp.Client().IntrospectToken(ctx, req)
	if err != nil {
		return resp, err
	}
	if result.IsError() {
		return resp, &result.Response
	}
	if err := json.Unmarshal(result.Raw, &resp); err != nil {
		return resp, fmt.Errorf("resource server: %w", err)
	}
	return resp, nil
}

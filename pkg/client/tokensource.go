package client

import (
	"context"
	"sync"

	"golang.org/x/oauth2"

	"github.com/zitadel/oidcclient/pkg/oidc"
)

// TokenSource returns an oauth2.TokenSource that obtains tokens with r and
// caches them until they expire. Once a refresh token was issued, new
// tokens are requested with the refresh_token grant.
// Refresh requests carry the credentials of r, including client
// credentials from its Parameters, but no other grant parameters.
// Error responses are returned as *Response errors. A nil r yields
// ErrNilRequest from Token.
func (c *Client) TokenSource(ctx context.Context, r *TokenRequest, visitors ...Visitor) oauth2.TokenSource {
	s := &tokenSource{
		ctx:      ctx,
		client:   c,
		visitors: visitors,
	}
	if r != nil {
		s.request = r.Clone()
	}
	return oauth2.ReuseTokenSource(nil, s)
}

// credentialParameters are the bag entries kept for refresh requests.
var credentialParameters = []string{
	oidc.ParamClientID,
	oidc.ParamClientSecret,
	oidc.ParamClientAssertionType,
	oidc.ParamClientAssertion,
}

type tokenSource struct {
	ctx      context.Context
	client   *Client
	request  *TokenRequest
	visitors []Visitor

	mu           sync.Mutex
	refreshToken string
}

func (s *tokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.request == nil {
		return nil, ErrNilRequest
	}
	req := s.request
	if s.refreshToken != "" {
		req = s.refreshRequest()
	}
	resp, err := s.client.RequestToken(s.ctx, req, s.visitors...)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &resp.Response
	}
	if resp.RefreshToken != "" {
		s.refreshToken = resp.RefreshToken
	}
	return resp.Token(), nil
}

func (s *tokenSource) refreshRequest() *TokenRequest {
	base := s.request.Request
	base.Parameters = NewParameters()
	for _, key := range credentialParameters {
		if value, ok := s.request.Parameters.Get(key); ok {
			base.Parameters.Set(key, value)
		}
	}
	return &TokenRequest{
		Request:      base,
		GrantType:    oidc.GrantTypeRefreshToken,
		RefreshToken: s.refreshToken,
	}
}

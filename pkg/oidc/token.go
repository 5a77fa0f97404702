package oidc

import (
	"time"

	"golang.org/x/oauth2"
)

// AccessTokenResponse is the successful token endpoint response,
// RFC 6749 section 5.1, including the OIDC `id_token`.
type AccessTokenResponse struct {
	AccessToken     string              `json:"access_token,omitempty"`
	TokenType       string              `json:"token_type,omitempty"`
	RefreshToken    string              `json:"refresh_token,omitempty"`
	ExpiresIn       uint64              `json:"expires_in,omitempty"`
	IDToken         string              `json:"id_token,omitempty"`
	Scope           SpaceDelimitedArray `json:"scope,omitempty"`
	IssuedTokenType string              `json:"issued_token_type,omitempty"`
}

// Oauth2Token converts the response into an oauth2.Token.
// The expiry is computed relative to issuedAt.
func (a *AccessTokenResponse) Oauth2Token(issuedAt time.Time) *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  a.AccessToken,
		TokenType:    a.TokenType,
		RefreshToken: a.RefreshToken,
	}
	if a.ExpiresIn > 0 {
		token.Expiry = issuedAt.UTC().Add(time.Duration(a.ExpiresIn) * time.Second)
	}
	if a.IDToken != "" {
		token = token.WithExtra(map[string]any{
			"id_token": a.IDToken,
		})
	}
	return token
}

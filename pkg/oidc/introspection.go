package oidc

import (
	"encoding/json"
	"errors"
)

// ErrIntrospectionActiveMissing is returned when an introspection
// response does not carry the REQUIRED `active` member.
var ErrIntrospectionActiveMissing = errors.New("oidc: introspection response is missing the active claim")

// IntrospectionResponse implements RFC 7662, section 2.2.
// https://www.rfc-editor.org/rfc/rfc7662.html#section-2.2.
type IntrospectionResponse struct {
	Active     bool                `json:"active"`
	Scope      SpaceDelimitedArray `json:"scope,omitempty"`
	ClientID   string              `json:"client_id,omitempty"`
	TokenType  string              `json:"token_type,omitempty"`
	Expiration Time                `json:"exp,omitempty"`
	IssuedAt   Time                `json:"iat,omitempty"`
	NotBefore  Time                `json:"nbf,omitempty"`
	Subject    string              `json:"sub,omitempty"`
	Audience   Audience            `json:"aud,omitempty"`
	Issuer     string              `json:"iss,omitempty"`
	JWTID      string              `json:"jti,omitempty"`
	Username   string              `json:"username,omitempty"`

	Claims map[string]any `json:"-"`
}

// introspectionResponseAlias prevents loops on the JSON methods
type introspectionResponseAlias IntrospectionResponse

func (i *IntrospectionResponse) UnmarshalJSON(data []byte) error {
	var probe struct {
		Active *bool `json:"active"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Active == nil {
		return ErrIntrospectionActiveMissing
	}
	return unmarshalJSONMulti(data, (*introspectionResponseAlias)(i), &i.Claims)
}

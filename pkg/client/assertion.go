package client

import (
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/google/uuid"

	"github.com/zitadel/oidcclient/pkg/crypto"
	"github.com/zitadel/oidcclient/pkg/oidc"
)

// DefaultAssertionLifetime is the validity of assertions created by
// JWTProfileAssertion.
const DefaultAssertionLifetime = 5 * time.Minute

// NewSignerFromPrivateKeyByte creates a JWS signer from a PEM encoded
// private key. The algorithm follows from the key type.
func NewSignerFromPrivateKeyByte(key []byte, keyID string) (jose.Signer, error) {
	privateKey, alg, err := crypto.BytesToPrivateKey(key)
	if err != nil {
		return nil, err
	}
	signingKey := jose.SigningKey{
		Algorithm: alg,
		Key:       &jose.JSONWebKey{Key: privateKey, KeyID: keyID},
	}
	return jose.NewSigner(signingKey, (&jose.SignerOptions{}).WithType("JWT"))
}

type assertionClaims struct {
	Issuer    string        `json:"iss"`
	Subject   string        `json:"sub"`
	Audience  oidc.Audience `json:"aud"`
	ExpiresAt oidc.Time     `json:"exp"`
	IssuedAt  oidc.Time     `json:"iat"`
	JWTID     string        `json:"jti"`
}

// SignedJWTProfileAssertion creates a RFC 7523 JWT with clientID as
// issuer and subject, usable as client_assertion or as jwt-bearer grant.
func SignedJWTProfileAssertion(clientID string, audience []string, expiration time.Duration, signer jose.Signer) (string, error) {
	iat := time.Now()
	return crypto.Sign(&assertionClaims{
		Issuer:    clientID,
		Subject:   clientID,
		Audience:  audience,
		ExpiresAt: oidc.FromTime(iat.Add(expiration)),
		IssuedAt:  oidc.FromTime(iat),
		JWTID:     uuid.NewString(),
	}, signer)
}

// JWTProfileAssertion signs a client assertion for clientID, valid for
// DefaultAssertionLifetime. The audience is usually the issuer or the
// token endpoint of the authorization server.
func JWTProfileAssertion(clientID string, audience []string, signer jose.Signer) (ClientAssertion, error) {
	value, err := SignedJWTProfileAssertion(clientID, audience, DefaultAssertionLifetime, signer)
	if err != nil {
		return ClientAssertion{}, err
	}
	return ClientAssertion{
		Type:  oidc.ClientAssertionTypeJWTAssertion,
		Value: value,
	}, nil
}

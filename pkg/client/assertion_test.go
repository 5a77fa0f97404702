package client

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zitadel/oidcclient/pkg/oidc"
)

func rsaKeyPEM(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key, pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

func verifyAssertion(t *testing.T, value string, key any, alg jose.SignatureAlgorithm) (*jose.JSONWebSignature, assertionClaims) {
	t.Helper()
	jws, err := jose.ParseSigned(value, []jose.SignatureAlgorithm{alg})
	require.NoError(t, err)
	payload, err := jws.Verify(key)
	require.NoError(t, err)

	var claims assertionClaims
	require.NoError(t, json.Unmarshal(payload, &claims))
	return jws, claims
}

func TestSignedJWTProfileAssertion(t *testing.T) {
	key, keyPEM := rsaKeyPEM(t)
	signer, err := NewSignerFromPrivateKeyByte(keyPEM, "key-1")
	require.NoError(t, err)

	value, err := SignedJWTProfileAssertion("cid", []string{"https://issuer.example.com"}, time.Minute, signer)
	require.NoError(t, err)

	jws, claims := verifyAssertion(t, value, &key.PublicKey, jose.RS256)
	assert.Equal(t, "key-1", jws.Signatures[0].Header.KeyID)
	assert.Equal(t, "cid", claims.Issuer)
	assert.Equal(t, "cid", claims.Subject)
	assert.Equal(t, oidc.Audience{"https://issuer.example.com"}, claims.Audience)
	assert.Equal(t, time.Minute, claims.ExpiresAt.AsTime().Sub(claims.IssuedAt.AsTime()))
	assert.NotEmpty(t, claims.JWTID)

	other, err := SignedJWTProfileAssertion("cid", nil, time.Minute, signer)
	require.NoError(t, err)
	_, otherClaims := verifyAssertion(t, other, &key.PublicKey, jose.RS256)
	assert.NotEqual(t, claims.JWTID, otherClaims.JWTID)
}

func TestJWTProfileAssertion(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	signer, err := NewSignerFromPrivateKeyByte(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), "ec")
	require.NoError(t, err)

	assertion, err := JWTProfileAssertion("cid", []string{"aud"}, signer)
	require.NoError(t, err)
	assert.Equal(t, oidc.ClientAssertionTypeJWTAssertion, assertion.Type)
	assert.True(t, assertion.IsSet())

	_, claims := verifyAssertion(t, assertion.Value, &key.PublicKey, jose.ES256)
	assert.Equal(t, DefaultAssertionLifetime, claims.ExpiresAt.AsTime().Sub(claims.IssuedAt.AsTime()))

	_, err = NewSignerFromPrivateKeyByte([]byte("not a key"), "x")
	assert.Error(t, err)
}

func TestKeyFile(t *testing.T) {
	key, keyPEM := rsaKeyPEM(t)
	data, err := json.Marshal(map[string]string{
		"type":     "application",
		"keyId":    "k1",
		"key":      string(keyPEM),
		"clientId": "app@project",
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	f, err := ConfigFromKeyFile(path)
	require.NoError(t, err)
	assert.Equal(t, "app@project", f.Subject())

	assertion, err := f.ClientAssertion("https://issuer.example.com")
	require.NoError(t, err)
	jws, claims := verifyAssertion(t, assertion.Value, &key.PublicKey, jose.RS256)
	assert.Equal(t, "k1", jws.Signatures[0].Header.KeyID)
	assert.Equal(t, "app@project", claims.Subject)

	sa := &KeyFile{Type: "serviceaccount", UserID: "u1", ClientID: "ignored"}
	assert.Equal(t, "u1", sa.Subject())

	_, err = (&KeyFile{Type: "unknown"}).ClientAssertion("aud")
	assert.True(t, IsConfigurationError(err))

	_, err = ConfigFromKeyFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	_, err = ConfigFromKeyFileData([]byte("{"))
	assert.Error(t, err)
}

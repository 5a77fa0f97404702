package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	jose "github.com/go-jose/go-jose/v4"
)

var (
	ErrPEMDecode      = errors.New("PEM decode failed")
	ErrUnsupportedKey = errors.New("unsupported key type")
)

// BytesToPrivateKey parses a PEM encoded PKCS#1, PKCS#8 or SEC 1 private key
// and returns it together with the signature algorithm it is used with.
func BytesToPrivateKey(b []byte) (crypto.Signer, jose.SignatureAlgorithm, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, "", ErrPEMDecode
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, "", err
		}
		return key, jose.RS256, nil
	case "EC PRIVATE KEY":
		key, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, "", err
		}
		return ecdsaAlgorithm(key)
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, "", err
	}
	switch k := key.(type) {
	case *rsa.PrivateKey:
		return k, jose.RS256, nil
	case *ecdsa.PrivateKey:
		return ecdsaAlgorithm(k)
	case ed25519.PrivateKey:
		return k, jose.EdDSA, nil
	default:
		return nil, "", fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
	}
}

func ecdsaAlgorithm(key *ecdsa.PrivateKey) (crypto.Signer, jose.SignatureAlgorithm, error) {
	switch key.Curve {
	case elliptic.P256():
		return key, jose.ES256, nil
	case elliptic.P384():
		return key, jose.ES384, nil
	case elliptic.P521():
		return key, jose.ES512, nil
	default:
		return nil, "", fmt.Errorf("%w: curve %s", ErrUnsupportedKey, key.Curve.Params().Name)
	}
}

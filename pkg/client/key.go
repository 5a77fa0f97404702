package client

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	serviceAccountKey = "serviceaccount"
	applicationKey    = "application"
)

// KeyFile is a downloaded private key for private_key_jwt client
// authentication.
type KeyFile struct {
	Type  string `json:"type"` // serviceaccount or application
	KeyID string `json:"keyId"`
	Key   string `json:"key"`

	// serviceaccount
	UserID string `json:"userId"`

	// application
	ClientID string `json:"clientId"`
}

func ConfigFromKeyFile(path string) (*KeyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ConfigFromKeyFileData(data)
}

func ConfigFromKeyFileData(data []byte) (*KeyFile, error) {
	var f KeyFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Subject returns the identity the key belongs to.
func (f *KeyFile) Subject() string {
	if f.Type == serviceAccountKey {
		return f.UserID
	}
	return f.ClientID
}

// ClientAssertion signs a client assertion with the key for the given
// audience.
func (f *KeyFile) ClientAssertion(audience ...string) (ClientAssertion, error) {
	switch f.Type {
	case serviceAccountKey, applicationKey:
	default:
		return ClientAssertion{}, fmt.Errorf("%w: unknown key file type %q", ErrConfiguration, f.Type)
	}
	signer, err := NewSignerFromPrivateKeyByte([]byte(f.Key), f.KeyID)
	if err != nil {
		return ClientAssertion{}, err
	}
	return JWTProfileAssertion(f.Subject(), audience, signer)
}

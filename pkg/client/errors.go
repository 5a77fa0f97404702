package client

import (
	"errors"
	"fmt"
)

// ErrConfiguration is wrapped by every error that is returned before a
// request reaches the network. These errors are not retryable.
var ErrConfiguration = errors.New("oidc client: invalid configuration")

var (
	ErrMissingAddress         = fmt.Errorf("%w: address is missing", ErrConfiguration)
	ErrInvalidAddress         = fmt.Errorf("%w: address is not an absolute http(s) URL", ErrConfiguration)
	ErrMissingClientID        = fmt.Errorf("%w: client_id is missing", ErrConfiguration)
	ErrMissingClientAssertion = fmt.Errorf("%w: client assertion is missing", ErrConfiguration)
	ErrMissingToken           = fmt.Errorf("%w: token is missing", ErrConfiguration)
	ErrMissingParameter       = fmt.Errorf("%w: required parameter is missing", ErrConfiguration)
	ErrMissingGrantType       = fmt.Errorf("%w: grant_type is missing", ErrConfiguration)
	ErrNilRequest             = fmt.Errorf("%w: request is nil", ErrConfiguration)
)

// ErrNoResponse is the cause of an ErrorTypeException response when the
// Doer returned neither a response nor an error.
var ErrNoResponse = errors.New("oidc client: transport returned no response")

// IsConfigurationError reports whether err was raised before sending.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

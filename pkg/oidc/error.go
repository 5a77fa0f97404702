package oidc

import (
	"errors"
	"fmt"
	"log/slog"
)

type errorType string

const (
	InvalidRequest       errorType = "invalid_request"
	InvalidScope         errorType = "invalid_scope"
	InvalidClient        errorType = "invalid_client"
	InvalidGrant         errorType = "invalid_grant"
	InvalidToken         errorType = "invalid_token"
	InsufficientScope    errorType = "insufficient_scope"
	UnauthorizedClient   errorType = "unauthorized_client"
	UnsupportedGrantType errorType = "unsupported_grant_type"
	UnsupportedTokenType errorType = "unsupported_token_type"
	ServerError          errorType = "server_error"
	AccessDenied         errorType = "access_denied"
	ExpiredToken         errorType = "expired_token"

	// Device Authorization, RFC 8628 section 3.5
	AuthorizationPending errorType = "authorization_pending"
	SlowDown             errorType = "slow_down"
)

var (
	ErrInvalidRequest = func() *Error {
		return &Error{
			ErrorType: InvalidRequest,
		}
	}
	ErrInvalidClient = func() *Error {
		return &Error{
			ErrorType: InvalidClient,
		}
	}
	ErrInvalidGrant = func() *Error {
		return &Error{
			ErrorType: InvalidGrant,
		}
	}
	ErrInvalidToken = func() *Error {
		return &Error{
			ErrorType: InvalidToken,
		}
	}
	ErrServerError = func() *Error {
		return &Error{
			ErrorType: ServerError,
		}
	}
	ErrAuthorizationPending = func() *Error {
		return &Error{
			ErrorType: AuthorizationPending,
		}
	}
	ErrSlowDown = func() *Error {
		return &Error{
			ErrorType: SlowDown,
		}
	}
	ErrExpiredToken = func() *Error {
		return &Error{
			ErrorType: ExpiredToken,
		}
	}
)

// Error is the error body returned by OAuth 2.0 endpoints,
// RFC 6749 section 5.2.
type Error struct {
	Parent      error     `json:"-"`
	ErrorType   errorType `json:"error"`
	Description string    `json:"error_description,omitempty"`
	URI         string    `json:"error_uri,omitempty"`
}

// NewError creates an Error from a raw error code as received on the wire.
func NewError(code, description string) *Error {
	return &Error{
		ErrorType:   errorType(code),
		Description: description,
	}
}

func (e *Error) Error() string {
	message := "ErrorType=" + string(e.ErrorType)
	if e.Description != "" {
		message += " Description=" + e.Description
	}
	if e.Parent != nil {
		message += " Parent=" + e.Parent.Error()
	}
	return message
}

func (e *Error) Unwrap() error {
	return e.Parent
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.ErrorType == t.ErrorType &&
		(e.Description == t.Description || t.Description == "")
}

// Code returns the error code verbatim.
func (e *Error) Code() string {
	return string(e.ErrorType)
}

func (e *Error) WithParent(err error) *Error {
	e.Parent = err
	return e
}

func (e *Error) WithDescription(desc string, args ...any) *Error {
	e.Description = fmt.Sprintf(desc, args...)
	return e
}

// IsPending reports whether the error asks a device flow client
// to keep polling.
func (e *Error) IsPending() bool {
	return e.ErrorType == AuthorizationPending || e.ErrorType == SlowDown
}

// LogValue allows Error to be used with slog.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("type", string(e.ErrorType))}
	if e.Description != "" {
		attrs = append(attrs, slog.String("description", e.Description))
	}
	if e.Parent != nil {
		attrs = append(attrs, slog.Any("parent", e.Parent))
	}
	return slog.GroupValue(attrs...)
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

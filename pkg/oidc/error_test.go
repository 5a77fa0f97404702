package oidc

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "type only",
			err:  ErrInvalidGrant(),
			want: "ErrorType=invalid_grant",
		},
		{
			name: "description",
			err:  ErrInvalidGrant().WithDescription("code %s expired", "abc"),
			want: "ErrorType=invalid_grant Description=code abc expired",
		},
		{
			name: "parent",
			err:  ErrServerError().WithParent(io.EOF),
			want: "ErrorType=server_error Parent=EOF",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	err := NewError("invalid_grant", "bad code")
	assert.ErrorIs(t, err, ErrInvalidGrant())
	assert.ErrorIs(t, err, ErrInvalidGrant().WithDescription("bad code"))
	assert.NotErrorIs(t, err, ErrInvalidGrant().WithDescription("other"))
	assert.NotErrorIs(t, err, ErrInvalidClient())
	assert.NotErrorIs(t, err, io.EOF)
}

func TestError_IsPending(t *testing.T) {
	assert.True(t, ErrAuthorizationPending().IsPending())
	assert.True(t, ErrSlowDown().IsPending())
	assert.False(t, ErrExpiredToken().IsPending())
}

func TestAsError(t *testing.T) {
	wrapped := fmt.Errorf("call failed: %w", ErrInvalidToken())
	got, ok := AsError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "invalid_token", got.Code())

	_, ok = AsError(io.EOF)
	assert.False(t, ok)
}

func TestError_LogValue(t *testing.T) {
	got := ErrServerError().WithDescription("oops").WithParent(io.EOF).LogValue()
	want := slog.GroupValue(
		slog.String("type", "server_error"),
		slog.String("description", "oops"),
		slog.Any("parent", io.EOF),
	)
	assert.Equal(t, want, got)
}

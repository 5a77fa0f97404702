package mock

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
)

// ErrTransport is returned by the Doer of NewFailingDoer.
var ErrTransport = errors.New("mock: connection refused")

// NewDoer returns a Doer without expectations: any call fails the test.
func NewDoer(t *testing.T) *MockDoer {
	return NewMockDoer(gomock.NewController(t))
}

// NewFailingDoer returns a Doer that fails every request with ErrTransport.
func NewFailingDoer(t *testing.T) *MockDoer {
	m := NewDoer(t)
	m.EXPECT().Do(gomock.Any()).AnyTimes().Return(nil, ErrTransport)
	return m
}

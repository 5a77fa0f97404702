package client

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameters_AddRequired(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		allowEmpty bool
		wantErr    bool
		wantValue  string
	}{
		{name: "value", value: "api1", wantValue: "api1"},
		{name: "empty rejected", value: "", wantErr: true},
		{name: "whitespace rejected", value: " \t", wantErr: true},
		{name: "empty allowed", value: "", allowEmpty: true, wantValue: ""},
		{name: "whitespace allowed", value: "  ", allowEmpty: true, wantValue: "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(Parameters)
			err := p.AddRequired("scope", tt.value, tt.allowEmpty)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingParameter)
				assert.True(t, IsConfigurationError(err))
				assert.Contains(t, err.Error(), "scope")
				assert.False(t, p.Has("scope"))
				return
			}
			require.NoError(t, err)
			got, ok := p.Get("scope")
			assert.True(t, ok)
			assert.Equal(t, tt.wantValue, got)
		})
	}
}

func TestParameters_AddOptional(t *testing.T) {
	p := new(Parameters)
	p.AddOptional("scope", "")
	p.AddOptional("scope", "   ")
	assert.False(t, p.Has("scope"))
	assert.Equal(t, 0, p.Len())

	p.AddOptional("scope", "api1")
	p.AddOptional("scope", "api2")
	got, _ := p.Get("scope")
	assert.Equal(t, "api2", got)
	assert.Equal(t, 1, p.Len())
}

func TestParameters_Order(t *testing.T) {
	p := NewParameters("grant_type", "client_credentials", "scope", "api1", "dangling")
	p.Set("audience", "a b")
	p.Set("grant_type", "password")

	assert.Equal(t, []string{"grant_type", "scope", "audience"}, p.Keys())
	assert.Equal(t, "grant_type=password&scope=api1&audience=a+b", p.Encode())
	assert.Equal(t, url.Values{
		"grant_type": {"password"},
		"scope":      {"api1"},
		"audience":   {"a b"},
	}, p.Values())

	p.Delete("scope")
	p.Delete("unknown")
	assert.Equal(t, []string{"grant_type", "audience"}, p.Keys())
	assert.Equal(t, "grant_type=password&audience=a+b", p.Encode())
}

func TestParameters_Clone(t *testing.T) {
	orig := NewParameters("a", "1", "b", "2")
	clone := orig.Clone()
	clone.Set("a", "changed")
	clone.Set("c", "3")
	clone.Delete("b")

	assert.Equal(t, "a=1&b=2", orig.Encode())
	assert.Equal(t, "a=changed&c=3", clone.Encode())

	var nilParams *Parameters
	assert.Equal(t, 0, nilParams.Clone().Len())
	assert.False(t, nilParams.Has("a"))
}

func TestParametersFromStruct(t *testing.T) {
	type custom struct {
		Audience  []string `schema:"audience"`
		Resource  string   `schema:"resource"`
		Empty     string   `schema:"empty"`
		ActorType string   `schema:"actor_token_type,omitempty"`
	}
	p, err := ParametersFromStruct(&custom{
		Audience: []string{"a", "b"},
		Resource: "https://api.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"audience", "resource"}, p.Keys())
	assert.Equal(t, "audience=a+b&resource=https%3A%2F%2Fapi.example.com", p.Encode())

	_, err = ParametersFromStruct("not a struct")
	assert.Error(t, err)
}

package rs

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zitadel/oidcclient/pkg/client"
	"github.com/zitadel/oidcclient/pkg/client/discovery"
	httphelper "github.com/zitadel/oidcclient/pkg/http"
	"github.com/zitadel/oidcclient/pkg/oidc"
)

type authority struct {
	*httptest.Server

	discoveryCalls atomic.Int32
	// assertions counts introspection calls authenticated with a client assertion.
	assertions atomic.Int32
}

func newAuthority(t *testing.T) *authority {
	t.Helper()
	a := new(authority)
	mux := http.NewServeMux()
	mux.HandleFunc(oidc.DiscoveryEndpoint, func(w http.ResponseWriter, r *http.Request) {
		a.discoveryCalls.Add(1)
		httphelper.MarshalJSON(w, &oidc.DiscoveryConfiguration{
			Issuer:                a.URL,
			TokenEndpoint:         a.URL + "/oauth/token",
			IntrospectionEndpoint: a.URL + "/oauth/introspect",
			JwksURI:               a.URL + "/keys",
		})
	})
	mux.HandleFunc("/keys", func(w http.ResponseWriter, r *http.Request) {
		httphelper.MarshalJSON(w, map[string]any{"keys": []any{}})
	})
	mux.HandleFunc("/oauth/introspect", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			httphelper.MarshalJSONWithStatus(w, oidc.ErrInvalidRequest(), http.StatusBadRequest)
			return
		}
		id, secret, basic := r.BasicAuth()
		switch {
		case basic && id == "clientid" && secret == "clientsecret":
		case r.PostForm.Get("client_assertion") != "" && r.PostForm.Get("client_assertion_type") == oidc.ClientAssertionTypeJWTAssertion:
			a.assertions.Add(1)
		default:
			httphelper.MarshalJSONWithStatus(w, oidc.ErrInvalidClient(), http.StatusUnauthorized)
			return
		}
		if r.PostForm.Get("token") != "good" {
			httphelper.MarshalJSON(w, map[string]any{"active": false})
			return
		}
		httphelper.MarshalJSON(w, map[string]any{
			"active": true,
			"sub":    "user1",
			"scope":  "openid api",
			"tenant": "acme",
		})
	})
	a.Server = httptest.NewServer(mux)
	t.Cleanup(a.Close)
	return a
}

func TestNewResourceServer(t *testing.T) {
	a := newAuthority(t)
	type args struct {
		issuer     string
		authorizer func(*client.Request) error
		options    []Option
	}
	type wantFields struct {
		issuer        string
		tokenURL      string
		introspectURL string
	}
	tests := []struct {
		name       string
		args       args
		wantFields *wantFields
		wantErr    bool
	}{
		{
			name: "full-discovery",
			args: args{
				issuer:  a.URL,
				options: []Option{WithClient(a.Client())},
			},
			wantFields: &wantFields{
				issuer:        a.URL,
				tokenURL:      a.URL + "/oauth/token",
				introspectURL: a.URL + "/oauth/introspect",
			},
		},
		{
			name: "with-static-tokenurl",
			args: args{
				issuer: a.URL,
				options: []Option{
					WithClient(a.Client()),
					WithStaticEndpoints("https://some.host/token-url", ""),
				},
			},
			wantFields: &wantFields{
				issuer:        a.URL,
				tokenURL:      "https://some.host/token-url",
				introspectURL: a.URL + "/oauth/introspect",
			},
		},
		{
			name: "with-static-introspecturl",
			args: args{
				issuer: a.URL,
				options: []Option{
					WithClient(a.Client()),
					WithStaticEndpoints("", "https://some.host/instrospect-url"),
				},
			},
			wantFields: &wantFields{
				issuer:        a.URL,
				tokenURL:      a.URL + "/oauth/token",
				introspectURL: "https://some.host/instrospect-url",
			},
		},
		{
			name: "bad-discovery",
			args: args{
				issuer: "https://127.0.0.1:65535",
			},
			wantErr: true,
		},
		{
			name: "bad-discovery-with-static-tokenurl",
			args: args{
				issuer:  "https://127.0.0.1:65535",
				options: []Option{WithStaticEndpoints("https://some.host/token-url", "")},
			},
			wantErr: true,
		},
		{
			name: "invalid-issuer",
			args: args{
				issuer: "not a url",
			},
			wantErr: true,
		},
		{
			name: "bad-discovery-with-all-static-endpoints",
			args: args{
				issuer: "https://127.0.0.1:65535",
				options: []Option{
					WithStaticEndpoints("https://some.host/token-url", "https://some.host/instrospect-url"),
				},
			},
			wantFields: &wantFields{
				issuer:        "https://127.0.0.1:65535",
				tokenURL:      "https://some.host/token-url",
				introspectURL: "https://some.host/instrospect-url",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newResourceServer(context.Background(), tt.args.issuer, tt.args.authorizer, tt.args.options...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFields.issuer, got.issuer)
			assert.Equal(t, tt.wantFields.tokenURL, got.TokenEndpoint())
			assert.Equal(t, tt.wantFields.introspectURL, got.IntrospectionURL())
		})
	}
}

func TestNewResourceServer_SharedCache(t *testing.T) {
	a := newAuthority(t)
	cache, err := discovery.NewCache(a.URL, httphelper.StaticDoer(a.Client()))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := NewResourceServerClientCredentials(context.Background(), a.URL, "clientid", "clientsecret",
			WithClient(a.Client()),
			WithDiscoveryCache(cache),
		)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, a.discoveryCalls.Load())
}

func TestIntrospect(t *testing.T) {
	a := newAuthority(t)
	rp, err := NewResourceServerClientCredentials(context.Background(), a.URL, "clientid", "clientsecret", WithClient(a.Client()))
	require.NoError(t, err)
	unauthorized, err := NewResourceServerClientCredentials(context.Background(), a.URL, "clientid", "wrong", WithClient(a.Client()))
	require.NoError(t, err)

	type args struct {
		rp    ResourceServer
		token string
	}
	tests := []struct {
		name       string
		args       args
		wantActive bool
		wantErr    error
	}{
		{
			name:    "missing-introspect-url",
			args:    args{rp: &resourceServer{tokenURL: a.URL + "/oauth/token"}, token: "good"},
			wantErr: ErrMissingIntrospectionURL,
		},
		{
			name:    "missing-token",
			args:    args{rp: rp},
			wantErr: client.ErrMissingToken,
		},
		{
			name:    "invalid-client",
			args:    args{rp: unauthorized, token: "good"},
			wantErr: oidc.ErrInvalidClient(),
		},
		{
			name: "inactive",
			args: args{rp: rp, token: "revoked"},
		},
		{
			name:       "active",
			args:       args{rp: rp, token: "good"},
			wantActive: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Introspect[*oidc.IntrospectionResponse](context.Background(), tt.args.rp, tt.args.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantActive, got.Active)
		})
	}
}

type customIntrospection struct {
	Active bool                     `json:"active"`
	Scope  oidc.SpaceDelimitedArray `json:"scope"`
	Tenant string                   `json:"tenant"`
}

func TestIntrospect_custom(t *testing.T) {
	a := newAuthority(t)
	rp, err := NewResourceServerClientCredentials(context.Background(), a.URL, "clientid", "clientsecret", WithClient(a.Client()))
	require.NoError(t, err)

	got, err := Introspect[customIntrospection](context.Background(), rp, "good")
	require.NoError(t, err)
	assert.Equal(t, customIntrospection{
		Active: true,
		Scope:  oidc.SpaceDelimitedArray{"openid", "api"},
		Tenant: "acme",
	}, got)
}

func TestNewResourceServerFromKeyFile(t *testing.T) {
	a := newAuthority(t)
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	data, err := json.Marshal(map[string]string{
		"type":     "application",
		"keyId":    "k1",
		"key":      string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})),
		"clientId": "app@project",
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	rp, err := NewResourceServerFromKeyFile(context.Background(), a.URL, path, WithClient(a.Client()))
	require.NoError(t, err)

	got, err := Introspect[*oidc.IntrospectionResponse](context.Background(), rp, "good")
	require.NoError(t, err)
	assert.True(t, got.Active)
	assert.Equal(t, "user1", got.Subject)
	assert.EqualValues(t, 1, a.assertions.Load())

	_, err = NewResourceServerFromKeyFile(context.Background(), a.URL, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	_, err = NewResourceServerJWTProfile(context.Background(), a.URL, "cid", "k1", []byte("not a key"))
	assert.Error(t, err)
}

package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/muhlemmer/gu"

	httphelper "github.com/zitadel/oidcclient/pkg/http"
)

// AuthStyle selects where client credentials are placed on a request.
type AuthStyle int

const (
	// AuthStyleNone attaches no credentials, for public clients or
	// callers that populate Parameters themselves.
	AuthStyleNone AuthStyle = iota
	// AuthStyleBasic sends client_id and client_secret in an
	// `Authorization: Basic` header.
	AuthStyleBasic
	// AuthStylePostBody sends client_id and client_secret as form parameters.
	AuthStylePostBody
	// AuthStyleAuthorizationHeader sends the client assertion as
	// `Authorization: Bearer` header and nothing in the body.
	AuthStyleAuthorizationHeader
)

func (s AuthStyle) String() string {
	switch s {
	case AuthStyleNone:
		return "none"
	case AuthStyleBasic:
		return "basic"
	case AuthStylePostBody:
		return "post_body"
	case AuthStyleAuthorizationHeader:
		return "authorization_header"
	default:
		return "unknown"
	}
}

// requiresClientID reports whether the style cannot work without a client_id.
func (s AuthStyle) requiresClientID() bool {
	return s == AuthStyleBasic || s == AuthStylePostBody
}

// BasicEncoding selects how client_id and client_secret are encoded
// inside an `Authorization: Basic` header.
type BasicEncoding int

const (
	// BasicEncodingRFC6749 form-url-encodes id and secret before base64,
	// RFC 6749 section 2.3.1.
	BasicEncodingRFC6749 BasicEncoding = iota
	// BasicEncodingRFC2617 base64 encodes id and secret as they are.
	BasicEncodingRFC2617
)

// ClientAssertion authenticates a client with a signed token instead of
// a secret, RFC 7521 section 4.2.
type ClientAssertion struct {
	Type  string
	Value string
}

func (a ClientAssertion) IsSet() bool {
	return a.Value != ""
}

// Request carries what every protocol request has in common.
// Operation specific request types embed it.
//
// A Request is never mutated by the client: every operation works on a
// Clone, so the same Request may be reused and sent concurrently.
type Request struct {
	// Address is the absolute URL of the endpoint.
	Address string

	AuthStyle       AuthStyle
	BasicEncoding   BasicEncoding
	ClientID        string
	ClientSecret    string
	ClientAssertion ClientAssertion

	// Parameters are sent in addition to the ones the operation adds.
	Parameters *Parameters
	// Header holds additional HTTP headers.
	Header http.Header
	// Properties is caller metadata. It is never sent.
	Properties map[string]any

	prepared *http.Request
}

// Clone returns a deep copy of r.
func (r *Request) Clone() *Request {
	return &Request{
		Address:         r.Address,
		AuthStyle:       r.AuthStyle,
		BasicEncoding:   r.BasicEncoding,
		ClientID:        r.ClientID,
		ClientSecret:    r.ClientSecret,
		ClientAssertion: r.ClientAssertion,
		Parameters:      r.Parameters.Clone(),
		Header:          r.Header.Clone(),
		Properties:      gu.MapCopy(r.Properties),
	}
}

// clientIDPresent reports whether a client_id is available from
// either the parameters or the ClientID field.
func (r *Request) clientIDPresent() bool {
	return r.Parameters.Has("client_id") || !isMissing(r.ClientID)
}

// prepare validates r and turns it into an HTTP request. A form body is
// built for POST. Calling prepare again returns the first result.
func (r *Request) prepare(ctx context.Context, method string) (*http.Request, error) {
	if r.prepared != nil {
		return r.prepared, nil
	}
	if isMissing(r.Address) {
		return nil, ErrMissingAddress
	}
	endpoint, err := url.Parse(r.Address)
	if err != nil || !endpoint.IsAbs() || endpoint.Host == "" || (endpoint.Scheme != "http" && endpoint.Scheme != "https") {
		return nil, ErrInvalidAddress
	}
	if r.AuthStyle.requiresClientID() && !r.clientIDPresent() {
		return nil, ErrMissingClientID
	}
	if r.Parameters == nil {
		r.Parameters = new(Parameters)
	}
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	if err := applyClientCredentials(r); err != nil {
		return nil, err
	}

	var req *http.Request
	if method == http.MethodPost {
		req, err = httphelper.NewFormRequest(ctx, endpoint.String(), r.Parameters.Encode())
	} else {
		if r.Parameters.Len() > 0 {
			query := endpoint.Query()
			for _, k := range r.Parameters.Keys() {
				v, _ := r.Parameters.Get(k)
				query.Set(k, v)
			}
			endpoint.RawQuery = query.Encode()
		}
		req, err = http.NewRequestWithContext(ctx, method, endpoint.String(), nil)
	}
	if err != nil {
		return nil, err
	}
	for k, values := range r.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", httphelper.ContentTypeJSON)

	r.prepared = req
	return req, nil
}

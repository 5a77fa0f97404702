package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v4"
	"golang.org/x/oauth2"

	httphelper "github.com/zitadel/oidcclient/pkg/http"
	"github.com/zitadel/oidcclient/pkg/oidc"
)

// ErrorType classifies the outcome of a send.
type ErrorType int

const (
	ErrorTypeNone ErrorType = iota
	// ErrorTypeHTTP means a response with a non-success status was received.
	ErrorTypeHTTP
	// ErrorTypeException means no usable response was received: the
	// transport failed, the body could not be read or it could not be parsed.
	ErrorTypeException
	// ErrorTypePolicyViolation means the discovery policy rejected the
	// authority or the document.
	ErrorTypePolicyViolation
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeNone:
		return "none"
	case ErrorTypeHTTP:
		return "http"
	case ErrorTypeException:
		return "exception"
	case ErrorTypePolicyViolation:
		return "policy_violation"
	default:
		return "unknown"
	}
}

// Response is the normalized outcome of one protocol request.
// A *Response with IsError() set is usable as error.
type Response struct {
	// StatusCode is zero when no HTTP response was received.
	StatusCode int
	Status     string
	Header     http.Header
	Raw        []byte
	// JSON is the parsed body, nil when the body was empty or not a JSON object.
	JSON map[string]any

	ErrorType        ErrorType
	ErrorCode        string
	ErrorDescription string
	// Err is the underlying cause. For ErrorTypeHTTP with an error code it
	// is an *oidc.Error.
	Err error
}

func (r *Response) IsError() bool {
	return r.ErrorType != ErrorTypeNone
}

// Error returns a human readable message, or "" on success.
func (r *Response) Error() string {
	switch r.ErrorType {
	case ErrorTypeNone:
		return ""
	case ErrorTypeHTTP:
		if r.ErrorCode != "" {
			msg := fmt.Sprintf("oidc client: %s: %s", r.Status, r.ErrorCode)
			if r.ErrorDescription != "" {
				msg += ": " + r.ErrorDescription
			}
			return msg
		}
		return fmt.Sprintf("oidc client: %s: %s", r.Status, strings.TrimSpace(string(r.Raw)))
	default:
		return fmt.Sprintf("oidc client: %s: %v", r.ErrorType, r.Err)
	}
}

func (r *Response) Unwrap() error {
	return r.Err
}

// ProtocolError returns the OAuth 2.0 error of the response, or nil.
func (r *Response) ProtocolError() *oidc.Error {
	if r.ErrorCode == "" {
		return nil
	}
	return oidc.NewError(r.ErrorCode, r.ErrorDescription)
}

// String returns the top level string member name of the JSON body.
func (r *Response) String(name string) string {
	s, _ := r.JSON[name].(string)
	return s
}

// exceptionResponse is the outcome of a send that did not produce a
// usable HTTP response.
func exceptionResponse(err error) Response {
	return Response{
		ErrorType: ErrorTypeException,
		Err:       err,
	}
}

func policyViolationResponse(err error) Response {
	return Response{
		ErrorType: ErrorTypePolicyViolation,
		Err:       err,
	}
}

// normalize turns the result of a send into a Response. On success the
// body is additionally decoded into payload, when not nil.
func normalize(httpResp *http.Response, sendErr error, payload any) Response {
	if sendErr != nil {
		return exceptionResponse(sendErr)
	}
	if httpResp == nil {
		return exceptionResponse(ErrNoResponse)
	}
	r := Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Header:     httpResp.Header,
	}
	if r.Status == "" {
		r.Status = fmt.Sprintf("%d %s", r.StatusCode, http.StatusText(r.StatusCode))
	}
	body, err := httphelper.ReadBody(httpResp)
	if err != nil {
		r.ErrorType = ErrorTypeException
		r.Err = err
		return r
	}
	r.Raw = body

	if httphelper.IsSuccess(r.StatusCode) {
		if len(bytes.TrimSpace(body)) == 0 {
			return r
		}
		if err := json.Unmarshal(body, &r.JSON); err != nil {
			r.ErrorType = ErrorTypeException
			r.Err = fmt.Errorf("invalid JSON response: %w", err)
			return r
		}
		if payload != nil {
			if err := json.Unmarshal(body, payload); err != nil {
				r.ErrorType = ErrorTypeException
				r.Err = fmt.Errorf("unexpected response: %w", err)
			}
		}
		return r
	}

	r.ErrorType = ErrorTypeHTTP
	if json.Unmarshal(body, &r.JSON) == nil {
		r.ErrorCode = r.String("error")
		r.ErrorDescription = r.String("error_description")
	}
	if r.ErrorCode == "" {
		params := challengeParams(httpResp.Header.Get("WWW-Authenticate"))
		r.ErrorCode = params["error"]
		r.ErrorDescription = params["error_description"]
	}
	if r.ErrorCode != "" {
		r.Err = oidc.NewError(r.ErrorCode, r.ErrorDescription)
	} else {
		r.Err = fmt.Errorf("unexpected status %s", r.Status)
	}
	return r
}

var challengeParam = regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_\-]*)\s*=\s*(?:"((?:[^"\\]|\\.)*)"|([^\s,"]*))`)

// challengeParams returns the auth-params of a Bearer WWW-Authenticate
// challenge, RFC 6750 section 3. Unquoted and quoted values are supported.
func challengeParams(header string) map[string]string {
	scheme, rest, _ := strings.Cut(strings.TrimSpace(header), " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return nil
	}
	params := make(map[string]string)
	for _, m := range challengeParam.FindAllStringSubmatch(rest, -1) {
		value := m[3]
		if m[2] != "" {
			value = strings.ReplaceAll(m[2], `\"`, `"`)
		}
		params[strings.ToLower(m[1])] = value
	}
	return params
}

// TokenResponse is the normalized token endpoint response.
type TokenResponse struct {
	Response
	oidc.AccessTokenResponse

	issuedAt time.Time
}

// Token converts a successful response to an oauth2.Token with the
// expiry relative to the time the response was received.
// It returns nil for error responses.
func (r *TokenResponse) Token() *oauth2.Token {
	if r.IsError() {
		return nil
	}
	return r.Oauth2Token(r.issuedAt)
}

type DeviceAuthorizationResponse struct {
	Response
	oidc.DeviceAuthorizationResponse
}

// IntrospectionResponse is the normalized introspection response.
// A body without `active` member is an ErrorTypeException.
type IntrospectionResponse struct {
	Response
	oidc.IntrospectionResponse
}

// RevocationResponse carries no payload. RFC 7009 conveys the outcome
// through the status code only.
type RevocationResponse struct {
	Response
}

type UserInfoResponse struct {
	Response
	oidc.UserInfo
}

// DiscoveryDocumentResponse holds the discovery document together with
// the key set referenced by its jwks_uri.
type DiscoveryDocumentResponse struct {
	Response
	oidc.DiscoveryConfiguration

	// KeySet is nil when the document has no jwks_uri.
	KeySet *jose.JSONWebKeySet
}

// SigningKey returns the signature key of the key set matching keyID and
// alg. An empty keyID matches when exactly one key qualifies.
func (r *DiscoveryDocumentResponse) SigningKey(keyID string, alg jose.SignatureAlgorithm) (jose.JSONWebKey, error) {
	if r.IsError() {
		return jose.JSONWebKey{}, &r.Response
	}
	if r.KeySet == nil {
		return jose.JSONWebKey{}, oidc.ErrKeyNone
	}
	return oidc.FindMatchingKey(keyID, oidc.KeyUseSignature, string(alg), r.KeySet.Keys...)
}

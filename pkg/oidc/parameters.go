package oidc

// Form parameter names used by the token, introspection, revocation
// and device authorization endpoints.
const (
	ParamGrantType           = "grant_type"
	ParamScope               = "scope"
	ParamCode                = "code"
	ParamRedirectURI         = "redirect_uri"
	ParamCodeVerifier        = "code_verifier"
	ParamUsername            = "username"
	ParamPassword            = "password"
	ParamRefreshToken        = "refresh_token"
	ParamDeviceCode          = "device_code"
	ParamClientID            = "client_id"
	ParamClientSecret        = "client_secret"
	ParamClientAssertion     = "client_assertion"
	ParamClientAssertionType = "client_assertion_type"
	ParamToken               = "token"
	ParamTokenTypeHint       = "token_type_hint"
)

const (
	// GrantTypeClientCredentials defines the grant_type `client_credentials` used for the Token Request in the Client Credentials Flow
	GrantTypeClientCredentials GrantType = "client_credentials"

	// GrantTypePassword defines the grant_type `password` used for the Resource Owner Password Credentials Grant
	GrantTypePassword GrantType = "password"

	// GrantTypeCode defines the grant_type `authorization_code` used for the Token Request in the Authorization Code Flow
	GrantTypeCode GrantType = "authorization_code"

	// GrantTypeRefreshToken defines the grant_type `refresh_token` used for the Token Request in the Refresh Token Flow
	GrantTypeRefreshToken GrantType = "refresh_token"

	// GrantTypeDeviceCode defines the grant_type `urn:ietf:params:oauth:grant-type:device_code` used for the Device Access Token Request
	GrantTypeDeviceCode GrantType = "urn:ietf:params:oauth:grant-type:device_code"

	// GrantTypeBearer defines the grant_type `urn:ietf:params:oauth:grant-type:jwt-bearer` used for the JWT Authorization Grant
	GrantTypeBearer GrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	// GrantTypeTokenExchange defines the grant_type `urn:ietf:params:oauth:grant-type:token-exchange` used for the OAuth Token Exchange Grant
	GrantTypeTokenExchange GrantType = "urn:ietf:params:oauth:grant-type:token-exchange"
)

// GrantType is the value of the grant_type parameter of a token request.
// Any value is accepted, the constants above only name the registered ones.
type GrantType string

const (
	// ClientAssertionTypeJWTAssertion is the client_assertion_type of RFC 7523 client authentication.
	ClientAssertionTypeJWTAssertion = "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"

	TokenTypeHintAccessToken  = "access_token"
	TokenTypeHintRefreshToken = "refresh_token"

	BearerToken = "Bearer"
)

package oidc

const (
	DiscoveryEndpoint = "/.well-known/openid-configuration"
)

// DiscoveryConfiguration is the OpenID Provider Metadata document,
// OpenID Connect Discovery 1.0 section 3.
type DiscoveryConfiguration struct {
	// Issuer is the identifier of the OP and is used in the tokens as `iss` claim.
	Issuer string `json:"issuer,omitempty"`

	// AuthorizationEndpoint is the URL of the OAuth 2.0 Authorization Endpoint where all user interactive login start
	AuthorizationEndpoint string `json:"authorization_endpoint,omitempty"`

	// TokenEndpoint is the URL of the OAuth 2.0 Token Endpoint where all tokens are issued, except when using Implicit Flow
	TokenEndpoint string `json:"token_endpoint,omitempty"`

	// IntrospectionEndpoint is the URL of the OAuth 2.0 Introspection Endpoint.
	IntrospectionEndpoint string `json:"introspection_endpoint,omitempty"`

	// UserinfoEndpoint is the URL where an access_token can be used to retrieve the Userinfo.
	UserinfoEndpoint string `json:"userinfo_endpoint,omitempty"`

	// RevocationEndpoint is the URL of the OAuth 2.0 Revocation Endpoint.
	RevocationEndpoint string `json:"revocation_endpoint,omitempty"`

	// EndSessionEndpoint is a URL where the RP can perform a redirect to request that the End-User be logged out at the OP.
	EndSessionEndpoint string `json:"end_session_endpoint,omitempty"`

	// DeviceAuthorizationEndpoint is the URL of the Device Authorization Endpoint, RFC 8628 section 4.
	DeviceAuthorizationEndpoint string `json:"device_authorization_endpoint,omitempty"`

	// PushedAuthorizationRequestEndpoint is the URL of the PAR endpoint, RFC 9126 section 5.
	PushedAuthorizationRequestEndpoint string `json:"pushed_authorization_request_endpoint,omitempty"`

	// CheckSessionIframe is a URL where the OP provides an iframe that support cross-origin communications for session state information with the RP Client.
	CheckSessionIframe string `json:"check_session_iframe,omitempty"`

	// JwksURI is the URL of the JSON Web Key Set. This site contains the signing keys that RPs can use to validate the signature.
	JwksURI string `json:"jwks_uri,omitempty"`

	// RegistrationEndpoint is the URL for the Dynamic Client Registration.
	RegistrationEndpoint string `json:"registration_endpoint,omitempty"`

	ScopesSupported        []string    `json:"scopes_supported,omitempty"`
	ResponseTypesSupported []string    `json:"response_types_supported,omitempty"`
	ResponseModesSupported []string    `json:"response_modes_supported,omitempty"`
	GrantTypesSupported    []GrantType `json:"grant_types_supported,omitempty"`
	SubjectTypesSupported  []string    `json:"subject_types_supported,omitempty"`
	ClaimsSupported        []string    `json:"claims_supported,omitempty"`

	// IDTokenSigningAlgValuesSupported contains a list of JWS signing algorithms (alg values) supported by the OP for the ID Token.
	IDTokenSigningAlgValuesSupported []string `json:"id_token_signing_alg_values_supported,omitempty"`

	// TokenEndpointAuthMethodsSupported contains a list of Client Authentication methods supported by the Token Endpoint. If omitted, the default is client_secret_basic.
	TokenEndpointAuthMethodsSupported []AuthMethod `json:"token_endpoint_auth_methods_supported,omitempty"`

	TokenEndpointAuthSigningAlgValuesSupported []string     `json:"token_endpoint_auth_signing_alg_values_supported,omitempty"`
	RevocationEndpointAuthMethodsSupported     []AuthMethod `json:"revocation_endpoint_auth_methods_supported,omitempty"`
	IntrospectionEndpointAuthMethodsSupported  []AuthMethod `json:"introspection_endpoint_auth_methods_supported,omitempty"`

	// CodeChallengeMethodsSupported contains a list of Proof Key for Code Exchange (PKCE) code challenge methods supported by the OP.
	CodeChallengeMethodsSupported []string `json:"code_challenge_methods_supported,omitempty"`

	// ClaimsLocalesSupported contains a list of BCP47 language tag values that the OP supports for values of Claims returned.
	ClaimsLocalesSupported Locales `json:"claims_locales_supported,omitempty"`

	// UILocalesSupported contains a list of BCP47 language tag values that the OP supports for the user interface.
	UILocalesSupported Locales `json:"ui_locales_supported,omitempty"`

	ServiceDocumentation string `json:"service_documentation,omitempty"`
}

// Endpoints returns every endpoint URL advertised by the document,
// keyed by its metadata name. Empty values are left out.
func (d *DiscoveryConfiguration) Endpoints() map[string]string {
	all := map[string]string{
		"authorization_endpoint":                d.AuthorizationEndpoint,
		"token_endpoint":                        d.TokenEndpoint,
		"introspection_endpoint":                d.IntrospectionEndpoint,
		"userinfo_endpoint":                     d.UserinfoEndpoint,
		"revocation_endpoint":                   d.RevocationEndpoint,
		"end_session_endpoint":                  d.EndSessionEndpoint,
		"device_authorization_endpoint":         d.DeviceAuthorizationEndpoint,
		"pushed_authorization_request_endpoint": d.PushedAuthorizationRequestEndpoint,
		"check_session_iframe":                  d.CheckSessionIframe,
		"jwks_uri":                              d.JwksURI,
		"registration_endpoint":                 d.RegistrationEndpoint,
	}
	for k, v := range all {
		if v == "" {
			delete(all, k)
		}
	}
	return all
}

type AuthMethod string

const (
	AuthMethodBasic         AuthMethod = "client_secret_basic"
	AuthMethodPost          AuthMethod = "client_secret_post"
	AuthMethodNone          AuthMethod = "none"
	AuthMethodPrivateKeyJWT AuthMethod = "private_key_jwt"
)

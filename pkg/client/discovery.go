package client

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strings"

	"github.com/zitadel/oidcclient/pkg/oidc"
)

// ErrPolicyViolation is wrapped by the Err of every discovery response
// with ErrorTypePolicyViolation.
var ErrPolicyViolation = errors.New("discovery policy violation")

// DiscoveryEndpoint is a parsed discovery address.
type DiscoveryEndpoint struct {
	// Authority is the issuer URL without trailing slash.
	Authority string
	// URL is the well-known discovery document URL.
	URL string
}

// ParseDiscoveryURL accepts either an authority or the full well-known
// discovery URL and returns both forms.
func ParseDiscoveryURL(input string) (*DiscoveryEndpoint, error) {
	u, err := url.Parse(strings.TrimSpace(input))
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, input)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	address := u.String()
	if strings.HasSuffix(u.Path, oidc.DiscoveryEndpoint) {
		return &DiscoveryEndpoint{
			Authority: strings.TrimSuffix(address, oidc.DiscoveryEndpoint),
			URL:       address,
		}, nil
	}
	return &DiscoveryEndpoint{
		Authority: address,
		URL:       address + oidc.DiscoveryEndpoint,
	}, nil
}

// DiscoveryPolicy holds the checks applied to the authority and to
// the fetched discovery document.
type DiscoveryPolicy struct {
	// Authority is the expected issuer. It defaults to the authority the
	// document was requested from.
	Authority string

	RequireHTTPS        bool
	AllowHTTPOnLoopback bool
	ValidateIssuerName  bool
	ValidateEndpoints   bool
	RequireKeySet       bool

	// AdditionalEndpointBaseAddresses are accepted as endpoint prefixes
	// in addition to the authority.
	AdditionalEndpointBaseAddresses []string
	// EndpointValidationExcludeList names document members, such as
	// "userinfo_endpoint", that are not checked against the authority.
	EndpointValidationExcludeList []string
}

func DefaultDiscoveryPolicy() *DiscoveryPolicy {
	return &DiscoveryPolicy{
		RequireHTTPS:        true,
		AllowHTTPOnLoopback: true,
		ValidateIssuerName:  true,
		ValidateEndpoints:   true,
		RequireKeySet:       true,
	}
}

func (p *DiscoveryPolicy) Clone() *DiscoveryPolicy {
	c := *p
	c.AdditionalEndpointBaseAddresses = append([]string(nil), p.AdditionalEndpointBaseAddresses...)
	c.EndpointValidationExcludeList = append([]string(nil), p.EndpointValidationExcludeList...)
	return &c
}

func (p *DiscoveryPolicy) violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPolicyViolation, fmt.Sprintf(format, args...))
}

// validateAddress checks the transport security of a single URL.
func (p *DiscoveryPolicy) validateAddress(address string) error {
	u, err := url.Parse(address)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return p.violation("malformed URL %q", address)
	}
	if !p.RequireHTTPS || u.Scheme == "https" {
		return nil
	}
	if p.AllowHTTPOnLoopback && u.Scheme == "http" && isLoopback(u.Hostname()) {
		return nil
	}
	return p.violation("HTTPS required: %s", address)
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// validateDocument checks a fetched document that was requested
// from authority.
func (p *DiscoveryPolicy) validateDocument(doc *oidc.DiscoveryConfiguration, authority string) error {
	expected := authority
	if p.Authority != "" {
		expected = p.Authority
	}
	if p.ValidateIssuerName {
		if doc.Issuer == "" {
			return p.violation("issuer name is missing")
		}
		if strings.TrimSuffix(doc.Issuer, "/") != strings.TrimSuffix(expected, "/") {
			return p.violation("issuer name %q does not match authority %q", doc.Issuer, expected)
		}
	}
	if p.RequireKeySet && doc.JwksURI == "" {
		return p.violation("jwks_uri is missing")
	}
	if p.ValidateEndpoints {
		for name, endpoint := range doc.Endpoints() {
			if slices.Contains(p.EndpointValidationExcludeList, name) {
				continue
			}
			if err := p.validateAddress(endpoint); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if !p.allowedEndpoint(endpoint, expected) {
				return p.violation("%s %q is not on the authority", name, endpoint)
			}
		}
	}
	return nil
}

func (p *DiscoveryPolicy) allowedEndpoint(endpoint, authority string) bool {
	bases := append([]string{authority}, p.AdditionalEndpointBaseAddresses...)
	for _, base := range bases {
		base = strings.TrimSuffix(base, "/")
		if strings.EqualFold(endpoint, base) || hasPrefixFold(endpoint, base+"/") {
			return true
		}
	}
	return false
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

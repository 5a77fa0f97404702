package oidc

import "encoding/json"

// DeviceAuthorizationResponse implements
// https://www.rfc-editor.org/rfc/rfc8628#section-3.2
// 3.2.  Device Authorization Response.
type DeviceAuthorizationResponse struct {
	DeviceCode              string `json:"device_code"`
	UserCode                string `json:"user_code"`
	VerificationURI         string `json:"verification_uri"`
	VerificationURIComplete string `json:"verification_uri_complete,omitempty"`
	ExpiresIn               int    `json:"expires_in"`
	Interval                int    `json:"interval,omitempty"`
}

func (resp *DeviceAuthorizationResponse) UnmarshalJSON(data []byte) error {
	type Alias DeviceAuthorizationResponse
	aux := &struct {
		// workaround misspelling of verification_uri
		// https://developers.google.com/identity/protocols/oauth2/limited-input-device#success-response
		VerificationURL string `json:"verification_url"`
		*Alias
	}{
		Alias: (*Alias)(resp),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if resp.VerificationURI == "" {
		resp.VerificationURI = aux.VerificationURL
	}
	return nil
}

// DefaultPollingInterval is the polling interval in seconds when the
// server does not send one, RFC 8628 section 3.2.
const DefaultPollingInterval = 5

// PollingInterval returns the interval in seconds a client must wait
// between device token requests.
func (resp *DeviceAuthorizationResponse) PollingInterval() int {
	if resp.Interval <= 0 {
		return DefaultPollingInterval
	}
	return resp.Interval
}

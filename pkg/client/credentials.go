package client

import (
	"github.com/zitadel/oidcclient/pkg/oidc"

	httphelper "github.com/zitadel/oidcclient/pkg/http"
)

// applyClientCredentials places the client credentials of r according to
// r.AuthStyle. A client_id already present in r.Parameters takes precedence
// over r.ClientID and is never duplicated.
func applyClientCredentials(r *Request) error {
	switch r.AuthStyle {
	case AuthStyleBasic:
		id := pick(r.Parameters, oidc.ParamClientID, r.ClientID)
		secret := pick(r.Parameters, oidc.ParamClientSecret, r.ClientSecret)
		r.Parameters.Delete(oidc.ParamClientID)
		r.Parameters.Delete(oidc.ParamClientSecret)
		r.Header.Set("Authorization", httphelper.BasicAuthorization(id, secret, r.BasicEncoding == BasicEncodingRFC6749))
		addAssertion(r)
	case AuthStylePostBody:
		if !r.Parameters.Has(oidc.ParamClientID) {
			r.Parameters.AddOptional(oidc.ParamClientID, r.ClientID)
		}
		if !r.Parameters.Has(oidc.ParamClientSecret) {
			r.Parameters.AddOptional(oidc.ParamClientSecret, r.ClientSecret)
		}
		addAssertion(r)
	case AuthStyleAuthorizationHeader:
		if !r.ClientAssertion.IsSet() {
			return ErrMissingClientAssertion
		}
		r.Header.Set("Authorization", httphelper.BearerAuthorization(r.ClientAssertion.Value))
	}
	return nil
}

func pick(params *Parameters, key, fallback string) string {
	if v, ok := params.Get(key); ok {
		return v
	}
	return fallback
}

func addAssertion(r *Request) {
	if !r.ClientAssertion.IsSet() {
		return
	}
	assertionType := r.ClientAssertion.Type
	if assertionType == "" {
		assertionType = oidc.ClientAssertionTypeJWTAssertion
	}
	r.Parameters.Set(oidc.ParamClientAssertionType, assertionType)
	r.Parameters.Set(oidc.ParamClientAssertion, r.ClientAssertion.Value)
}

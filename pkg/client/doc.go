// Package client builds and sends OAuth 2.0 and OpenID Connect requests
// and normalizes their outcome.
//
// Every operation takes a request value, works on a deep copy of it and
// returns a typed response. Only configuration errors, detected before
// anything is sent, are returned as error. Transport failures, HTTP error
// statuses and malformed bodies are reported through the response:
//
//	resp, err := c.RequestClientCredentialsToken(ctx, &client.TokenRequest{
//		Request: client.Request{
//			Address:      "https://issuer.example.com/oauth/token",
//			AuthStyle:    client.AuthStyleBasic,
//			ClientID:     "cid",
//			ClientSecret: "secret",
//		},
//		Scope: "api1",
//	})
//	if err != nil {
//		// misconfigured request, nothing was sent
//	}
//	if resp.IsError() {
//		// resp.ErrorType tells transport, HTTP and policy failures apart
//	}
package client

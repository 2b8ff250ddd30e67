package api

import (
	"context"
	"net/http"

	"photoshare/pkg/generator"
)

// TokenFunc returns the access token of the caller, or "" when there is no session.
type TokenFunc func(ctx context.Context) string

// Transport attaches the caller's bearer token and a request id to every
// outgoing request. Requests without a token are sent unchanged apart from
// the request id.
type Transport struct {
	Base  http.RoundTripper
	Token TokenFunc
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	if t.Token != nil {
		if token := t.Token(req.Context()); token != "" {
			out.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if out.Header.Get("X-Request-ID") == "" {
		out.Header.Set("X-Request-ID", generator.RequestID())
	}

	return t.base().RoundTrip(out)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

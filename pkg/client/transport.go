package stacclient

import "net/http"

// headerTransport injects one static authentication header into every
// outgoing request. Requests are cloned so shared requests are never
// mutated.
type headerTransport struct {
	header string
	value  string
	base   http.RoundTripper
}

// BearerAuth returns a RoundTripper sending the token as an
// "Authorization: Bearer" header. A nil base falls back to
// http.DefaultTransport.
func BearerAuth(token string, base http.RoundTripper) http.RoundTripper {
	value := ""
	if token != "" {
		value = "Bearer " + token
	}
	return &headerTransport{header: "Authorization", value: value, base: base}
}

// APIKeyAuth returns a RoundTripper sending the key in the given
// header, "X-Api-Key" when header is empty.
func APIKeyAuth(key, header string, base http.RoundTripper) http.RoundTripper {
	if header == "" {
		header = "X-Api-Key"
	}
	return &headerTransport{header: header, value: key, base: base}
}

// RoundTrip implements http.RoundTripper.
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.value != "" {
		clone.Header.Set(t.header, t.value)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

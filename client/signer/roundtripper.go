package signer

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// signing is an http.RoundTripper that stamps authentication
// headers on each request just before it is sent.
type signing struct {
	signer *Signer
	next   http.RoundTripper
}

// NewRoundTripper returns an http.RoundTripper signing every
// request with s before passing it to next.
func NewRoundTripper(s *Signer, next http.RoundTripper) http.RoundTripper {
	return signing{signer: s, next: next}
}

func (st signing) RoundTrip(r *http.Request) (*http.Response, error) {
	body, err := readBody(r)
	if err != nil {
		return nil, fmt.Errorf("reading body for signature: %w", err)
	}

	cpy := r.Clone(r.Context())
	if body != nil {
		cpy.Body = io.NopCloser(bytes.NewReader(body))
	}

	if cpy.Header.Get("Content-Type") == "" {
		cpy.Header.Set("Content-Type", "application/json")
	}

	st.signer.Sign(cpy.Method, cpy.URL.String(), body).Apply(cpy.Header)

	return st.next.RoundTrip(cpy)
}

// CloseIdleConnections forwards to the wrapped transport when it pools connections.
func (st signing) CloseIdleConnections() {
	type closeIdler interface{ CloseIdleConnections() }
	if ci, ok := st.next.(closeIdler); ok {
		ci.CloseIdleConnections()
	}
}

// readBody returns the request body without consuming r.Body,
// preferring GetBody so the original stays replayable.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	rc := r.Body
	if r.GetBody != nil {
		var err error
		if rc, err = r.GetBody(); err != nil {
			return nil, err
		}
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

package signer

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Header names are defined by the exchange and must match exactly.
const (
	HeaderTimestamp   = "Api-Timestamp"
	HeaderKey         = "Api-Key"
	HeaderContentHash = "Api-Content-Hash"
	HeaderSignature   = "Api-Signature"
)

// EmptyContentHash is the hex SHA-512 digest of an empty body.
const EmptyContentHash = "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e"

// Credentials identify an account. Both fields may be empty,
// in which case only public endpoints will succeed.
type Credentials struct {
	Key    string
	Secret string
}

// Headers holds the authentication values for a single request.
type Headers struct {
	Timestamp   string
	Key         string
	ContentHash string
	Signature   string
}

// Apply sets the authentication headers on h.
func (sh Headers) Apply(h http.Header) {
	h.Set(HeaderTimestamp, sh.Timestamp)
	h.Set(HeaderKey, sh.Key)
	h.Set(HeaderContentHash, sh.ContentHash)
	h.Set(HeaderSignature, sh.Signature)
}

// Nonce issues millisecond timestamps that never repeat or go backwards,
// even when called concurrently within the same millisecond.
type Nonce struct {
	last atomic.Int64
	now  func() time.Time
}

// NewNonce returns a Nonce backed by the wall clock.
func NewNonce() *Nonce {
	return &Nonce{now: time.Now}
}

// Next returns the current time in milliseconds, or one more than
// the previously issued value if the clock hasn't advanced past it.
func (n *Nonce) Next() int64 {
	for {
		last := n.last.Load()

		next := n.now().UnixMilli()
		if next <= last {
			next = last + 1
		}

		if n.last.CompareAndSwap(last, next) {
			return next
		}
	}
}

// Option configures a Signer.
type Option func(*Signer)

// WithNonce replaces the Signer's nonce source. Signers sharing
// credentials should share a Nonce.
func WithNonce(n *Nonce) Option {
	return func(s *Signer) {
		if n != nil {
			s.nonce = n
		}
	}
}

// Signer computes authentication headers for one set of credentials.
// It is safe for concurrent use.
type Signer struct {
	creds Credentials
	nonce *Nonce
}

// New returns a Signer for creds.
func New(creds Credentials, opts ...Option) *Signer {
	s := Signer{
		creds: creds,
		nonce: NewNonce(),
	}

	for _, opt := range opts {
		opt(&s)
	}

	return &s
}

// Sign builds the headers for a request to the full url with the given
// method and body. Empty credentials are signed as-is; the exchange
// rejects them on private endpoints.
func (s *Signer) Sign(method, url string, body []byte) Headers {
	contentHash := ContentHash(body)
	nonce := strconv.FormatInt(s.nonce.Next(), 10)

	return Headers{
		Timestamp:   nonce,
		Key:         s.creds.Key,
		ContentHash: contentHash,
		Signature:   Signature(s.creds.Secret, nonce, url, method, contentHash),
	}
}

// ContentHash returns the hex SHA-512 digest of body.
func ContentHash(body []byte) string {
	sum := sha512.Sum512(body)
	return hex.EncodeToString(sum[:])
}

// Signature returns the hex HMAC-SHA512, keyed by secret, of the
// canonical message nonce + url + METHOD + contentHash.
func Signature(secret, nonce, url, method, contentHash string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(nonce + url + strings.ToUpper(method) + contentHash))

	return hex.EncodeToString(mac.Sum(nil))
}

// Package auth provides shared-secret bearer verification.
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
)

var (
	// ErrUnauthenticated means no credentials were presented.
	ErrUnauthenticated = errors.New("auth: missing authorization header")
	// ErrForbidden means the credentials were presented but are wrong.
	ErrForbidden = errors.New("auth: invalid token")
)

// Verifier checks Authorization headers against a static token. A Verifier
// with an empty token accepts every request.
type Verifier struct {
	token []byte
}

func NewVerifier(token string) *Verifier {
	return &Verifier{token: []byte(token)}
}

// Enabled reports whether a token is configured.
func (v *Verifier) Enabled() bool { return v != nil && len(v.token) > 0 }

// Check validates the raw Authorization header value. The scheme must be
// "Bearer" (any case) followed by a single space and the token.
func (v *Verifier) Check(header string) error {
	if !v.Enabled() {
		return nil
	}
	if header == "" {
		return ErrUnauthenticated
	}
	scheme, token, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "bearer") {
		return ErrForbidden
	}
	if subtle.ConstantTimeCompare([]byte(token), v.token) != 1 {
		return ErrForbidden
	}
	return nil
}

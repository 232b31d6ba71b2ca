package middleware

import (
	"crypto/rsa"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated covers every handshake credential failure: missing,
// malformed, bad signature, expired. Callers answer all of them with the
// same UNAUTHENTICATED frame.
var ErrUnauthenticated = errors.New("auth token missing or invalid")

// IdentityClaims is what the auth service signs into its tokens.
type IdentityClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier validates handshake credentials against the auth
// service's RSA public key. It runs once per connection, before any
// command is read.
type TokenVerifier struct {
	publicKey *rsa.PublicKey
}

// NewTokenVerifier parses the PEM-encoded public key the auth service
// publishes.
func NewTokenVerifier(publicKeyPEM []byte) (*TokenVerifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, err
	}
	return &TokenVerifier{publicKey: key}, nil
}

// Verify checks the raw ?token= query value, formatted "Bearer <jwt>"
// and split on whitespace, and returns the decoded identity.
func (v *TokenVerifier) Verify(raw string) (*IdentityClaims, error) {
	fields := strings.Fields(raw)
	if len(fields) != 2 || fields[0] != "Bearer" {
		return nil, ErrUnauthenticated
	}

	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(fields[1], claims, func(t *jwt.Token) (any, error) {
		return v.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}
	if claims.ID == "" {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}

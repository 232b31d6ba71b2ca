package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/Rajat-Bansal3/Skill-Score/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKeyPair(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims *middleware.IdentityClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestNewTokenVerifier_RejectsGarbagePEM(t *testing.T) {
	_, err := middleware.NewTokenVerifier([]byte("not a pem"))
	assert.Error(t, err)
}

func TestTokenVerifier_Verify(t *testing.T) {
	key, pub := generateKeyPair(t)
	verifier, err := middleware.NewTokenVerifier(pub)
	require.NoError(t, err)

	token := signToken(t, key, &middleware.IdentityClaims{
		ID:    "user-1",
		Email: "user@example.com",
		Role:  "user",
	})

	claims, err := verifier.Verify("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.ID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestTokenVerifier_RejectsBadCredentials(t *testing.T) {
	key, pub := generateKeyPair(t)
	verifier, err := middleware.NewTokenVerifier(pub)
	require.NoError(t, err)

	otherKey, _ := generateKeyPair(t)
	forged := signToken(t, otherKey, &middleware.IdentityClaims{ID: "user-1"})
	expired := signToken(t, key, &middleware.IdentityClaims{
		ID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	noSubject := signToken(t, key, &middleware.IdentityClaims{})
	valid := signToken(t, key, &middleware.IdentityClaims{ID: "user-1"})

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"missing token after scheme", "Bearer"},
		{"wrong scheme", "Token " + valid},
		{"extra fields", "Bearer " + valid + " trailing"},
		{"not a jwt", "Bearer definitely.not.jwt"},
		{"forged signature", "Bearer " + forged},
		{"expired", "Bearer " + expired},
		{"no subject id", "Bearer " + noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := verifier.Verify(tt.raw)
			assert.ErrorIs(t, err, middleware.ErrUnauthenticated)
			assert.Nil(t, claims)
		})
	}
}

func TestTokenVerifier_RejectsWrongAlgorithm(t *testing.T) {
	_, pub := generateKeyPair(t)
	verifier, err := middleware.NewTokenVerifier(pub)
	require.NoError(t, err)

	// HMAC-signed token must fail even if the signature would check out
	// against some key: only RS256 is accepted.
	hmacToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &middleware.IdentityClaims{ID: "user-1"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	claims, err := verifier.Verify("Bearer " + hmacToken)
	assert.ErrorIs(t, err, middleware.ErrUnauthenticated)
	assert.Nil(t, claims)
}

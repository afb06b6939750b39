package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_RoundTrip(t *testing.T) {
	svc := New("secret", "leadengage", time.Hour)

	token, err := svc.GenerateToken("5b4a1a0e-9f36-4d7a-9a43-5b1f2c0d7e11", "ops@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "5b4a1a0e-9f36-4d7a-9a43-5b1f2c0d7e11", claims.Subject)
	assert.Equal(t, "ops@example.com", claims.Email)
}

func TestService_WrongSecret(t *testing.T) {
	token, err := New("one", "", time.Hour).GenerateToken("sub", "")
	require.NoError(t, err)

	_, err = New("two", "", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Expired(t *testing.T) {
	svc := New("secret", "", -time.Minute)
	token, err := svc.GenerateToken("sub", "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_WrongIssuer(t *testing.T) {
	token, err := New("secret", "someone-else", time.Hour).GenerateToken("sub", "")
	require.NoError(t, err)

	_, err = New("secret", "leadengage", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_MissingSubject(t *testing.T) {
	claims := Claims{RegisteredClaims: jwtlib.RegisteredClaims{
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = New("secret", "", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestService_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{RegisteredClaims: jwtlib.RegisteredClaims{
		Subject:   "sub",
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, claims).SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = New("secret", "", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

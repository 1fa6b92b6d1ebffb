package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestJWT_SessionToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret")
	u := uuid.New()

	session, err := j.GenerateSessionToken(u)
	require.NoError(t, err)
	require.NotEmpty(t, session)

	got, err := j.ParseSessionToken(session)
	require.NoError(t, err)
	require.Equal(t, u, got)
}

func TestJWT_WrongSecret(t *testing.T) {
	j := NewJWT("secret")
	other := NewJWT("other-secret")
	u := uuid.New()

	session, err := j.GenerateSessionToken(u)
	require.NoError(t, err)

	_, err = other.ParseSessionToken(session)
	require.Error(t, err)
}

func TestJWT_Expired(t *testing.T) {
	j := &JWT{secretKey: "secret"}
	u := uuid.New()

	now := time.Now().Add(-2 * SessionTTL)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
		UserID: u,
	})
	signed, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = j.ParseSessionToken(signed)
	require.Error(t, err)
}

func TestJWT_Malformed(t *testing.T) {
	j := NewJWT("secret")

	_, err := j.ParseSessionToken("not-a-token")
	require.Error(t, err)
}

func TestJWT_WrongSigningMethod(t *testing.T) {
	j := &JWT{secretKey: "secret"}
	u := uuid.New()

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
		},
		UserID: u,
	})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = j.ParseSessionToken(signed)
	require.Error(t, err)
}

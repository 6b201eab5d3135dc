package jwtx_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/usapupgrade/certs/pkg/jwtx"
)

func TestHS256RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret-jwt-token-with-at-least-32-characters")
	now := time.Date(2025, 7, 31, 12, 0, 0, 0, time.UTC)
	issuer := "https://example.supabase.co/auth/v1"
	userID := uuid.NewString()

	signer, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)
	require.Equal(t, "HS256", signer.Alg())

	verifier, err := jwtx.NewVerifierHS256(secret, jwtx.VerifyOptions{
		Issuer:   issuer,
		Audience: []string{jwtx.DefaultAudience},
		Leeway:   jwtx.DefaultLeeway,
		Now:      func() time.Time { return now },
	})
	require.NoError(t, err)

	sign := func(c jwtx.Claims) string {
		tok, err := signer.Sign(c)
		require.NoError(t, err)
		return tok
	}

	t.Run("valid session", func(t *testing.T) {
		claims, err := verifier.Verify(sign(jwtx.NewSessionClaims(userID, "maria@example.com", issuer, time.Hour, now)))
		require.NoError(t, err)
		require.Equal(t, userID, claims.Subject)
		require.Equal(t, "maria@example.com", claims.Email)
		require.Equal(t, "authenticated", claims.Role)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := jwtx.NewSignerHS256([]byte("another-secret-entirely-not-the-same-one"))
		require.NoError(t, err)
		tok, err := other.Sign(jwtx.NewSessionClaims(userID, "", issuer, time.Hour, now))
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := verifier.Verify(sign(jwtx.NewSessionClaims(userID, "", issuer, time.Hour, now.Add(-2*time.Hour))))
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := verifier.Verify(sign(jwtx.NewSessionClaims(userID, "", "https://evil", time.Hour, now)))
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("anon audience", func(t *testing.T) {
		c := jwtx.NewSessionClaims(userID, "", issuer, time.Hour, now)
		c.Audience = []string{"anon"}
		_, err := verifier.Verify(sign(c))
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})

	t.Run("subject must be a uuid", func(t *testing.T) {
		_, err := verifier.Verify(sign(jwtx.NewSessionClaims("service", "", issuer, time.Hour, now)))
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("empty secret rejected", func(t *testing.T) {
		_, err := jwtx.NewVerifierHS256(nil, jwtx.VerifyOptions{})
		require.Error(t, err)
		_, err = jwtx.NewSignerHS256(nil)
		require.Error(t, err)
	})
}

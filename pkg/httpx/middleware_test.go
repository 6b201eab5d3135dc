package httpx_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/usapupgrade/certs/pkg/httpx"
	"github.com/usapupgrade/certs/pkg/jwtx"
)

type stubVerifier struct {
	claims jwtx.Claims
	err    error
}

func (s stubVerifier) Verify(string) (jwtx.Claims, error) { return s.claims, s.err }

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	serve(httpx.Chain(okHandler, tag("outer"), tag("inner")), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	claims := jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "9b2f3c1e-3f7a-4c8e-9d1b-2a6f4e8c0d11"},
		Role:             "authenticated",
	}

	var seen string
	protected := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	withBearer := func(tok string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/v1/certificates/me", nil)
		if tok != "" {
			req.Header.Set("Authorization", tok)
		}
		return req
	}

	t.Run("missing header", func(t *testing.T) {
		rec := serve(httpx.AuthnMiddleware(stubVerifier{claims: claims})(protected), withBearer(""))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.True(t, strings.HasPrefix(rec.Header().Get("WWW-Authenticate"), "Bearer"))
		require.Contains(t, rec.Body.String(), "invalid_token")
	})

	t.Run("rejected token", func(t *testing.T) {
		rec := serve(httpx.AuthnMiddleware(stubVerifier{err: errors.New("nope")})(protected), withBearer("Bearer abc"))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token exposes user id", func(t *testing.T) {
		rec := serve(httpx.AuthnMiddleware(stubVerifier{claims: claims})(protected), withBearer("Bearer abc"))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, claims.Subject, seen)
	})

	t.Run("role gate", func(t *testing.T) {
		anon := claims
		anon.Role = "anon"

		h := httpx.Chain(protected, httpx.AuthnMiddleware(stubVerifier{claims: anon}), httpx.RequireRole("authenticated"))
		require.Equal(t, http.StatusForbidden, serve(h, withBearer("Bearer abc")).Code)

		h = httpx.Chain(protected, httpx.AuthnMiddleware(stubVerifier{claims: claims}), httpx.RequireRole("authenticated"))
		require.Equal(t, http.StatusNoContent, serve(h, withBearer("Bearer abc")).Code)
	})
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	decode := func(raw string) error {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
		var b body
		return httpx.DecodeJSON(httptest.NewRecorder(), req, &b)
	}

	require.NoError(t, decode(`{"name":"Juan"}`))
	require.Error(t, decode(`{"name":"Juan","extra":1}`))
	require.Error(t, decode(`{"name":"Juan"}{"name":"Again"}`))
	require.Error(t, decode(`not json`))
}

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	token jwt.Token
	err   error
}

func (v *stubVerifier) Verify(context.Context, string) (jwt.Token, error) {
	return v.token, v.err
}

func tokenWithSubject(t *testing.T, sub string) jwt.Token {
	t.Helper()
	tok := jwt.New()
	require.NoError(t, tok.Set(jwt.SubjectKey, sub))
	return tok
}

func TestMiddleware(t *testing.T) {
	okHandler := func(gotUserID *string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*gotUserID = ContextUserID(r.Context())
			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("Success - valid token passes with user ID in context", func(t *testing.T) {
		var gotUserID string
		mw := Middleware(&stubVerifier{token: tokenWithSubject(t, "user-1")})

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rr := httptest.NewRecorder()
		mw(okHandler(&gotUserID)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user-1", gotUserID)
	})

	t.Run("Fail - missing header", func(t *testing.T) {
		var gotUserID string
		mw := Middleware(&stubVerifier{token: tokenWithSubject(t, "user-1")})

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rr := httptest.NewRecorder()
		mw(okHandler(&gotUserID)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Fail - header without Bearer prefix", func(t *testing.T) {
		var gotUserID string
		mw := Middleware(&stubVerifier{token: tokenWithSubject(t, "user-1")})

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rr := httptest.NewRecorder()
		mw(okHandler(&gotUserID)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Fail - verifier rejects the token", func(t *testing.T) {
		var gotUserID string
		mw := Middleware(&stubVerifier{err: errors.New("expired")})

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer stale-token")
		rr := httptest.NewRecorder()
		mw(okHandler(&gotUserID)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, gotUserID)
	})

	t.Run("Fail - token without sub claim", func(t *testing.T) {
		var gotUserID string
		mw := Middleware(&stubVerifier{token: jwt.New()})

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rr := httptest.NewRecorder()
		mw(okHandler(&gotUserID)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestContextUserID(t *testing.T) {
	assert.Empty(t, ContextUserID(context.Background()))

	ctx := context.WithValue(context.Background(), UserIDContextKey, "user-9")
	assert.Equal(t, "user-9", ContextUserID(ctx))
}

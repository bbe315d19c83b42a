package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJWTMiddleware(t *testing.T) {
	var gotSubject any
	h := JWTMiddleware("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = r.Context().Value(SubjectKey)
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(auth string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/ingest", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	valid := sign(t, "s3cret", jwt.MapClaims{"sub": "ops", "exp": time.Now().Add(time.Hour).Unix()})
	assert.Equal(t, http.StatusNoContent, call("Bearer "+valid))
	assert.Equal(t, "ops", gotSubject)

	assert.Equal(t, http.StatusUnauthorized, call(""))
	assert.Equal(t, http.StatusUnauthorized, call("Basic abc"))
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+sign(t, "other", jwt.MapClaims{"sub": "ops"})))

	expired := sign(t, "s3cret", jwt.MapClaims{"sub": "ops", "exp": time.Now().Add(-time.Hour).Unix()})
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+expired))
}

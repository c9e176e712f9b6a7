package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pizzangooo/loyalty/internal/auth"
)

func TestLoginVerify(t *testing.T) {
	a := auth.New("060821", []byte("test-secret"), time.Hour)

	token, err := a.Login("060821")
	require.NoError(t, err)
	assert.NoError(t, a.Verify(token))

	_, err = a.Login("123456")
	assert.ErrorIs(t, err, auth.ErrBadPasscode)

	assert.ErrorIs(t, a.Verify("not-a-token"), auth.ErrInvalidToken)
}

func TestVerify_ExpiredToken(t *testing.T) {
	a := auth.New("060821", []byte("test-secret"), -time.Minute)

	token, err := a.Login("060821")
	require.NoError(t, err)
	assert.ErrorIs(t, a.Verify(token), auth.ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := auth.New("060821", []byte("secret-a"), time.Hour)
	verifier := auth.New("060821", []byte("secret-b"), time.Hour)

	token, err := issuer.Login("060821")
	require.NoError(t, err)
	assert.ErrorIs(t, verifier.Verify(token), auth.ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	a := auth.New("060821", []byte("test-secret"), time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	handler := a.Middleware(next)

	t.Run("NoToken", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("BadToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ValidToken", func(t *testing.T) {
		token, err := a.Login("060821")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValidator struct {
	userID uuid.UUID
	err    error
	tokens []string
}

type fakeClaims struct{ id uuid.UUID }

func (c *fakeClaims) GetUserID() uuid.UUID { return c.id }

func (v *fakeValidator) ValidateToken(token string) (UserIDGetter, error) {
	v.tokens = append(v.tokens, token)
	if v.err != nil {
		return nil, v.err
	}
	return &fakeClaims{id: v.userID}, nil
}

func TestAuth(t *testing.T) {
	userID := uuid.New()

	newHandler := func(v TokenValidator) (http.Handler, *uuid.UUID) {
		var got uuid.UUID
		h := Auth(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := GetUserID(r)
			require.NoError(t, err)
			got = id
			w.WriteHeader(http.StatusOK)
		}))
		return h, &got
	}

	t.Run("valid token passes user id through", func(t *testing.T) {
		v := &fakeValidator{userID: userID}
		h, got := newHandler(v)

		req := httptest.NewRequest("GET", "/api/users/me", nil)
		req.Header.Set("Authorization", "Bearer tok123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, *got)
		assert.Equal(t, []string{"tok123"}, v.tokens)
	})

	t.Run("missing header", func(t *testing.T) {
		h, _ := newHandler(&fakeValidator{userID: userID})
		req := httptest.NewRequest("GET", "/api/users/me", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		for _, header := range []string{"tok123", "Basic tok123", "Bearer", "Bearer a b"} {
			h, _ := newHandler(&fakeValidator{userID: userID})
			req := httptest.NewRequest("GET", "/api/users/me", nil)
			req.Header.Set("Authorization", header)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		}
	})

	t.Run("case-insensitive bearer prefix", func(t *testing.T) {
		h, got := newHandler(&fakeValidator{userID: userID})
		req := httptest.NewRequest("GET", "/api/users/me", nil)
		req.Header.Set("Authorization", "bearer tok123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, *got)
	})

	t.Run("invalid token", func(t *testing.T) {
		h, _ := newHandler(&fakeValidator{err: errors.New("expired")})
		req := httptest.NewRequest("GET", "/api/users/me", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetUserIDWithoutAuth(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, err := GetUserID(req)
	assert.Error(t, err)
}

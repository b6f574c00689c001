package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artdeck/artdeck-go/internal/apperror"
)

func TestService_IssueAndVerify(t *testing.T) {
	svc := NewService("test-secret")

	token, err := svc.IssueToken("user_42")
	require.NoError(t, err)

	userID, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user_42", userID)
}

func TestService_Verify_SubjectFallback(t *testing.T) {
	secret := []byte("test-secret")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user_7",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)

	userID, err := NewService("test-secret").Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user_7", userID)
}

func TestService_Verify_Rejects(t *testing.T) {
	svc := NewService("test-secret")
	other, err := NewService("other-secret").IssueToken("user_1")
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "user_1",
		"exp":    time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":         "",
		"garbage":       "not-a-jwt",
		"wrong secret":  other,
		"expired":       expired,
		"missing claim": noSubject,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(context.Background(), token)
			assert.ErrorIs(t, err, apperror.ErrAuthentication)
		})
	}
}

func TestService_Verify_CancelledContext(t *testing.T) {
	svc := NewService("test-secret")
	token, err := svc.IssueToken("user_1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, apperror.ErrAuthentication)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws?token=abc", nil)
	r.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "abc", TokenFromRequest(r), "query parameter wins")

	r = httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Authorization", "bearer header-token")
	assert.Equal(t, "header-token", TokenFromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Authorization", "Basic dXNlcg==")
	assert.Empty(t, TokenFromRequest(r))
}

func TestMiddleware(t *testing.T) {
	svc := NewService("test-secret")
	token, err := svc.IssueToken("user_9")
	require.NoError(t, err)

	var seen string
	h := Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/1/events", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/1/events?token=bad", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/rooms/1/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "user_9", seen)
}

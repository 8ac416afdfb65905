package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpetrenko/todo-service/internal/token"
)

func newTestGate(t *testing.T) (*token.Manager, func(http.Handler) http.Handler) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	tokens := token.NewManager("test-secret", time.Hour, log)
	return tokens, AuthMiddleware(tokens, log)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	_, gate := newTestGate(t)
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/api/todos", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"No token provided"}`, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	_, gate := newTestGate(t)
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	for _, header := range []string{"Basic abc", "Bearer", "bearer abc", "token"} {
		req := httptest.NewRequest("GET", "/api/todos", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	_, gate := newTestGate(t)
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, w.Body.String())
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	expired := token.NewManager("test-secret", -time.Minute, log)
	tokenString, err := expired.Issue(7)
	require.NoError(t, err)

	_, gate := newTestGate(t)
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	tokens, gate := newTestGate(t)
	tokenString, err := tokens.Issue(7)
	require.NoError(t, err)

	var gotUserID int64
	var gotOK bool
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, gotOK = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, gotOK)
	assert.Equal(t, int64(7), gotUserID)
}

func TestUserIDFromContextAbsent(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, ok := UserIDFromContext(req.Context())
	assert.False(t, ok)
}

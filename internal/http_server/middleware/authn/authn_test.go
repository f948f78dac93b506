package authn

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop_service/internal/lib/jwt"
	"shop_service/internal/models"
)

const testSecret = "test-secret"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func protected(t *testing.T, gotIdentity *Identity) http.Handler {
	t.Helper()

	mw := New(testLogger(), testSecret)

	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := FromContext(r.Context())
		require.True(t, ok)

		if gotIdentity != nil {
			*gotIdentity = identity
		}

		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthn_ValidToken(t *testing.T) {
	t.Parallel()

	user := models.User{ID: uuid.New(), Email: "user@example.com"}

	token, err := jwt.NewToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	var identity Identity
	handler := protected(t, &identity)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, user.Email, identity.Email)
}

// Every rejection reason must produce the same status and body so a caller
// cannot tell which check failed.
func TestAuthn_RejectionsLookIdentical(t *testing.T) {
	t.Parallel()

	user := models.User{ID: uuid.New(), Email: "user@example.com"}

	expired, err := jwt.NewToken(user, testSecret, -time.Minute)
	require.NoError(t, err)

	foreign, err := jwt.NewToken(user, "another-secret", time.Hour)
	require.NoError(t, err)

	valid, err := jwt.NewToken(user, testSecret, time.Hour)
	require.NoError(t, err)
	tampered := valid[:len(valid)-10] + "XXXXXXXXXX"

	cases := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "no token after scheme", header: "Bearer"},
		{name: "malformed token", header: "Bearer not.a.jwt"},
		{name: "expired token", header: "Bearer " + expired},
		{name: "wrong signature", header: "Bearer " + foreign},
		{name: "tampered token", header: "Bearer " + tampered},
	}

	handler := protected(t, nil)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/orders", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Error", body["status"])
			assert.Equal(t, "unauthorized", body["error"])
		})
	}
}

func TestAuthn_TokenValidWithinHorizon(t *testing.T) {
	t.Parallel()

	user := models.User{ID: uuid.New(), Email: "user@example.com"}

	// expires in 2s: valid now, expired after the horizon passes
	token, err := jwt.NewToken(user, testSecret, 2*time.Second)
	require.NoError(t, err)

	handler := protected(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	time.Sleep(3 * time.Second)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

package remove

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop_service/internal/auth"
	"shop_service/internal/http_server/middleware/authn"
	"shop_service/internal/lib/jwt"
	"shop_service/internal/models"
	"shop_service/internal/storage"
)

const testSecret = "test-secret"

type stubDeleter struct {
	err error

	gotRequester uuid.UUID
	gotTarget    uuid.UUID
}

func (s *stubDeleter) DeleteAccount(_ context.Context, requesterID, targetID uuid.UUID) error {
	s.gotRequester = requesterID
	s.gotTarget = targetID
	return s.err
}

// newRouter mounts the handler behind the real authn middleware, the way
// main wires it.
func newRouter(deleter *stubDeleter) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	r.With(authn.New(log, testSecret)).Delete("/user/{userId}", New(log, deleter, 5*time.Second))

	return r
}

func doRequest(t *testing.T, handler http.Handler, target string, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodDelete, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func mintToken(t *testing.T, id uuid.UUID) string {
	t.Helper()

	token, err := jwt.NewToken(models.User{ID: id, Email: "user@example.com"}, testSecret, time.Hour)
	require.NoError(t, err)

	return token
}

func TestRemove_Owner(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deleter := &stubDeleter{}

	rec := doRequest(t, newRouter(deleter), "/user/"+userID.String(), mintToken(t, userID))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, deleter.gotRequester)
	assert.Equal(t, userID, deleter.gotTarget)
}

func TestRemove_NonOwnerForbidden(t *testing.T) {
	t.Parallel()

	deleter := &stubDeleter{err: auth.ErrNotOwner}

	rec := doRequest(t, newRouter(deleter), "/user/"+uuid.NewString(), mintToken(t, uuid.New()))

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRemove_TargetAbsent(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deleter := &stubDeleter{err: storage.ErrUserNotFound}

	rec := doRequest(t, newRouter(deleter), "/user/"+userID.String(), mintToken(t, userID))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemove_NoToken(t *testing.T) {
	t.Parallel()

	deleter := &stubDeleter{}

	rec := doRequest(t, newRouter(deleter), "/user/"+uuid.NewString(), "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, uuid.Nil, deleter.gotTarget)
}

func TestRemove_InvalidUserID(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	rec := doRequest(t, newRouter(&stubDeleter{}), "/user/not-a-uuid", mintToken(t, userID))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

package create

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop_service/internal/http_server/middleware/authn"
	"shop_service/internal/lib/jwt"
	"shop_service/internal/models"
	"shop_service/internal/storage"
)

const testSecret = "test-secret"

type stubCreator struct {
	id  uuid.UUID
	err error

	gotProductID uuid.UUID
	gotUserID    uuid.UUID
	gotEmail     string
	gotQuantity  int
}

func (s *stubCreator) Create(_ context.Context, productID, userID uuid.UUID, userEmail string, quantity int) (uuid.UUID, error) {
	s.gotProductID = productID
	s.gotUserID = userID
	s.gotEmail = userEmail
	s.gotQuantity = quantity

	if s.err != nil {
		return uuid.Nil, s.err
	}
	return s.id, nil
}

func newRouter(creator *stubCreator) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	r.With(authn.New(log, testSecret)).Post("/orders", New(log, validator.New(), creator, 5*time.Second))

	return r
}

func doRequest(t *testing.T, handler http.Handler, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func mintToken(t *testing.T, user models.User) string {
	t.Helper()

	token, err := jwt.NewToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	return token
}

func TestCreate_Success(t *testing.T) {
	t.Parallel()

	user := models.User{ID: uuid.New(), Email: "buyer@example.com"}
	productID := uuid.New()
	creator := &stubCreator{id: uuid.New()}

	body := `{"product_id":"` + productID.String() + `","quantity":2}`
	rec := doRequest(t, newRouter(creator), body, mintToken(t, user))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, productID, creator.gotProductID)
	assert.Equal(t, user.ID, creator.gotUserID)
	assert.Equal(t, "buyer@example.com", creator.gotEmail)
	assert.Equal(t, 2, creator.gotQuantity)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, creator.id.String(), resp.OrderID)
}

func TestCreate_QuantityDefaultsToOne(t *testing.T) {
	t.Parallel()

	user := models.User{ID: uuid.New(), Email: "buyer@example.com"}
	creator := &stubCreator{id: uuid.New()}

	body := `{"product_id":"` + uuid.NewString() + `"}`
	rec := doRequest(t, newRouter(creator), body, mintToken(t, user))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, creator.gotQuantity)
}

func TestCreate_UnknownProduct(t *testing.T) {
	t.Parallel()

	user := models.User{ID: uuid.New(), Email: "buyer@example.com"}
	creator := &stubCreator{err: storage.ErrProductNotFound}

	body := `{"product_id":"` + uuid.NewString() + `"}`
	rec := doRequest(t, newRouter(creator), body, mintToken(t, user))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreate_InvalidBody(t *testing.T) {
	t.Parallel()

	user := models.User{ID: uuid.New(), Email: "buyer@example.com"}
	token := mintToken(t, user)

	for _, body := range []string{
		"not-json",
		`{}`,
		`{"product_id":"not-a-uuid"}`,
		`{"product_id":"` + uuid.NewString() + `","quantity":-1}`,
	} {
		rec := doRequest(t, newRouter(&stubCreator{id: uuid.New()}), body, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestCreate_NoToken(t *testing.T) {
	t.Parallel()

	body := `{"product_id":"` + uuid.NewString() + `"}`
	rec := doRequest(t, newRouter(&stubCreator{}), body, "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

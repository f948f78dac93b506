package orders

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop_service/internal/models"
	"shop_service/internal/storage"
)

type fakeOrderRepo struct {
	orders map[uuid.UUID]models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]models.Order)}
}

func (r *fakeOrderRepo) SaveOrder(_ context.Context, productID, userID uuid.UUID, quantity int) (uuid.UUID, error) {
	id := uuid.New()
	r.orders[id] = models.Order{
		ID:        id,
		ProductID: productID,
		UserID:    userID,
		Quantity:  quantity,
		CreatedAt: time.Now().UTC(),
	}
	return id, nil
}

func (r *fakeOrderRepo) Order(_ context.Context, id uuid.UUID) (models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return models.Order{}, storage.ErrOrderNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) Orders(_ context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOrderRepo) DeleteOrder(_ context.Context, id uuid.UUID) error {
	if _, ok := r.orders[id]; !ok {
		return storage.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

type fakeProductProvider struct {
	products map[uuid.UUID]models.Product
}

func (p *fakeProductProvider) Product(_ context.Context, id uuid.UUID) (models.Product, error) {
	product, ok := p.products[id]
	if !ok {
		return models.Product{}, storage.ErrProductNotFound
	}
	return product, nil
}

type fakePublisher struct {
	events []models.OrderEvent
	err    error
}

func (p *fakePublisher) PublishOrderEvent(_ context.Context, event models.OrderEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func newTestOrders(t *testing.T) (*Orders, *fakeOrderRepo, *fakeProductProvider, *fakePublisher) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newFakeOrderRepo()
	products := &fakeProductProvider{products: make(map[uuid.UUID]models.Product)}
	publisher := &fakePublisher{}

	return New(log, repo, repo, products, publisher), repo, products, publisher
}

func TestCreate_PublishesEvent(t *testing.T) {
	t.Parallel()

	svc, repo, products, publisher := newTestOrders(t)
	ctx := context.Background()

	productID := uuid.New()
	products.products[productID] = models.Product{ID: productID, Name: "coffee beans", Price: 12.5}

	userID := uuid.New()

	orderID, err := svc.Create(ctx, productID, userID, "user@example.com", 3)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, orderID)

	order, err := repo.Order(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, 3, order.Quantity)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, orderID.String(), event.OrderID)
	assert.Equal(t, "user@example.com", event.Email)
	assert.Equal(t, "coffee beans", event.Product)
	assert.Equal(t, 3, event.Quantity)
}

func TestCreate_UnknownProduct(t *testing.T) {
	t.Parallel()

	svc, repo, _, publisher := newTestOrders(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), uuid.New(), "user@example.com", 1)
	require.ErrorIs(t, err, storage.ErrProductNotFound)

	assert.Empty(t, repo.orders)
	assert.Empty(t, publisher.events)
}

func TestCreate_PublishFailureDoesNotFailOrder(t *testing.T) {
	t.Parallel()

	svc, repo, products, publisher := newTestOrders(t)
	ctx := context.Background()

	productID := uuid.New()
	products.products[productID] = models.Product{ID: productID, Name: "tea"}
	publisher.err = errors.New("broker unavailable")

	orderID, err := svc.Create(ctx, productID, uuid.New(), "user@example.com", 1)
	require.NoError(t, err)

	_, err = repo.Order(ctx, orderID)
	require.NoError(t, err)
}

func TestGetListDelete(t *testing.T) {
	t.Parallel()

	svc, _, products, _ := newTestOrders(t)
	ctx := context.Background()

	productID := uuid.New()
	products.products[productID] = models.Product{ID: productID, Name: "mug"}

	orderID, err := svc.Create(ctx, productID, uuid.New(), "user@example.com", 2)
	require.NoError(t, err)

	order, err := svc.Get(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, productID, order.ProductID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.Delete(ctx, orderID))

	_, err = svc.Get(ctx, orderID)
	require.ErrorIs(t, err, storage.ErrOrderNotFound)

	err = svc.Delete(ctx, orderID)
	require.ErrorIs(t, err, storage.ErrOrderNotFound)
}

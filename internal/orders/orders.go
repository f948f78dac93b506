package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	sl "shop_service/internal/lib/logger"
	"shop_service/internal/models"
	"shop_service/internal/storage"
)

type Orders struct {
	log         *slog.Logger
	saver       OrderSaver
	provider    OrderProvider
	prodProvide ProductProvider
	publisher   EventPublisher
}

type OrderSaver interface {
	SaveOrder(ctx context.Context, productID, userID uuid.UUID, quantity int) (uuid.UUID, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type OrderProvider interface {
	Order(ctx context.Context, id uuid.UUID) (models.Order, error)
	Orders(ctx context.Context) ([]models.Order, error)
}

type ProductProvider interface {
	Product(ctx context.Context, id uuid.UUID) (models.Product, error)
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent) error
}

func New(
	log *slog.Logger,
	saver OrderSaver,
	provider OrderProvider,
	prodProvide ProductProvider,
	publisher EventPublisher,
) *Orders {
	return &Orders{
		log:         log,
		saver:       saver,
		provider:    provider,
		prodProvide: prodProvide,
		publisher:   publisher,
	}
}

// Create stores an order for an existing product and publishes an
// order-created event. Publishing is single-attempt: a broker failure is
// logged and the order still succeeds.
func (o *Orders) Create(ctx context.Context, productID, userID uuid.UUID, userEmail string, quantity int) (uuid.UUID, error) {
	const op = "orders.Create"

	log := o.log.With(slog.String("op", op))

	product, err := o.prodProvide.Product(ctx, productID)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			log.Warn("product not found", slog.String("product_id", productID.String()))
			return uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}

		log.Error("failed to get product", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := o.saver.SaveOrder(ctx, productID, userID, quantity)
	if err != nil {
		log.Error("failed to save order", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	event := models.OrderEvent{
		OrderID:   id.String(),
		Email:     userEmail,
		Product:   product.Name,
		Quantity:  quantity,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := o.publisher.PublishOrderEvent(ctx, event); err != nil {
		log.Error("failed to publish order event", sl.Err(err))
	}

	log.Info("order created", slog.String("id", id.String()))

	return id, nil
}

func (o *Orders) Get(ctx context.Context, id uuid.UUID) (models.Order, error) {
	const op = "orders.Get"

	order, err := o.provider.Order(ctx, id)
	if err != nil {
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	return order, nil
}

func (o *Orders) List(ctx context.Context) ([]models.Order, error) {
	const op = "orders.List"

	orders, err := o.provider.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}

func (o *Orders) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "orders.Delete"

	log := o.log.With(slog.String("op", op))

	if err := o.saver.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			log.Warn("order not found", slog.String("id", id.String()))
			return fmt.Errorf("%s: %w", op, err)
		}

		log.Error("failed to delete order", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("order deleted", slog.String("id", id.String()))

	return nil
}

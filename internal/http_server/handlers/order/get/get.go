package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	resp "shop_service/internal/lib/api/response"
	sl "shop_service/internal/lib/logger"
	"shop_service/internal/models"
	"shop_service/internal/storage"
)

type Response struct {
	resp.Response
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	Quantity  int    `json:"quantity"`
	CreatedAt string `json:"created_at"`
}

type OrderGetter interface {
	Get(ctx context.Context, id uuid.UUID) (models.Order, error)
}

func New(
	log *slog.Logger,
	getter OrderGetter,
	timeout time.Duration,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.order.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			log.Warn("invalid order id", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid order id"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		order, err := getter.Get(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrOrderNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("order not found"))

				return
			}

			log.Error("failed to get order", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		render.JSON(w, r, Response{
			Response:  resp.OK(),
			ID:        order.ID.String(),
			ProductID: order.ProductID.String(),
			UserID:    order.UserID.String(),
			Quantity:  order.Quantity,
			CreatedAt: order.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
}

package list

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	resp "shop_service/internal/lib/api/response"
	sl "shop_service/internal/lib/logger"
	"shop_service/internal/models"
)

type Order struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	Quantity  int    `json:"quantity"`
	CreatedAt string `json:"created_at"`
}

type Response struct {
	resp.Response
	Count  int     `json:"count"`
	Orders []Order `json:"orders"`
}

type OrderLister interface {
	List(ctx context.Context) ([]models.Order, error)
}

func New(
	log *slog.Logger,
	lister OrderLister,
	timeout time.Duration,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.order.list.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		orders, err := lister.List(ctx)
		if err != nil {
			log.Error("failed to list orders", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		items := make([]Order, 0, len(orders))
		for _, o := range orders {
			items = append(items, Order{
				ID:        o.ID.String(),
				ProductID: o.ProductID.String(),
				UserID:    o.UserID.String(),
				Quantity:  o.Quantity,
				CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
			})
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Count:    len(items),
			Orders:   items,
		})
	}
}

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
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
}

type ProductGetter interface {
	Get(ctx context.Context, id uuid.UUID) (models.Product, error)
}

func New(
	log *slog.Logger,
	getter ProductGetter,
	timeout time.Duration,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.product.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			log.Warn("invalid product id", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid product id"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		product, err := getter.Get(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("product not found"))

				return
			}

			log.Error("failed to get product", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			ID:       product.ID.String(),
			Name:     product.Name,
			Price:    product.Price,
			ImageURL: product.ImageURL,
		})
	}
}

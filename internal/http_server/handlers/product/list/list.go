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

type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
}

type Response struct {
	resp.Response
	Count    int       `json:"count"`
	Products []Product `json:"products"`
}

type ProductLister interface {
	List(ctx context.Context) ([]models.Product, error)
}

func New(
	log *slog.Logger,
	lister ProductLister,
	timeout time.Duration,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.product.list.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		products, err := lister.List(ctx)
		if err != nil {
			log.Error("failed to list products", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		items := make([]Product, 0, len(products))
		for _, p := range products {
			items = append(items, Product{
				ID:       p.ID.String(),
				Name:     p.Name,
				Price:    p.Price,
				ImageURL: p.ImageURL,
			})
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Count:    len(items),
			Products: items,
		})
	}
}

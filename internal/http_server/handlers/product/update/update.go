package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	resp "shop_service/internal/lib/api/response"
	sl "shop_service/internal/lib/logger"
	"shop_service/internal/models"
	"shop_service/internal/storage"
)

// Request is a typed partial update: absent fields stay untouched.
type Request struct {
	Name     *string  `json:"name" validate:"omitempty,min=1"`
	Price    *float64 `json:"price" validate:"omitempty,gt=0"`
	ImageURL *string  `json:"image_url" validate:"omitempty,url"`
}

type Response struct {
	resp.Response
}

type ProductUpdater interface {
	Update(ctx context.Context, id uuid.UUID, patch models.ProductPatch) error
}

func New(
	log *slog.Logger,
	validate *validator.Validate,
	updater ProductUpdater,
	timeout time.Duration,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.product.update.New"

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

		var req Request

		err = render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		if req.Name == nil && req.Price == nil && req.ImageURL == nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("no fields to update"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		patch := models.ProductPatch{
			Name:     req.Name,
			Price:    req.Price,
			ImageURL: req.ImageURL,
		}

		if err := updater.Update(ctx, id, patch); err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("product not found"))

				return
			}

			log.Error("failed to update product", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		log.Info("product updated", slog.String("product_id", id.String()))

		render.JSON(w, r, Response{Response: resp.OK()})
	}
}

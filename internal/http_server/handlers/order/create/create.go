package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"shop_service/internal/http_server/middleware/authn"
	resp "shop_service/internal/lib/api/response"
	sl "shop_service/internal/lib/logger"
	"shop_service/internal/storage"
)

type Request struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1"`
}

type Response struct {
	resp.Response
	OrderID string `json:"order_id"`
}

type OrderCreator interface {
	Create(ctx context.Context, productID, userID uuid.UUID, userEmail string, quantity int) (uuid.UUID, error)
}

func New(
	log *slog.Logger,
	validate *validator.Validate,
	creator OrderCreator,
	timeout time.Duration,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.order.create.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		identity, ok := authn.FromContext(r.Context())
		if !ok {
			log.Error("no identity in context")

			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("unauthorized"))

			return
		}

		var req Request

		err := render.DecodeJSON(r.Body, &req)
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

		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid product id"))

			return
		}

		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		orderID, err := creator.Create(ctx, productID, identity.ID, identity.Email, quantity)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("product not found"))

				return
			}

			log.Error("failed to create order", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		log.Info("order created", slog.String("order_id", orderID.String()))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: resp.OK(),
			OrderID:  orderID.String(),
		})
	}
}

package remove

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
	"shop_service/internal/storage"
)

type Response struct {
	resp.Response
}

type OrderDeleter interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

func New(
	log *slog.Logger,
	deleter OrderDeleter,
	timeout time.Duration,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.order.remove.New"

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

		if err := deleter.Delete(ctx, id); err != nil {
			if errors.Is(err, storage.ErrOrderNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("order not found"))

				return
			}

			log.Error("failed to delete order", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		log.Info("order deleted", slog.String("order_id", id.String()))

		render.JSON(w, r, Response{Response: resp.OK()})
	}
}

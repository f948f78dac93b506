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

	"shop_service/internal/auth"
	"shop_service/internal/http_server/middleware/authn"
	resp "shop_service/internal/lib/api/response"
	sl "shop_service/internal/lib/logger"
	"shop_service/internal/storage"
)

type Response struct {
	resp.Response
}

type AccountDeleter interface {
	DeleteAccount(ctx context.Context, requesterID, targetID uuid.UUID) error
}

func New(
	log *slog.Logger,
	deleter AccountDeleter,
	timeout time.Duration,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.remove.New"

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

		targetID, err := uuid.Parse(chi.URLParam(r, "userId"))
		if err != nil {
			log.Warn("invalid user id", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid user id"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		err = deleter.DeleteAccount(ctx, identity.ID, targetID)
		if err != nil {
			if errors.Is(err, auth.ErrNotOwner) {
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, resp.Error("forbidden"))

				return
			}
			if errors.Is(err, storage.ErrUserNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("user not found"))

				return
			}

			log.Error("failed to delete account", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		log.Info("account deleted", slog.String("user_id", targetID.String()))

		render.JSON(w, r, Response{Response: resp.OK()})
	}
}

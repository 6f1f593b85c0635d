package admin

import (
	apierr "acadeemia/internal/http-server/handlers/errors"
	"acadeemia/internal/lib/api/response"
	"acadeemia/internal/lib/sl"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

func ListSubscriptions(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if handler == nil {
			logger.Error("admin service not available")
			render.JSON(w, r, response.Error("admin service not available"))
			return
		}

		subs, err := handler.ListSubscriptions(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			logger.Error("failed to list subscriptions", sl.Err(err))
			render.Status(r, apierr.StatusCode(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to list subscriptions: %v", err)))
			return
		}

		logger.Debug("subscriptions listed", slog.Int("count", len(subs)))
		render.JSON(w, r, response.Ok(subs))
	}
}

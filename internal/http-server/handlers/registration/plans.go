package registration

import (
	"acadeemia/internal/lib/api/response"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

func Plans(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if handler == nil {
			requestLogger(log, r).Error("registration service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("registration service not available"))
			return
		}
		render.JSON(w, r, response.Ok(handler.Plans()))
	}
}

package registration

import (
	"acadeemia/internal/lib/api/response"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if handler == nil {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("registration service not available"))
			return
		}

		session, err := handler.GetRegistration(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, r, logger, err, nil)
			return
		}
		render.JSON(w, r, response.Ok(session))
	}
}

func Close(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if handler == nil {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("registration service not available"))
			return
		}

		if err := handler.CloseRegistration(r.Context(), chi.URLParam(r, "id")); err != nil {
			fail(w, r, logger, err, nil)
			return
		}
		render.JSON(w, r, response.Ok("closed"))
	}
}

package registration

import (
	"acadeemia/internal/lib/api/response"
	"acadeemia/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type StartRequest struct {
	Plan string `json:"plan"`
}

func Start(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if handler == nil {
			logger.Error("registration service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("registration service not available"))
			return
		}

		var req StartRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			logger.Warn("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		session, err := handler.StartRegistration(r.Context(), req.Plan)
		if err != nil {
			fail(w, r, logger, err, nil)
			return
		}

		logger.Debug("registration session opened", slog.String("session_id", session.ID))
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(session))
	}
}

package key

import (
	"acadeemia/entity"
	apierr "acadeemia/internal/http-server/handlers/errors"
	"acadeemia/internal/lib/api/cont"
	"acadeemia/internal/lib/api/response"
	"acadeemia/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type GenerateRequest struct {
	Username string `json:"username"`
}

// Generate issues a back-office API key for a username. Existing keys are returned unchanged.
func Generate(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.key"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		if user := cont.GetUser(r.Context()); user != nil {
			logger = logger.With(slog.String("issuer", user.Username))
		}

		if handler == nil {
			logger.Error("key service not available")
			render.JSON(w, r, response.Error("key service not available"))
			return
		}

		var req GenerateRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			logger.Warn("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		key, err := handler.GenerateApiKey(req.Username)
		if err != nil {
			logger.Error("generate api key", sl.Err(err))
			render.Status(r, apierr.StatusCode(err))
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		logger.With(slog.String("username", req.Username)).Info("api key issued")
		render.JSON(w, r, response.Ok(entity.UserAuth{Username: req.Username, Token: key}))
	}
}

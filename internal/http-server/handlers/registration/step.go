package registration

import (
	"acadeemia/entity"
	"acadeemia/internal/lib/api/response"
	"acadeemia/internal/lib/sl"
	"acadeemia/wizard/workflow"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// Step sends {action, data} to the session's current step.
func Step(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if handler == nil {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("registration service not available"))
			return
		}

		var input workflow.Input
		if err := render.DecodeJSON(r.Body, &input); err != nil {
			logger.Warn("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if input.Action == "" {
			input.Action = workflow.ActionNext
		}

		id := chi.URLParam(r, "id")
		session, err := handler.RegistrationStep(r.Context(), id, input)
		if err != nil {
			fail(w, r, logger.With(slog.String("session_id", id)), err, session)
			return
		}
		render.JSON(w, r, response.Ok(session))
	}
}

// Submit completes a session at the review step and starts the payment.
func Submit(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if handler == nil {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("registration service not available"))
			return
		}

		var details entity.SubmitDetails
		if r.ContentLength != 0 {
			if err := render.DecodeJSON(r.Body, &details); err != nil {
				logger.Warn("failed to decode request body", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Invalid request body"))
				return
			}
		}

		id := chi.URLParam(r, "id")
		session, err := handler.SubmitRegistration(r.Context(), id, details)
		if err != nil {
			fail(w, r, logger.With(slog.String("session_id", id)), err, session)
			return
		}

		logger.Info("registration submitted", slog.String("session_id", id))
		render.JSON(w, r, response.Ok(session))
	}
}

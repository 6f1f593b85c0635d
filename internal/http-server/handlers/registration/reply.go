package registration

import (
	"acadeemia/entity"
	apierr "acadeemia/internal/http-server/handlers/errors"
	"acadeemia/internal/lib/api/response"
	"acadeemia/internal/lib/sl"
	wizard "acadeemia/wizard/registration"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func requestLogger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.registration"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// fail answers a rejected wizard request. Step validation errors keep the
// session in the body so the client can stay on the same step.
func fail(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, session *entity.RegistrationSession) {
	status := apierr.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error("registration request failed", sl.Err(err))
	} else {
		logger.Debug("registration request rejected", sl.Err(err))
	}

	resp := response.Error(err.Error())
	var vErr *wizard.ValidationError
	if errors.As(err, &vErr) {
		resp.Data = map[string]interface{}{
			"session": session,
			"error":   vErr,
		}
	} else if session != nil {
		resp.Data = session
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}

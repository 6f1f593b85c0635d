package payment

import (
	"acadeemia/entity"
	apierr "acadeemia/internal/http-server/handlers/errors"
	"acadeemia/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func VerifyPayment(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.payment")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("payment service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, entity.VerifyResult{Error: "payment service not available"})
			return
		}

		var req entity.VerifyPaymentRequest
		err := render.DecodeJSON(r.Body, &req)
		if err == nil {
			err = req.Bind(r)
		}
		if err != nil {
			logger.Warn("invalid verify request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, entity.VerifyResult{Error: "orderTrackingId is required"})
			return
		}

		result, err := handler.VerifyPayment(r.Context(), req.OrderTrackingID)
		if err != nil {
			render.Status(r, apierr.StatusCode(err))
		}

		render.JSON(w, r, result)
	}
}

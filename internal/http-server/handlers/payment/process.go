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

func ProcessPayment(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.payment")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("payment service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, entity.ProcessPaymentResult{Error: "payment service not available"})
			return
		}

		var req entity.ProcessPaymentRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			logger.Warn("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, entity.ProcessPaymentResult{Error: "Invalid request body"})
			return
		}

		result, err := handler.ProcessPayment(r.Context(), &req)
		if err != nil {
			logger.With(
				slog.String("order_id", req.PaymentData.ID),
				sl.Err(err),
			).Warn("process payment")
			render.Status(r, apierr.StatusCode(err))
		}

		render.JSON(w, r, result)
	}
}

package payment

import (
	"acadeemia/entity"
	"acadeemia/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Ipn receives the gateway's payment notifications. The gateway sends the
// parameters in the query string (GET) or as a JSON body (POST) depending on
// how the IPN url was registered.
func Ipn(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.ipn"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		q := r.URL.Query()
		n := entity.IpnNotification{
			OrderTrackingID:        q.Get("OrderTrackingId"),
			OrderMerchantReference: q.Get("OrderMerchantReference"),
			OrderNotificationType:  q.Get("OrderNotificationType"),
			RawQuery:               r.URL.RawQuery,
		}
		if r.Method == http.MethodPost && r.ContentLength != 0 {
			var body entity.IpnNotification
			if err := render.DecodeJSON(r.Body, &body); err != nil {
				logger.Warn("failed to decode ipn body", sl.Err(err))
			} else {
				body.RawQuery = n.RawQuery
				n = body
			}
		}

		if handler == nil {
			logger.Error("payment service not available")
			render.JSON(w, r, &entity.IpnAck{
				OrderNotificationType:  n.OrderNotificationType,
				OrderTrackingID:        n.OrderTrackingID,
				OrderMerchantReference: n.OrderMerchantReference,
				Status:                 http.StatusInternalServerError,
			})
			return
		}

		render.JSON(w, r, handler.HandleIpn(r.Context(), n))
	}
}

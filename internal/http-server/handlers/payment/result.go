package payment

import (
	"acadeemia/entity"
	"acadeemia/internal/lib/sl"
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

//go:embed templates/result.html
var templates embed.FS

var resultPage = template.Must(template.ParseFS(templates, "templates/result.html"))

const missingTrackingID = "No payment reference was found in the link. If you were charged, please contact support."

type resultView struct {
	Success      bool
	Status       string
	Message      string
	OrderDetails *entity.OrderDetails
	RetryURL     string
	SupportEmail string
}

// Result is the page the gateway redirects the browser to after checkout.
// It verifies the order once and renders HTML, or JSON when the client asks for it.
func Result(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.result"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		trackingID := strings.TrimSpace(r.URL.Query().Get("OrderTrackingId"))
		logger = logger.With(
			slog.String("order_tracking_id", trackingID),
			slog.String("merchant_reference", r.URL.Query().Get("OrderMerchantReference")),
		)

		var result *entity.VerifyResult
		switch {
		case handler == nil:
			result = &entity.VerifyResult{Error: "payment service not available"}
		case trackingID == "":
			result = &entity.VerifyResult{Error: missingTrackingID}
		default:
			var err error
			result, err = handler.VerifyPayment(r.Context(), trackingID)
			if err != nil {
				logger.Warn("verification failed", sl.Err(err))
			}
		}

		if wantsJSON(r) {
			render.JSON(w, r, result)
			return
		}

		view := resultView{
			Success:      result.Success,
			Status:       result.Status,
			Message:      result.Message,
			OrderDetails: result.OrderDetails,
		}
		if handler != nil {
			view.RetryURL = handler.RetryURL()
			view.SupportEmail = handler.SupportEmail()
		}
		if view.Message == "" {
			view.Message = result.Error
		}
		if !view.Success && view.Message == "" {
			view.Message = "We could not confirm your payment."
		}

		var buf bytes.Buffer
		if err := resultPage.Execute(&buf, view); err != nil {
			logger.Error("render result page", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.PlainText(w, r, "Internal error")
			return
		}
		render.HTML(w, r, buf.String())
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

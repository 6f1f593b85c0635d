package admin

import (
	apierr "acadeemia/internal/http-server/handlers/errors"
	"acadeemia/internal/lib/api/response"
	"acadeemia/internal/lib/sl"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func requestLogger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.admin"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func ListPayments(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if handler == nil {
			logger.Error("admin service not available")
			render.JSON(w, r, response.Error("admin service not available"))
			return
		}

		status := r.URL.Query().Get("status")
		var limit int64
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("limit must be a number"))
				return
			}
			limit = n
		}

		payments, err := handler.ListPayments(r.Context(), status, limit)
		if err != nil {
			logger.Error("failed to list payments", sl.Err(err))
			render.Status(r, apierr.StatusCode(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to list payments: %v", err)))
			return
		}

		logger.Debug("payments listed", slog.Int("count", len(payments)))
		render.JSON(w, r, response.Ok(payments))
	}
}

func GetPayment(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if handler == nil {
			logger.Error("admin service not available")
			render.JSON(w, r, response.Error("admin service not available"))
			return
		}

		payment, err := handler.GetPayment(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			logger.Debug("get payment", sl.Err(err))
			render.Status(r, apierr.StatusCode(err))
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		render.JSON(w, r, response.Ok(payment))
	}
}

func ReverifyPayment(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if handler == nil {
			logger.Error("admin service not available")
			render.JSON(w, r, response.Error("admin service not available"))
			return
		}

		id := chi.URLParam(r, "id")
		result, err := handler.ReverifyPayment(r.Context(), id)
		if err != nil {
			logger.With(slog.String("order_id", id), sl.Err(err)).Warn("re-verify payment")
			render.Status(r, apierr.StatusCode(err))
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		logger.With(
			slog.String("order_id", id),
			slog.String("status", result.Status),
		).Info("payment re-verified")
		render.JSON(w, r, response.Ok(result))
	}
}

func GatewayEvents(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if handler == nil {
			logger.Error("admin service not available")
			render.JSON(w, r, response.Error("admin service not available"))
			return
		}

		payment, err := handler.GetPayment(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			render.Status(r, apierr.StatusCode(err))
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		events, err := handler.GatewayEvents(r.Context(), payment.TrackingID)
		if err != nil {
			logger.Error("failed to list gateway events", sl.Err(err))
			render.Status(r, apierr.StatusCode(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to list events: %v", err)))
			return
		}
		render.JSON(w, r, response.Ok(events))
	}
}

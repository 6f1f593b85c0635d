package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

type Core interface {
	Health(ctx context.Context) map[string]string
}

const checkTimeout = 3 * time.Second

// Health reports 200 when every backend answered its ping, 503 otherwise.
func Health(handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		checks := map[string]string{}
		if handler != nil {
			checks = handler.Health(ctx)
		}

		healthy := true
		for _, v := range checks {
			if v != "ok" {
				healthy = false
			}
		}
		if !healthy {
			render.Status(r, http.StatusServiceUnavailable)
		}
		render.JSON(w, r, map[string]interface{}{
			"healthy": healthy,
			"checks":  checks,
		})
	}
}

package api

import (
	"acadeemia/internal/config"
	"acadeemia/internal/http-server/handlers/admin"
	"acadeemia/internal/http-server/handlers/errors"
	"acadeemia/internal/http-server/handlers/health"
	"acadeemia/internal/http-server/handlers/key"
	"acadeemia/internal/http-server/handlers/payment"
	"acadeemia/internal/http-server/handlers/registration"
	"acadeemia/internal/http-server/middleware/authenticate"
	"acadeemia/internal/http-server/middleware/cors"
	"acadeemia/internal/lib/sl"
	"acadeemia/internal/ws"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultTimeout = 90 * time.Second

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	ws.Authenticator
	payment.Core
	registration.Core
	admin.Core
	key.Core
	health.Core
}

// NewRouter wires every route of the service. hub and gatherer may be nil.
func NewRouter(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub, gatherer prometheus.Gatherer) http.Handler {
	timeout := conf.Listen.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Get("/healthz", health.Health(handler))
	if gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	if hub != nil {
		router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWs(hub, handler, log, w, r)
		})
	}

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/payment/result", payment.Result(log, handler))

		r.Route("/api/v1", func(v1 chi.Router) {
			v1.Group(func(r chi.Router) {
				r.Use(cors.Handler)
				r.Options("/process-payment", preflight)
				r.Post("/process-payment", payment.ProcessPayment(log, handler))
				r.Options("/verify-payment", preflight)
				r.Post("/verify-payment", payment.VerifyPayment(log, handler))
			})
			v1.Route("/payments", func(r chi.Router) {
				r.Get("/ipn", payment.Ipn(log, handler))
				r.Post("/ipn", payment.Ipn(log, handler))
			})
			v1.Get("/plans", registration.Plans(log, handler))
			v1.Route("/registration", func(r chi.Router) {
				r.Post("/", registration.Start(log, handler))
				r.Get("/{id}", registration.Get(log, handler))
				r.Delete("/{id}", registration.Close(log, handler))
				r.Post("/{id}/step", registration.Step(log, handler))
				r.Post("/{id}/submit", registration.Submit(log, handler))
			})
			v1.Route("/admin", func(r chi.Router) {
				r.Use(authenticate.New(log, handler))
				r.Get("/payments", admin.ListPayments(log, handler))
				r.Get("/payments/{id}", admin.GetPayment(log, handler))
				r.Post("/payments/{id}/verify", admin.ReverifyPayment(log, handler))
				r.Get("/payments/{id}/events", admin.GatewayEvents(log, handler))
				r.Get("/subscriptions", admin.ListSubscriptions(log, handler))
				r.Post("/key/new", key.Generate(log, handler))
			})
		})
	})

	return router
}

// preflight is never reached past cors.Handler; it only gives OPTIONS a route.
func preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub, gatherer prometheus.Gatherer) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  NewRouter(conf, log, handler, hub, gatherer),
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}

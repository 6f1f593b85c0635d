package main

import (
	"acadeemia/impl/core"
	"acadeemia/internal/config"
	repository "acadeemia/internal/database"
	"acadeemia/internal/database/memory"
	"acadeemia/internal/http-server/api"
	"acadeemia/internal/lib/idempotency"
	"acadeemia/internal/lib/logger"
	"acadeemia/internal/lib/sl"
	"acadeemia/internal/metrics"
	"acadeemia/internal/service/auth"
	"acadeemia/internal/service/mailer"
	"acadeemia/internal/service/pesapal"
	"acadeemia/internal/ws"
	"acadeemia/wizard/registration"
	"acadeemia/wizard/workflow"
	"context"
	"flag"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	if conf.Telegram.Enabled {
		tgBot, err := logger.NewTelegramBot(conf.Telegram.ApiKey)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			lg = logger.SetupTelegramHandler(lg, tgBot, conf.Telegram.AdminId, slog.LevelWarn)
			lg.With(
				slog.Int64("admin_id", conf.Telegram.AdminId),
			).Info("telegram alerts enabled")
		}
	}

	lg.Info("starting acadeemia checkout", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	handler := core.New(lg)
	handler.SetConfig(conf)
	handler.SetAuthKey(conf.Listen.ApiKey)
	handler.SetMetrics(m)

	authService := auth.NewAuthService(lg)

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		authService.SetRepository(db)
		handler.SetRepository(db)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	} else {
		store := memory.New()
		authService.SetRepository(store)
		handler.SetRepository(store)
		lg.Warn("mongo disabled, using in-memory store")
	}
	handler.SetAuthService(authService)

	gateway := pesapal.NewPesapalService(conf, lg)
	gateway.SetMetrics(m)
	handler.SetGateway(gateway)
	lg.With(
		slog.String("environment", conf.Pesapal.Environment),
		slog.String("url", conf.PesapalBaseURL()),
		sl.Secret("consumer_key", conf.Pesapal.ConsumerKey),
	).Info("pesapal service initialized")

	redisGuard, err := idempotency.NewRedisGuard(conf)
	if err != nil {
		lg.With(sl.Err(err)).Error("redis guard")
	}
	if redisGuard != nil {
		defer redisGuard.Close()
		handler.SetGuard(redisGuard)
		lg.With(slog.String("addr", conf.Redis.Addr)).Info("redis idempotency guard initialized")
	} else {
		handler.SetGuard(idempotency.NewMemoryGuard(conf.Redis.LockTTL))
	}

	if mailService := mailer.NewMailService(conf, lg); mailService != nil {
		handler.SetMailer(mailService)
		lg.With(
			slog.String("from", conf.SendGrid.FromEmail),
			sl.Secret("api_key", conf.SendGrid.ApiKey),
		).Info("mail service initialized")
	}

	hub := ws.NewHub(lg)
	go hub.Run(ctx)
	handler.SetBroadcaster(hub)

	sessions := workflow.NewMemoryStateStorage(conf.Wizard.SessionTTL)
	go sessions.Run(ctx, time.Minute)
	engine := workflow.NewEngine(sessions, lg)
	engine.RegisterWorkflow(registration.NewRegistrationWorkflow(authService, handler.CompleteRegistration, lg))
	handler.SetWizard(engine)

	lg.With(
		slog.Int("plans", len(handler.Plans())),
		slog.Duration("session_ttl", conf.Wizard.SessionTTL),
	).Info("registration wizard initialized")

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler, hub, reg)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}

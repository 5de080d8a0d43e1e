package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sv8bshs/enrollment/internal/app"
	"github.com/sv8bshs/enrollment/internal/config"
	"github.com/sv8bshs/enrollment/internal/credentials"
	"github.com/sv8bshs/enrollment/internal/db"
	"github.com/sv8bshs/enrollment/internal/enrollment"
	"github.com/sv8bshs/enrollment/internal/jobs"
	"github.com/sv8bshs/enrollment/internal/logging"
	"github.com/sv8bshs/enrollment/internal/notify"
	"github.com/sv8bshs/enrollment/internal/observability"
)

const schoolName = "Senior High School Enrollment"

var _ enrollment.Store = (*db.Store)(nil)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Closer()
	logger := lg.Base

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Release)
	if err != nil {
		logger.Warn("sentry init failed", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(database); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}
	store := db.NewStore(database)

	renderer, err := notify.NewRenderer(schoolName)
	if err != nil {
		logger.Fatal("templates", zap.Error(err))
	}
	var transport notify.Transport
	switch cfg.Mail.Transport {
	case "smtp":
		transport = notify.NewSMTPTransport(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From, cfg.Mail.FromName)
	case "kafka":
		kt := notify.NewKafkaTransport(cfg.Kafka.Broker, cfg.Kafka.Topic, cfg.Kafka.Username, cfg.Kafka.Password)
		defer func() { _ = kt.Close() }()
		transport = kt
	default:
		transport = notify.NewLogTransport(lg.Component("mail"))
	}

	alerts, err := notify.NewStaffAlerter(cfg.BotToken, cfg.AdminIDs, lg.Component("staff"))
	if err != nil {
		logger.Warn("staff alerts disabled", zap.Error(err))
	}

	svc := enrollment.NewService(enrollment.Deps{
		Store:      store,
		Notifier:   notify.NewDispatcher(renderer, transport),
		Alerts:     alerts,
		Generator:  credentials.NewGenerator(cfg.TrackingPrefix, cfg.PasswordPrefix),
		Hasher:     credentials.BcryptHasher{},
		Years:      db.JuneSchoolYear{Location: cfg.Location},
		Log:        lg.Component("enrollment"),
		TempWindow: cfg.TempEnrollmentWindow,
	})

	runner := jobs.New(ctx, lg.Component("jobs"))
	runner.Every(cfg.TempWatchInterval, "temporary_watch", jobs.TemporaryWatch(svc, alerts, lg.Component("jobs")))

	e := app.NewEcho(svc, store, lg.Component("http"))
	app.StartHTTP(ctx, cfg.HTTPAddr, e, logger)
	logger.Info("enrollment service started",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("mail_transport", cfg.Mail.Transport),
		zap.String("school_year", svc.CurrentSchoolYear()))

	<-ctx.Done()
	logger.Info("shutting down")
	// let the HTTP server drain before deferred closes run
	time.Sleep(500 * time.Millisecond)
}

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgdb "github.com/t-t-h-q/telemedicine-platform-api/pkg/db"
	"github.com/t-t-h-q/telemedicine-platform-api/pkg/es"
	"github.com/t-t-h-q/telemedicine-platform-api/pkg/logging"
	"github.com/t-t-h-q/telemedicine-platform-api/pkg/metrics"
	authmw "github.com/t-t-h-q/telemedicine-platform-api/pkg/middleware/auth"
	loggingmw "github.com/t-t-h-q/telemedicine-platform-api/pkg/middleware/logging"
	"github.com/t-t-h-q/telemedicine-platform-api/pkg/middleware/ratelimit"
	"github.com/t-t-h-q/telemedicine-platform-api/pkg/mykafka"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/config"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/events"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/httpserver"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/mail"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/repo"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/service"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", "auth", "env", cfg.Env)
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := pkgdb.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	m := metrics.New("auth")
	publishers := events.Fanout{&events.CounterPublisher{Counter: m.AuthEvents}}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer error: %v", err)
		}
		publishers = append(publishers, &events.KafkaPublisher{Producer: producer, Topic: cfg.KafkaTopic})
	}

	if cfg.ESURL != "" {
		esCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := es.NewClient(esCtx, es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		cancel()
		if err != nil {
			logger.Warn("audit index disabled", "error", err)
		} else {
			publishers = append(publishers, &events.AuditIndexer{Client: client, Index: cfg.ESIndex})
		}
	}

	var mailer service.Notifier = mail.LogSender{FrontendBase: cfg.FrontendDomain, Logger: logger}
	if cfg.Mail.Host != "" {
		mailer = mail.NewSMTPSender(cfg.Mail, cfg.AppName)
	}

	users := service.NewUsersService(&repo.UserRepo{DB: db})
	authSvc := service.NewAuthService(
		users,
		&repo.SessionRepo{DB: db},
		mailer,
		cfg.Tokens,
		service.WithEvents(publishers),
	)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(m.Middleware())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(middleware.CORS())
	e.Use(middleware.Secure())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:  &httpserver.AuthHTTP{Svc: authSvc},
		UsersHandler: &httpserver.UsersHTTP{Svc: users},
		Bearer:       authmw.NewBearerAuth(cfg.Tokens.Access.Secret, cfg.Tokens.Refresh.Secret),
		Limiter:      ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Metrics:      m,
		AppName:      cfg.AppName,
		APIPrefix:    cfg.APIPrefix,
		Ready: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	go func() {
		logger.Info("starting auth service", "addr", cfg.Addr())
		if err := e.Start(cfg.Addr()); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close", "error", err)
		}
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db close", "error", err)
	}
	logger.Info("server stopped")
}

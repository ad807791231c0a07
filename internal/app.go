package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"drive-me-local/config"
	"drive-me-local/internal/application/ports"
	"drive-me-local/internal/application/services"
	domainSession "drive-me-local/internal/domain/session"
	"drive-me-local/internal/infrastructure/db/postgres"
	"drive-me-local/internal/infrastructure/db/postgres/activity"
	"drive-me-local/internal/infrastructure/db/postgres/user"
	"drive-me-local/internal/infrastructure/db/postgres/user_file"
	"drive-me-local/internal/infrastructure/jwt"
	"drive-me-local/internal/infrastructure/localfs"
	"drive-me-local/internal/infrastructure/metrics"
	"drive-me-local/internal/infrastructure/mq"
	"drive-me-local/internal/infrastructure/password"
	"drive-me-local/internal/infrastructure/s3"
	"drive-me-local/internal/infrastructure/session"
	"drive-me-local/internal/interface/api/rest"
	"drive-me-local/internal/interface/api/rest/middleware"
	"drive-me-local/pkg/rmqconsumer"
)

const (
	maxMultipartMemory     = 8 << 20
	sessionJanitorInterval = time.Minute
	shutdownTimeout        = 5 * time.Second
)

type App struct {
	logger      *zap.Logger
	cfg         config.Config
	db          *pgxpool.Pool
	blobs       ports.BlobStore
	sessions    domainSession.Store
	memSessions *session.MemoryStore
	closers     []io.Closer
	httpSrv     *http.Server
	router      *gin.Engine
	mCounter    *prometheus.CounterVec
	mq          ports.RabbitMQ
	mqConsumer  ports.RMQConsumer
	activity    *services.ActivityService
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}

	// config, .env is optional
	if err = godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatal("error loading .env file", zap.Error(err))
	}
	cfg := config.Load()
	if err = cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	// metrics
	mCounter := metrics.NewCounter()

	// router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = maxMultipartMemory
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(logger, mCounter))

	// httpServer
	httpSrv := &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	app := &App{
		logger:   logger,
		cfg:      cfg,
		httpSrv:  httpSrv,
		router:   r,
		mCounter: mCounter,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		logger.Fatal("DB config error", zap.Error(err))
	}
	app.db, err = postgres.New(ctx, logger, dbDsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err), zap.String("dsn", cfg.RedactedDBDSN()))
	}

	// blob store
	switch cfg.Storage.Backend {
	case config.StorageS3:
		app.blobs, err = s3.New(ctx, logger, cfg.S3)
		if err != nil {
			logger.Fatal("failed to connect to S3", zap.Error(err))
		}
	default:
		app.blobs, err = localfs.New(cfg.Storage.LocalDir)
		if err != nil {
			logger.Fatal("failed to prepare upload directory", zap.Error(err), zap.String("dir", cfg.Storage.LocalDir))
		}
	}

	// session store
	switch cfg.Session.Store {
	case config.SessionRedis:
		rs, err := session.NewRedisStore(ctx, logger, cfg.Session)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		app.sessions = rs
		app.closers = append(app.closers, rs)
	default:
		app.memSessions = session.NewMemoryStore()
		app.sessions = app.memSessions
	}

	// rabbitMQ is optional: without it activity only lands in the logs table
	if cfg.MQEnabled() {
		if err = app.connectMQ(ctx); err != nil {
			logger.Fatal("failed to set up rabbitMQ", zap.Error(err))
		}
	}

	return app, nil
}

func (a *App) connectMQ(ctx context.Context) error {
	rabbitDsn, err := a.cfg.AMQPDSN()
	if err != nil {
		return err
	}

	rbMQ := mq.New(a.cfg.MQ, a.logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if err = rbMQ.Init(); err != nil {
		rbMQ.Close()
		return fmt.Errorf("init: %w", err)
	}

	rmqConsumer := rmqconsumer.New(a.cfg.MQ, a.logger, rbMQ.GetConn())
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		rbMQ.Close()
		return fmt.Errorf("consumer connect: %w", err)
	}
	if err = rmqConsumer.Init(); err != nil {
		rbMQ.Close()
		return fmt.Errorf("consumer init: %w", err)
	}

	a.mq = rbMQ
	a.mqConsumer = rmqConsumer

	return nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close error", zap.Error(err))
		}
	}
	if a.mq != nil {
		a.mq.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run starts the http server and the background workers under one context
// and stops all of them on SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the activity worker outlives the http server so events from in-flight
	// requests are still stored
	activityCtx, stopActivity := context.WithCancel(context.WithoutCancel(ctx))
	defer stopActivity()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.activity != nil {
		g.Go(func() error {
			return a.activity.Run(activityCtx)
		})
	}

	if a.memSessions != nil {
		g.Go(func() error {
			a.memSessions.JanitorWorker(ctx, a.logger, sessionJanitorInterval)
			return nil
		})
	}

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	shutdownErr := a.httpSrv.Shutdown(shutdownCtx)
	stopActivity()
	if shutdownErr != nil {
		a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(shutdownErr))
	}

	if err := errors.Join(shutdownErr, g.Wait()); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// repos
	userRepo := user.NewRepository(a.db)
	userFileRepo := user_file.NewRepository(a.db)
	activityRepo := activity.NewRepository(a.db)

	// the publisher stays a nil interface when rabbitMQ is off
	var publisher ports.ActivityPublisher
	if a.mq != nil {
		publisher = a.mq
	}

	// services
	hasher := password.New(a.cfg.App.BcryptCost)
	signer := jwt.New(a.cfg.App.SessionSecret)
	a.activity = services.NewActivityService(a.logger, activityRepo, publisher, a.mCounter)
	userService := services.NewUserService(a.logger, userRepo, hasher, a.activity, a.mCounter)
	authService := services.NewAuthService(
		a.logger, userRepo, a.sessions, signer, hasher, a.activity, a.mCounter, a.cfg.App.SessionTTL,
	)
	userFileService := services.NewUserFileService(
		a.logger, a.blobs, userFileRepo, a.activity, a.mCounter, a.cfg.Storage.UploadMaxBytes,
	)
	adminService := services.NewAdminService(userRepo, userFileRepo, a.activity)

	gate := services.NewGate(rest.RouteLogin, rest.RouteDashboard)
	cookies := middleware.Cookies{Secure: a.cfg.IsProduction()}

	a.router.Use(middleware.Identify(authService, a.logger))

	// controllers
	rest.NewAuthController(a.router, a.logger, userService, authService, cookies, authService.TTL())
	rest.NewUserFileController(a.router, a.logger, userFileService, gate, cookies, a.cfg.Storage.UploadMaxBytes, a.mCounter)
	rest.NewAdminController(a.router, a.logger, adminService, gate, cookies, a.mCounter)

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger { return a.logger }

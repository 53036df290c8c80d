package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"project-launchpad/internal/application"
	"project-launchpad/internal/cache"
	"project-launchpad/internal/company"
	"project-launchpad/internal/config"
	"project-launchpad/internal/db"
	"project-launchpad/internal/events"
	"project-launchpad/internal/health"
	"project-launchpad/internal/logger"
	"project-launchpad/internal/middleware"
	"project-launchpad/internal/project"
	"project-launchpad/internal/schema"
	"project-launchpad/internal/student"
	"project-launchpad/internal/telemetry"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const (
	healthInterval           = 10 * time.Second
	telemetryShutdownTimeout = 5 * time.Second
)

type App struct {
	config       *config.Config
	router       chi.Router
	server       *http.Server
	grpcServer   *grpc.Server
	healthServer *grpchealth.Server
	health       *health.Handler
	database     *bun.DB
	redis        *redis.Client
	publisher    events.Publisher
	telemetry    *telemetry.Telemetry
	logger       *slog.Logger
	stopWatch    context.CancelFunc
}

func New(ctx context.Context) (_ *App, err error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slogLogger := logger.FromConfig(cfg, ServiceName, Version)

	// Set as default logger so slog.Info() uses the same handler
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application",
		"commit", GitCommit,
		"build_time", BuildTime,
		"log_level", cfg.Log.Level,
	)

	tel, err := telemetry.Init(ctx, cfg.Telemetry, ServiceName, Version, slogLogger)
	if err != nil {
		return nil, err
	}
	// Every failure from here on releases the meter provider.
	defer func() {
		if err == nil {
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryShutdownTimeout)
		defer cancel()
		if shutdownErr := tel.Shutdown(shutdownCtx, slogLogger); shutdownErr != nil {
			slogLogger.Error("telemetry shutdown after failed start", "error", shutdownErr)
		}
	}()
	m := tel.Metrics

	database, err := db.New(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := m.Database.RegisterDB(database.DB, otel.Meter(ServiceName)); err != nil {
		slogLogger.Warn("failed to register database pool metrics", "error", err)
	}
	if err := schema.Migrate(ctx, database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	app := &App{
		config:    cfg,
		router:    chi.NewRouter(),
		database:  database,
		telemetry: tel,
		logger:    slogLogger,
	}

	checks := map[string]health.Checker{
		"database": func(ctx context.Context) error { return database.PingContext(ctx) },
	}

	backend, err := app.cacheBackend(checks)
	if err != nil {
		app.close()
		return nil, err
	}
	queryCache := cache.New(backend, slogLogger, m)

	app.publisher = app.eventPublisher()

	timeout := db.QueryTimeout(cfg.Database)
	companyRepo := company.NewRepository(database, m, timeout)
	projectRepo := project.NewRepository(database, m, timeout)
	studentRepo := student.NewRepository(database, m, timeout)
	applicationRepo := application.NewRepository(database, m, timeout)

	publishTimeout := time.Duration(cfg.Events.PublishTimeoutMS) * time.Millisecond
	workflow := application.NewWorkflow(studentRepo, applicationRepo, queryCache, app.publisher, publishTimeout, slogLogger, m)

	companyHandler := company.NewHandler(company.NewService(companyRepo, queryCache, slogLogger, m), slogLogger)
	projectHandler := project.NewHandler(project.NewService(projectRepo, queryCache, slogLogger, m), slogLogger)
	applicationHandler := application.NewHandler(application.NewService(applicationRepo, workflow, queryCache), slogLogger)

	app.router.Use(chimiddleware.RequestID)
	app.router.Use(chimiddleware.Recoverer)
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	app.router.Use(middleware.RequestLogger(slogLogger))

	app.health = health.NewHandler(slogLogger, m.Health, checks)
	app.health.RegisterRoutes(app.router)

	app.router.Route("/api", func(r chi.Router) {
		companyHandler.RegisterRoutes(r)
		projectHandler.RegisterRoutes(r)
		applicationHandler.RegisterRoutes(r)
	})

	app.grpcServer = grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	app.healthServer = grpchealth.NewServer()
	grpc_health_v1.RegisterHealthServer(app.grpcServer, app.healthServer)

	slogLogger.Info("application initialized successfully")

	return app, nil
}

func (a *App) cacheBackend(checks map[string]health.Checker) (cache.Backend, error) {
	ttl := time.Duration(a.config.Cache.TTLSeconds) * time.Second

	switch a.config.Cache.Driver {
	case "", "memory":
		a.logger.Info("using in-memory query cache", "ttl", ttl)
		return cache.NewMemoryBackend(ttl), nil
	case "redis":
		a.redis = redis.NewClient(&redis.Options{
			Addr: a.config.Cache.RedisAddr,
			DB:   a.config.Cache.RedisDB,
		})
		backend := cache.NewRedisBackend(a.redis, ttl)
		checks["cache"] = backend.Ping
		a.logger.Info("using redis query cache", "addr", a.config.Cache.RedisAddr, "ttl", ttl)
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", a.config.Cache.Driver)
	}
}

// eventPublisher falls back to dropping events when the broker is
// unreachable; submissions never depend on it.
func (a *App) eventPublisher() events.Publisher {
	cfg := a.config.Events

	switch cfg.Driver {
	case "nats":
		p, err := events.NewNATSPublisher(cfg.NATSURL, cfg.Subject, a.logger)
		if err != nil {
			a.logger.Warn("failed to initialize NATS publisher, events disabled", "error", err)
			return events.NoopPublisher{}
		}
		return p
	case "kafka":
		p, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, a.logger)
		if err != nil {
			a.logger.Warn("failed to initialize kafka publisher, events disabled", "error", err)
			return events.NoopPublisher{}
		}
		return p
	default:
		a.logger.Info("event publishing disabled", "driver", cfg.Driver)
		return events.NoopPublisher{}
	}
}

// Handler exposes the HTTP routes without starting a server.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves HTTP and gRPC until one of them fails or Shutdown is called.
func (a *App) Run() error {
	srv := a.config.Server
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", srv.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(srv.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(srv.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(srv.IdleTimeout) * time.Second,
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", a.config.Grpc.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	a.stopWatch = cancel
	go a.health.Watch(watchCtx, a.healthServer, healthInterval)

	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("gRPC server starting", "port", a.config.Grpc.Port)
		errCh <- a.grpcServer.Serve(lis)
	}()
	go func() {
		a.logger.Info("server starting", "port", srv.Port)
		if err := a.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	return <-errCh
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	if a.stopWatch != nil {
		a.stopWatch()
	}
	a.healthServer.Shutdown()

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	a.grpcServer.GracefulStop()

	a.close()

	if err := a.telemetry.Shutdown(ctx, a.logger); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("event publisher close error", "error", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", "error", err)
		}
	}
	db.Close(a.database)
}

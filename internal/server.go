package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/rehabtrack/rehabtrack/internal/analysis"
	"github.com/rehabtrack/rehabtrack/internal/auth"
	"github.com/rehabtrack/rehabtrack/internal/config"
	"github.com/rehabtrack/rehabtrack/internal/db"
	"github.com/rehabtrack/rehabtrack/internal/middleware"
	"github.com/rehabtrack/rehabtrack/internal/misc"
	"github.com/rehabtrack/rehabtrack/internal/patients"
	"github.com/rehabtrack/rehabtrack/internal/sessions"
	"github.com/rehabtrack/rehabtrack/internal/telemetry/metrics"
	"github.com/rehabtrack/rehabtrack/internal/telemetry/tracing"
)

// request bodies above this are cut off
const maxRequestBodyBytes = 1 << 20

type tokensCleaner interface {
	ScanAndClean(ctx context.Context) (int64, error)
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter
	tokens      *auth.TokenService
	revocations *auth.RevocationStore
	cron        *cron.Cron

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     *config.Secrets
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	tracingEnabled := params.Secrets.HoneycombEnabled

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.Secrets.PostgresPassword,
		TracingEnabled: tracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if cfg.ApplySchema {
		if err := db.ApplySchema(ctx, dbPool); err != nil {
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("rehabtrack", "api", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.Secrets.RedisPassword,
		DB:       0, // use default DB
	})
	if tracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(tracingEnabled, params.Secrets.OtelServiceName)
	if err != nil {
		return nil, err
	}

	revocations := auth.NewRevocationStore(rdb, cfg.RevocationCacheSizeMB)

	s := &Server{
		config:      cfg,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient: rdb,
		rateLimiter: redis_rate.NewLimiter(rdb),
		tokens:      auth.NewTokenService(params.Secrets.JWTSecret, cfg.JWTTTL()),
		revocations: revocations,
		cron:        cron.New(),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if err := s.cron.AddFunc(cfg.RevokedTokensCleanupSpec, func() {
		s.cleanupRevokedTokens(ctx, revocations)
	}); err != nil {
		return nil, fmt.Errorf("schedule revoked tokens cleanup [%s]: %w", cfg.RevokedTokensCleanupSpec, err)
	}

	return s, nil
}

func (s *Server) cleanupRevokedTokens(ctx context.Context, cleaner tokensCleaner) {
	removed, err := cleaner.ScanAndClean(ctx)
	if err != nil {
		log.Errorf("cleanup revoked tokens: %s", err)
		return
	}
	s.metricsManager.CounterRevokedTokensCleaned.Add(float64(removed))
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	miscHandler := misc.NewHandler(s.versionInfo, map[string]misc.HealthCheck{
		"postgres": func(ctx context.Context) error {
			return s.dbPool.Ping(ctx)
		},
		"redis": func(ctx context.Context) error {
			return s.redisClient.Ping(ctx).Err()
		},
	})
	miscHandler.SetupRoutes(r)

	authHandler := auth.NewHandler(
		auth.NewService(auth.NewUsersRepo(s.dbPool), s.tokens, s.revocations),
		s.metricsManager,
	)
	authRouter := authHandler.SetupRoutes(r)
	// rate limit /auth endpoints to prevent credential stuffing
	authRouter.Use(middleware.RateLimit(s.rateLimiter, "auth", s.config.LoginRateLimitAllowedPerMin, s.metricsManager))

	patientsRepo := patients.NewRepo(s.dbPool)
	sessionsRepo := sessions.NewRepo(s.dbPool)

	patientsHandler := patients.NewHandler(patientsRepo, sessionsRepo)
	patientsHandler.SetupRoutes(r)

	sessionsHandler := sessions.NewHandler(
		sessions.NewService(sessionsRepo),
		sessionsRepo,
		s.metricsManager,
	)
	sessionsHandler.SetupRoutes(r)

	analysisHandler := analysis.NewHandler(patientsRepo, sessionsRepo, s.metricsManager)
	analysisHandler.SetupRoutes(r)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.tokens, s.revocations)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.LimitAndDrainRequest(maxRequestBodyBytes))

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      otelhttp.NewHandler(router, "rehabtrack-api"),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.cron.Start()
	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.cron != nil {
		s.cron.Stop()
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var err error
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown http server: %w", shutdownErr))
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics http server: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	return err
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}

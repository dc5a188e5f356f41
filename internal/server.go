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
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/loadtrack/internal/analytics"
	"github.com/2beens/loadtrack/internal/auth"
	"github.com/2beens/loadtrack/internal/config"
	"github.com/2beens/loadtrack/internal/db"
	"github.com/2beens/loadtrack/internal/middleware"
	"github.com/2beens/loadtrack/internal/misc"
	"github.com/2beens/loadtrack/internal/sessions"
	"github.com/2beens/loadtrack/internal/telemetry/metrics"
	"github.com/2beens/loadtrack/internal/telemetry/tracing"
)

const sessionsCleanupInterval = 8 * time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config           *config.Config
	loc              *time.Location
	dbPool           *pgxpool.Pool
	sessionsRepo     *sessions.Repo
	analyticsService *analytics.Service

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()

	stopBackgroundJobs context.CancelFunc
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	PostgresUser            string
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	loc, err := params.Config.Location()
	if err != nil {
		return nil, err
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("loadtrack", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "loadtrack-backend", rdb)
	if err != nil {
		return nil, err
	}

	authService := auth.NewAuthService(&auth.Admin{
		Username:     params.AdminUsername,
		PasswordHash: params.AdminPasswordHash,
	}, auth.DefaultTTL, rdb)

	sessionsRepo := sessions.NewRepo(dbPool, loc)
	if created, err := sessionsRepo.EnsureSchema(ctx); err != nil {
		log.Warnf("failed to check sessions schema: %s", err)
	} else if created {
		log.Infoln("sessions schema created")
	}
	analyticsService := analytics.NewService(analytics.NewServiceParams{
		Repo:           sessionsRepo,
		CacheSizeMB:    params.Config.AnalyticsCacheSizeMB,
		CacheTTL:       params.Config.AnalyticsCacheTTL(),
		Location:       loc,
		MetricsManager: metricsManager,
	})

	bgCtx, stopBackgroundJobs := context.WithCancel(context.Background())
	go runSessionsCleanup(bgCtx, authService, sessionsCleanupInterval)

	return &Server{
		config:           params.Config,
		loc:              loc,
		dbPool:           dbPool,
		sessionsRepo:     sessionsRepo,
		analyticsService: analyticsService,
		versionInfo:      params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,

		stopBackgroundJobs: stopBackgroundJobs,
	}, nil
}

type sessionsCleaner interface {
	ScanAndClean(ctx context.Context, now time.Time) int
}

func runSessionsCleanup(ctx context.Context, cleaner sessionsCleaner, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := cleaner.ScanAndClean(ctx, now); removed > 0 {
				log.Debugf("auth sessions cleanup removed %d tokens", removed)
			}
		}
	}
}

func (s *Server) healthChecks() map[string]misc.HealthCheck {
	checks := make(map[string]misc.HealthCheck)
	if s.dbPool != nil {
		checks["postgres"] = s.dbPool.Ping
	}
	if s.redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return s.redisClient.Ping(ctx).Err()
		}
	}
	return checks
}

func (s *Server) routerSetup() (*mux.Router, error) {
	if s.config == nil || s.metricsManager == nil {
		return nil, errors.New("server config and metrics manager must be set")
	}

	loc := s.loc
	if loc == nil {
		loc = time.UTC
	}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)

	// a nil invalidator interface must stay nil when analytics is not set up
	var invalidator interface{ Invalidate() }
	if s.analyticsService != nil {
		invalidator = s.analyticsService
	}
	sessionsHandler := sessions.NewHandler(s.sessionsRepo, invalidator, s.metricsManager, loc)
	sessionsHandler.SetupRoutes(r)

	analyticsRouter := r.PathPrefix("/analytics").Subrouter()
	analyticsHandler := analytics.NewHandler(s.analyticsService, loc)
	analyticsHandler.SetupRoutes(analyticsRouter)
	analyticsRouter.Use(middleware.RateLimit(reqRateLimiter, "analytics", s.config.AnalyticsRateLimitPerMin, s.metricsManager))

	miscHandler := misc.NewHandler(s.versionInfo, s.authService, s.healthChecks())
	miscHandler.SetupRoutes(r, reqRateLimiter, s.config.LoginRateLimitPerMin, s.metricsManager)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins...))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.LimitBody(middleware.DefaultMaxBodyBytes))
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
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

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)
	if s.stopBackgroundJobs != nil {
		s.stopBackgroundJobs()
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop accepting requests before closing what they depend on
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
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

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
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

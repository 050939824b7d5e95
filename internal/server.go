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
	"github.com/coocood/freecache"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"

	"github.com/2beens/fitfood/internal/assistant"
	"github.com/2beens/fitfood/internal/auth"
	"github.com/2beens/fitfood/internal/community"
	"github.com/2beens/fitfood/internal/config"
	"github.com/2beens/fitfood/internal/db"
	"github.com/2beens/fitfood/internal/featurestore"
	"github.com/2beens/fitfood/internal/middleware"
	"github.com/2beens/fitfood/internal/misc"
	"github.com/2beens/fitfood/internal/nutrition"
	"github.com/2beens/fitfood/internal/realtime"
	"github.com/2beens/fitfood/internal/telemetry/metrics"
	"github.com/2beens/fitfood/internal/telemetry/tracing"
	"github.com/2beens/fitfood/internal/tracker/running"
	"github.com/2beens/fitfood/internal/tracker/schedule"
	"github.com/2beens/fitfood/internal/tracker/weight"
	"github.com/2beens/fitfood/internal/users"
	"github.com/2beens/fitfood/internal/workouts"
	"github.com/2beens/fitfood/pkg"
)

const (
	maxRequestBodyBytes    = 1 << 20
	sessionCleanupInterval = 8 * time.Hour
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config         *config.Config
	dbPool         *pgxpool.Pool
	redisClient    *redis.Client
	trustedProxies pkg.TrustedProxies

	authService  *auth.Service
	loginChecker auth.Checker
	rateLimiter  middleware.RequestRateLimiter
	// stops the session cleanup loop
	stopBackground context.CancelFunc

	// domain
	hub            *realtime.Hub
	featureDocs    *featurestore.Documents
	usersService   *users.Service
	workoutsRepo   *workouts.Repo
	mealsRepo      *nutrition.MealsRepo
	runningService *running.Service
	tipsManager    *misc.TipsManager
	plansCatalog   *misc.PlansCatalog

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	JWTSecret               string
	RedisPassword           string
	OpenAIAPIKey            string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (_ *Server, err error) {
	if params.JWTSecret == "" {
		return nil, errors.New("jwt secret not set")
	}

	trustedProxies, err := pkg.ParseTrustedProxies(params.Config.TrustedProxies)
	if err != nil {
		return nil, err
	}

	// everything started so far is released when a later step fails
	var releaseOnErr []func()
	defer func() {
		if err == nil {
			return
		}
		for i := len(releaseOnErr) - 1; i >= 0; i-- {
			releaseOnErr[i]()
		}
	}()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}
	releaseOnErr = append(releaseOnErr, dbPool.Close)

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if params.Config.RunMigrations {
		if err := db.Migrate(ctx, dbPool); err != nil {
			return nil, fmt.Errorf("migrate db: %w", err)
		}
		log.Debugln("db schema migrated")
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fitfood", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	releaseOnErr = append(releaseOnErr, func() {
		if err := rdb.Close(); err != nil {
			log.Errorf("close redis client: %s", err)
		}
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(
		auth.NewTokens(params.JWTSecret, auth.DefaultTTL),
		rdb,
	)
	backgroundCtx, stopBackground := context.WithCancel(ctx)
	releaseOnErr = append(releaseOnErr, stopBackground)
	go authService.RunCleanup(backgroundCtx, sessionCleanupInterval)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitfood-backend", rdb)
	if err != nil {
		return nil, err
	}
	releaseOnErr = append(releaseOnErr, otelShutdown)

	s := &Server{
		config:         params.Config,
		dbPool:         dbPool,
		redisClient:    rdb,
		versionInfo:    params.VersionInfo,
		trustedProxies: trustedProxies,

		authService:    authService,
		loginChecker:   authService,
		rateLimiter:    redis_rate.NewLimiter(rdb),
		stopBackground: stopBackground,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	var profileAssistant *assistant.Client
	if params.OpenAIAPIKey != "" {
		profileAssistant = assistant.NewClient(assistant.Params{
			APIKey: params.OpenAIAPIKey,
			Model:  params.Config.OpenAIModel,
		})
	} else {
		log.Warnln("OPENAI_API_KEY not set, ai suggestions need an explicit answer")
	}

	if err := s.setupDomain(
		featurestore.NewRedisStore(rdb, featurestore.DefaultMaxAttempts),
		profileAssistant,
	); err != nil {
		return nil, err
	}

	return s, nil
}

// setupDomain creates the services behind the routes. A nil assistant disables
// generated suggestion answers.
func (s *Server) setupDomain(store featurestore.Store, profileAssistant *assistant.Client) error {
	s.hub = realtime.NewHub(s.metricsManager)
	s.featureDocs = featurestore.NewDocuments(store, s.hub, s.metricsManager)

	s.workoutsRepo = workouts.NewRepo(s.dbPool)
	s.mealsRepo = nutrition.NewMealsRepo(s.dbPool)

	usersParams := users.NewServiceParams{
		Repo:            users.NewRepo(s.dbPool),
		Workouts:        s.workoutsRepo,
		Meals:           s.mealsRepo,
		Sessions:        s.authService,
		Cache:           freecache.NewCache(s.config.ProfileCacheSizeMB * 1024 * 1024),
		CacheTTLSeconds: s.config.ProfileCacheTTLSeconds,
	}
	if profileAssistant != nil {
		usersParams.Assistant = profileAssistant
	}
	s.usersService = users.NewService(usersParams)

	s.runningService = running.NewService(
		s.featureDocs,
		s.metricsManager,
		time.Duration(s.config.RunTickMillis)*time.Millisecond,
	)

	tipsManager, err := misc.NewDefaultTipsManager()
	if err != nil {
		return fmt.Errorf("create tips manager: %w", err)
	}
	s.tipsManager = tipsManager

	plansCatalog, err := misc.NewDefaultPlansCatalog()
	if err != nil {
		return fmt.Errorf("create workout plans catalog: %w", err)
	}
	s.plansCatalog = plansCatalog

	return nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	miscHandler := misc.NewHandler(s.tipsManager, s.plansCatalog, s.versionInfo)
	miscHandler.SetupRoutes(r)

	rateLimited := func(name string, h http.HandlerFunc) http.Handler {
		return middleware.RateLimit(
			s.rateLimiter,
			s.metricsManager,
			s.trustedProxies,
			name,
			s.config.LoginRateLimitAllowedPerMin,
		)(h)
	}

	// users, signup and login before the {userId} subrouter
	usersHandler := users.NewHandler(s.usersService, s.metricsManager)
	r.Handle("/api/users", rateLimited("signup", usersHandler.HandleSignup)).Methods("POST", "OPTIONS").Name("signup")
	r.Handle("/api/users/login", rateLimited("login", usersHandler.HandleLogin)).Methods("POST", "OPTIONS").Name("login")
	r.HandleFunc("/api/users/logout", usersHandler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")

	workoutsHandler := workouts.NewHandler(s.workoutsRepo, s.metricsManager, s.usersService)
	r.HandleFunc("/api/workouts", workoutsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-workout")

	nutritionHandler := nutrition.NewHandler(s.mealsRepo, s.usersService, s.usersService, s.metricsManager)
	r.HandleFunc("/api/nutrition/calculate", nutritionHandler.HandleCalculate).Methods("POST", "OPTIONS").Name("calculate")
	r.HandleFunc("/api/meals", nutritionHandler.HandleCreateMeal).Methods("POST", "OPTIONS").Name("new-meal")

	communityHandler := community.NewHandler(community.NewFeed(s.featureDocs), s.usersService)
	r.HandleFunc("/api/community/posts", communityHandler.HandleList).Methods("GET", "OPTIONS").Name("list-posts")
	r.HandleFunc("/api/community/posts", communityHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-post")
	r.HandleFunc("/api/community/posts/{id}/like", communityHandler.HandleReact(community.ReactionLike)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/community/posts/{id}/comment", communityHandler.HandleReact(community.ReactionComment)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/community/posts/{id}/share", communityHandler.HandleReact(community.ReactionShare)).Methods("POST", "OPTIONS")

	ownerOnly := middleware.OwnerCheck()
	r.Handle("/api/workouts/{userId}", ownerOnly(http.HandlerFunc(workoutsHandler.HandleListByUser))).Methods("GET", "OPTIONS").Name("list-workouts")
	r.Handle("/api/meals/{userId}", ownerOnly(http.HandlerFunc(nutritionHandler.HandleListMeals))).Methods("GET", "OPTIONS").Name("list-meals")

	// routes owned by a single user
	userRouter := r.PathPrefix("/api/users/{userId}").Subrouter()
	userRouter.Use(ownerOnly)
	userRouter.HandleFunc("", usersHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-user")
	userRouter.HandleFunc("", usersHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-user")
	userRouter.HandleFunc("/ai-suggestions", usersHandler.HandleAddAISuggestion).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/nutrition", nutritionHandler.HandleSummary).Methods("GET", "OPTIONS")

	runningHandler := running.NewHandler(s.runningService)
	userRouter.HandleFunc("/running", runningHandler.HandleOverview).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/running", runningHandler.HandleRecord).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/running/start", runningHandler.HandleStart).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/running/current", runningHandler.HandleCurrent).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/running/stop", runningHandler.HandleStop).Methods("POST", "OPTIONS")

	weightHandler := weight.NewHandler(weight.NewService(s.featureDocs))
	userRouter.HandleFunc("/weight", weightHandler.HandleOverview).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/weight", weightHandler.HandleAdd).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/weight/goals", weightHandler.HandleSetGoals).Methods("PUT", "OPTIONS")

	scheduleHandler := schedule.NewHandler(schedule.NewService(s.featureDocs))
	userRouter.HandleFunc("/schedule", scheduleHandler.HandleList).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/schedule", scheduleHandler.HandleAdd).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/schedule/{id}/complete", scheduleHandler.HandleToggleComplete).Methods("PUT", "OPTIONS")
	userRouter.HandleFunc("/schedule/{id}", scheduleHandler.HandleDelete).Methods("DELETE", "OPTIONS")

	syncHandler := realtime.NewHandler(s.hub, realtime.DefaultPingInterval, s.config.AllowedOrigins)
	userRouter.HandleFunc("/sync", syncHandler.HandleSync).Methods("GET").Name("sync")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest(s.trustedProxies))
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest(maxRequestBodyBytes))

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
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

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.stopBackground != nil {
		s.stopBackground()
	}

	// live runs are dropped, sync clients disconnected
	s.runningService.Shutdown()
	s.hub.Close()

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var shutdownErr error
	if s.httpServer != nil {
		shutdownErr = multierr.Append(shutdownErr, s.httpServer.Shutdown(ctx))
		log.Warnln("server shut down")
	}
	if s.metricsHttpServer != nil {
		shutdownErr = multierr.Append(shutdownErr, s.metricsHttpServer.Shutdown(ctx))
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		shutdownErr = multierr.Append(shutdownErr, s.redisClient.Close())
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	for _, err := range multierr.Errors(shutdownErr) {
		log.Errorf(" >>> graceful shutdown: %s", err)
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
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

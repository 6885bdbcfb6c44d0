package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/beeegaf/pushup-tracker/internal/config"
	"github.com/beeegaf/pushup-tracker/internal/db"
	"github.com/beeegaf/pushup-tracker/internal/group"
	"github.com/beeegaf/pushup-tracker/internal/leaderboard"
	"github.com/beeegaf/pushup-tracker/internal/ledger"
	"github.com/beeegaf/pushup-tracker/internal/middleware"
	"github.com/beeegaf/pushup-tracker/internal/notify"
	"github.com/beeegaf/pushup-tracker/internal/reminders"
	"github.com/beeegaf/pushup-tracker/internal/stats"
	"github.com/beeegaf/pushup-tracker/internal/telemetry/metrics"
	"github.com/beeegaf/pushup-tracker/pkg"

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
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	ledgerService    *ledger.Service
	groupService     *group.Service
	feed             *leaderboard.Feed
	remindersService *reminders.Service
	scheduler        *reminders.Scheduler

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
}

type NewServerParams struct {
	Config         *config.Config
	RedisPassword  string
	VersionInfo    string
	TracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		TracingEnabled: params.TracingEnabled,
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
	metricsManager := metrics.NewManager("pushuptracker", "main", promRegistry)
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

	ledgerService := ledger.NewService(ledger.NewRepo(dbPool), nil)
	groupService := group.NewService(
		group.NewRedisStore(rdb),
		group.NewProfileRepo(dbPool),
		ledgerService,
		metricsManager,
		nil,
	)

	var notifier notify.Notifier
	if params.Config.NotificationsWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(
			params.Config.NotificationsWebhookURL,
			&http.Client{
				Transport: otelhttp.NewTransport(http.DefaultTransport),
			},
		)
	} else {
		notifier = notify.NewLogNotifier()
	}
	dispatcher := notify.NewDispatcher(notifier, nil, metricsManager)

	feed := leaderboard.NewFeed(
		groupService,
		group.NewRedisStore(rdb),
		dispatcher,
		metricsManager,
		nil,
	)
	groupService.SetSnapshotListener(feed.OnSnapshot)

	remindersService := reminders.NewService(reminders.NewRepo(dbPool))
	scheduler := reminders.NewScheduler(
		remindersService,
		ledgerService,
		dispatcher,
		nil,
		time.Duration(params.Config.ReminderCheckIntervalSeconds)*time.Second,
	)

	return &Server{
		config:      params.Config,
		versionInfo: params.VersionInfo,
		dbPool:      dbPool,
		redisClient: rdb,

		ledgerService:    ledgerService,
		groupService:     groupService,
		feed:             feed,
		remindersService: remindersService,
		scheduler:        scheduler,

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	ledgerHandler := ledger.NewHandler(s.ledgerService, s.groupService, s.metricsManager)
	r.HandleFunc("/pushups", ledgerHandler.HandleAdd).Methods("POST", "OPTIONS").Name("add-pushups")
	r.HandleFunc("/pushups", ledgerHandler.HandleRecord).Methods("GET", "OPTIONS").Name("get-record")
	r.HandleFunc("/pushups/undo", ledgerHandler.HandleUndo).Methods("POST", "OPTIONS").Name("undo-pushups")
	r.HandleFunc("/pushups/today", ledgerHandler.HandleToday).Methods("GET", "OPTIONS").Name("get-today")

	statsHandler := stats.NewHandler(s.ledgerService, nil)
	r.HandleFunc("/stats", statsHandler.HandleSummary).Methods("GET", "OPTIONS").Name("get-stats")
	r.HandleFunc("/stats/history", statsHandler.HandleHistory).Methods("GET", "OPTIONS").Name("get-history")
	r.HandleFunc("/stats/medals", statsHandler.HandleMedals).Methods("GET", "OPTIONS").Name("get-medals")

	remindersHandler := reminders.NewHandler(s.remindersService)
	r.HandleFunc("/reminders", remindersHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-reminder")
	r.HandleFunc("/reminders", remindersHandler.HandleList).Methods("GET", "OPTIONS").Name("list-reminders")
	r.HandleFunc("/reminders/{id}/enabled", remindersHandler.HandleSetEnabled).Methods("PUT", "OPTIONS").Name("toggle-reminder")
	r.HandleFunc("/reminders/{id}", remindersHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-reminder")

	groupHandler := group.NewHandler(s.groupService)
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	rateLimitedJoin := middleware.RateLimit(
		reqRateLimiter,
		"group-join",
		s.config.JoinRateLimitAllowedPerMin,
		s.metricsManager,
	)(http.HandlerFunc(groupHandler.HandleJoin))
	r.Handle("/group/join", rateLimitedJoin).Methods("POST", "OPTIONS").Name("join-group")
	r.HandleFunc("/group/leave", groupHandler.HandleLeave).Methods("POST", "OPTIONS").Name("leave-group")
	r.HandleFunc("/group", groupHandler.HandleCurrent).Methods("GET", "OPTIONS").Name("get-group")

	leaderboardHandler := leaderboard.NewHandler(s.feed)
	r.HandleFunc("/leaderboard", leaderboardHandler.HandleLeaderboard).Methods("GET", "OPTIONS").Name("get-leaderboard")
	r.HandleFunc("/leaderboard/weekly-winner", leaderboardHandler.HandleWeeklyWinner).Methods("GET", "OPTIONS").Name("get-weekly-winner")

	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
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

	if err := s.groupService.Resume(ctx); err != nil {
		log.Errorf("failed to resume group membership: %s", err)
	}

	go s.scheduler.Run(ctx)

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

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
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

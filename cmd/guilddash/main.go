package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/guilddash/pkg/access"
	"github.com/platinummonkey/guilddash/pkg/config"
	"github.com/platinummonkey/guilddash/pkg/dashboard"
	"github.com/platinummonkey/guilddash/pkg/discord"
	"github.com/platinummonkey/guilddash/pkg/httputil"
	"github.com/platinummonkey/guilddash/pkg/middleware"
	"github.com/platinummonkey/guilddash/pkg/observability"
	"github.com/platinummonkey/guilddash/pkg/serverconfig"
	"github.com/platinummonkey/guilddash/pkg/session"
)

func main() {
	startup := logrus.New()
	startup.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig()
	if err != nil {
		startup.WithError(err).Fatal("failed to load configuration")
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	var redisClient *redis.Client
	var db *sql.DB

	// Session store
	var sessions session.Store
	switch cfg.Session.Backend {
	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.Session.RedisURL)
		if err != nil {
			startup.WithError(err).Fatal("invalid session redis url")
		}
		redisClient = redis.NewClient(opts)
		sessions = session.NewRedisStore(redisClient, cfg.Session.TTL)
	default:
		memStore := session.NewMemoryStore(cfg.Session.TTL)
		defer memStore.Close()
		sessions = memStore
	}

	// Settings store
	var settings serverconfig.Store
	switch cfg.Settings.Backend {
	case config.BackendPostgres:
		db, err = sql.Open("postgres", cfg.Settings.PostgresURL)
		if err != nil {
			startup.WithError(err).Fatal("failed to open postgres")
		}
		pgStore := serverconfig.NewPostgresStore(db)
		if err := pgStore.Migrate(context.Background()); err != nil {
			startup.WithError(err).Fatal("failed to run settings migration")
		}
		settings = pgStore
	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.Settings.RedisURL)
		if err != nil {
			startup.WithError(err).Fatal("invalid settings redis url")
		}
		if redisClient == nil {
			redisClient = redis.NewClient(opts)
		}
		settings = serverconfig.NewRedisStore(redisClient)
	default:
		settings = serverconfig.NewMemoryStore()
	}

	// Platform collaborators
	rest, err := discord.NewRESTClient(cfg.Platform.APIBaseURL, cfg.Platform.BotToken, discord.WithMetrics(metrics))
	if err != nil {
		startup.WithError(err).Fatal("failed to create platform client")
	}
	authn, err := discord.NewAuthenticator(discord.OAuth2Config{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		RedirectURL:  cfg.OAuth.RedirectURL,
		AuthURL:      cfg.OAuth.AuthURL,
		TokenURL:     cfg.OAuth.TokenURL,
		APIBaseURL:   cfg.Platform.APIBaseURL,
	})
	if err != nil {
		startup.WithError(err).Fatal("failed to create authenticator")
	}

	resolver := access.NewResolver(rest,
		access.WithLookupTimeout(cfg.Platform.LookupTimeout),
		access.WithMetrics(metrics),
	)

	// Application router
	router := mux.NewRouter()
	router.Use(httputil.RequestIDMiddleware)
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(observability.WithLogger(r.Context(), logger)))
		})
	})
	router.Use(httputil.LoggingMiddleware(logger))
	router.Use(httputil.RecoveryMiddleware(logger))
	if cfg.Observability.MetricsEnabled {
		router.Use(metrics.MetricsMiddleware)
	}
	router.Use(httputil.MaxBytesMiddleware(1 << 20))
	router.Use(middleware.NewSessionMiddleware(sessions).Handler)

	handlers := dashboard.NewHandlers(sessions, authn, rest, resolver, settings, logger,
		dashboard.WithMetrics(metrics),
		dashboard.WithSessionTTL(cfg.Session.TTL))
	handlers.RegisterRoutes(router)

	appServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Health and metrics on a separate listener kept off the public surface
	healthMux := http.NewServeMux()
	observability.RegisterHealthRoutes(healthMux, observability.NewHealthChecker(db, redisClient))
	if cfg.Observability.MetricsEnabled {
		healthMux.Handle("/metrics", observability.Handler(registry))
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	sm := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, appServer, healthServer)
	if redisClient != nil {
		sm.RegisterShutdownFunc(func(ctx context.Context) error { return redisClient.Close() })
	}
	if db != nil {
		sm.RegisterShutdownFunc(func(ctx context.Context) error { return db.Close() })
	}

	var group errgroup.Group
	group.Go(func() error {
		startup.WithField("addr", appServer.Addr).Info("dashboard listening")
		if err := appServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		startup.WithField("addr", healthServer.Addr).Info("health endpoint listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		return sm.WaitForShutdown()
	})

	if err := group.Wait(); err != nil {
		startup.WithError(err).Fatal("server exited with error")
	}
}

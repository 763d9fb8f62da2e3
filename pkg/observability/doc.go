// Package observability provides structured logging, Prometheus metrics,
// health checks, and graceful shutdown for the dashboard process.
//
// # Overview
//
// Logging is JSON over stdlib slog with field chaining:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("guild_id", id).Info("settings updated")
//
// Metrics are registered on a dedicated Prometheus registry and exposed on the
// health port alongside liveness/readiness probes:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	mux.Handle("/metrics", observability.Handler(registry))
//
// The HealthChecker pings PostgreSQL and Redis when those backends are
// configured; with in-memory backends it reports healthy unconditionally.
package observability

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/846serj/headline-engine/internal/app"
	"github.com/846serj/headline-engine/internal/config"
	"github.com/846serj/headline-engine/internal/logger"
	"github.com/846serj/headline-engine/internal/metrics"
	"github.com/846serj/headline-engine/internal/scheduler"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer()
	}

	a, err := app.New(cfg, os.Stdout)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if cfg.CronSpec == "" {
		if err := a.Run(context.Background()); err != nil {
			metrics.Global.SetError(err.Error())
			logger.Error("run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	sched := scheduler.New()
	if err := sched.Schedule(cfg.CronSpec, func(ctx context.Context) {
		if err := a.Run(ctx); err != nil {
			metrics.Global.SetError(err.Error())
			logger.Error("scheduled run failed", "error", err)
		}
	}); err != nil {
		logger.Error("invalid cron spec", "spec", cfg.CronSpec, "error", err)
		os.Exit(1)
	}
	sched.Start()
	logger.Info("scheduler started", "spec", cfg.CronSpec)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	sched.Stop()
}

func startMonitoringServer() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	logger.Info("monitoring server listening", "port", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		logger.Error("monitoring server error", "error", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if healthy, ok := stats["is_healthy"].(bool); ok && !healthy {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

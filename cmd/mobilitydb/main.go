package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urbanlens/mobilitydb/internal/server"
	"github.com/urbanlens/mobilitydb/internal/store"
	"github.com/urbanlens/mobilitydb/pkg/metrics"
	"github.com/urbanlens/mobilitydb/pkg/persistence"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file")
	httpAddr := flag.String("http-addr", "", "Listen address for the REST API (overrides config)")
	logPath := flag.String("log-path", "", "Path of the append-only trip log (overrides config)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		slog.Error("could not load configuration", "error", err)
		os.Exit(1)
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *logPath != "" {
		cfg.LogPath = *logPath
	}

	st := store.New()

	var logWriter *persistence.LogWriter
	if cfg.LogPath != "" {
		n, err := store.LoadFromLog(st, cfg.LogPath)
		if err != nil {
			slog.Error("could not replay trip log", "path", cfg.LogPath, "error", err)
			os.Exit(1)
		}
		if n > 0 {
			slog.Info("dataset restored from log", "path", cfg.LogPath, "records", n)
		}

		logWriter, err = persistence.NewLogWriter(cfg.LogPath)
		if err != nil {
			slog.Error("could not open trip log for writing", "path", cfg.LogPath, "error", err)
			os.Exit(1)
		}
	}
	metrics.TripsTotal.Set(float64(st.TripCount()))

	srv, err := server.NewServer(st, cfg, logWriter)
	if err != nil {
		slog.Error("could not create server", "error", err)
		os.Exit(1)
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(); err != nil {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	<-shutdownChan

	srv.Shutdown()
	if logWriter != nil {
		if err := logWriter.Close(); err != nil {
			slog.Error("could not close trip log", "error", err)
		}
	}
}

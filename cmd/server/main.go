/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the consignment settlement server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (env / config.env), then apply flag overrides
  2. Build the logger
  3. Initialize SQLite store
  4. Create API handler, optionally load the demo scenario
  5. Start the auto-close scheduler (if enabled)
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides HTTP_PORT)
  -db      SQLite database path (overrides DB_PATH)
           Use ":memory:" for in-memory database
  -demo    Load the demo scenario at startup (overrides LOAD_DEMO)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

EXAMPLES:
  ./server -db="./data/consignflow.db"
  ./server -db=":memory:" -demo
  LOG_LEVEL=debug HTTP_PORT=3000 ./server

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/consignflow/api"
	"github.com/warp/consignflow/config"
	"github.com/warp/consignflow/logger"
	"github.com/warp/consignflow/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Flags override the environment
	port := flag.Int("port", cfg.HTTP.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DB.Path, "SQLite database path")
	demo := flag.Bool("demo", cfg.App.LoadDemo, "Load the demo scenario at startup")
	flag.Parse()
	cfg.HTTP.Port = *port
	cfg.DB.Path = *dbPath
	cfg.App.LoadDemo = *demo

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DB.Path).Msg("failed to initialize database")
	}
	defer store.Close()

	handler := api.NewHandler(store, log)

	if cfg.App.LoadDemo {
		if _, err := handler.LoadDemo(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to load demo scenario")
		}
	}

	scheduler := api.NewCloseScheduler(handler.Settlement, cfg.AutoClose.Interval, cfg.AutoClose.Grace, log)
	scheduler.Start()

	router := api.NewRouter(handler, cfg.HTTP.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("env", cfg.App.Env).
			Str("db", cfg.DB.Path).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

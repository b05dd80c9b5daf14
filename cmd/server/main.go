/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the deal analysis engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (optional) and parse command-line flags
  2. Initialize SQLite scenario store
  3. Initialize result cache (Redis when -redis is set, else in-memory)
  4. Create API handler with dependencies
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port     HTTP server port (default: 8080)
  -db       SQLite database path (default: deals.db)
            Use ":memory:" for an in-memory database
  -redis    Redis address for result caching (default: none)
  -config   YAML defaults file overriding built-in assumptions

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/deals.db"

  # Run with Redis result caching
  ./server -redis="localhost:6379"

  # Run with market-specific defaults
  ./server -config="./config/austin.yaml"

ENVIRONMENT:
  PORT, DB_PATH, REDIS_ADDR mirror the flags; flags win. A .env file
  in the working directory is loaded when present.

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Scenario persistence
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"

	"github.com/warp/deal-engine/api"
	"github.com/warp/deal-engine/factory"
	"github.com/warp/deal-engine/store/cache"
	"github.com/warp/deal-engine/store/sqlite"
)

func main() {
	// .env is optional; missing files are fine.
	godotenv.Load()

	// Flags
	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "deals.db"), "SQLite database path")
	redisAddr := flag.String("redis", envStr("REDIS_ADDR", ""), "Redis address for result caching")
	configPath := flag.String("config", "", "YAML defaults file")
	flag.Parse()

	log.DefaultLogger = log.Logger{
		Level:      log.InfoLevel,
		TimeFormat: time.RFC3339,
		Writer:     &log.ConsoleWriter{ColorOutput: false},
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	// Initialize result cache
	var resultCache cache.Cache
	if *redisAddr != "" {
		r := cache.NewRedis(*redisAddr)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := r.Ping(ctx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", *redisAddr).Msg("redis unreachable, falling back to in-memory cache")
			resultCache = cache.NewMemory()
		} else {
			log.Info().Str("addr", *redisAddr).Msg("redis result cache connected")
			resultCache = r
			defer r.Close()
		}
	} else {
		resultCache = cache.NewMemory()
	}

	// Initialize handler
	handler := api.NewHandler(store, resultCache)

	// Optional deployment-wide assumption defaults
	if *configPath != "" {
		cfg, err := factory.LoadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
		}
		handler.Factory.WithConfig(cfg)
		log.Info().Str("path", *configPath).Msg("loaded assumption defaults")
	}

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", *port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

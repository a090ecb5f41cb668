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

	"github.com/joho/godotenv"
	"travel.snapevent.app/internal/appconf"
	"travel.snapevent.app/internal/logging"
)

func main() {
	// A missing .env file is fine; flags and real environment
	// variables still apply.
	_ = godotenv.Load()

	var (
		port         int
		envFlag      string
		apiKeys      string
		rateLimit    int
		googleAPIKey string
		databaseURL  string
		configPath   string
		verbose      bool
		disableCache bool
	)

	flag.IntVar(&port, "port", 4000, "API server port")
	flag.StringVar(&envFlag, "env", "development", "Environment (development|test|production)")
	flag.StringVar(&apiKeys, "api-keys", "test", "Comma separated list of valid API keys")
	flag.IntVar(&rateLimit, "rate-limit", 100, "Requests per second allowed per API key")
	flag.StringVar(&googleAPIKey, "google-api-key", os.Getenv("GOOGLE_MAPS_API_KEY"), "Google Maps API key for the routing gateway")
	flag.StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection URL")
	flag.StringVar(&configPath, "config", "", "Path to a YAML config file overlaying the flags")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&disableCache, "disable-cache", false, "Recompute every schedule read instead of caching")
	flag.Parse()

	cfg := appconf.Config{
		Port:         port,
		Env:          appconf.EnvFlagToEnvironment(envFlag),
		ApiKeys:      ParseAPIKeys(apiKeys),
		Verbose:      verbose,
		RateLimit:    rateLimit,
		GoogleAPIKey: googleAPIKey,
		DatabaseURL:  databaseURL,
		DisableCache: disableCache,
	}

	if configPath != "" {
		if err := appconf.LoadFile(configPath, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
	} else if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg appconf.Config) error {
	coreApp, err := BuildApplication(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if coreApp.DB != nil {
			coreApp.DB.Close()
		}
		coreApp.Metrics.Shutdown()
	}()

	srv, api := CreateServer(coreApp, cfg)
	defer api.Shutdown()

	shutdownErr := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit

		coreApp.Logger.Info("shutting down server", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(ctx)
	}()

	coreApp.Logger.Info("starting server",
		"addr", srv.Addr,
		"env", cfg.Env.String(),
	)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		logging.LogError(coreApp.Logger, "graceful shutdown failed", err)
		return err
	}

	coreApp.Logger.Info("server stopped")
	return nil
}

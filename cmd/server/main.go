package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/citymap/internal/config"
	"github.com/woozymasta/citymap/internal/fetch"
	"github.com/woozymasta/citymap/internal/icons"
	"github.com/woozymasta/citymap/internal/logger"
	"github.com/woozymasta/citymap/internal/mapview"
	"github.com/woozymasta/citymap/internal/registry"
	"github.com/woozymasta/citymap/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string        `short:"c" long:"config"  env:"CONFIG_FILE"    description:"Path to configuration file (built-in Vienna layers if empty)"`
	EnvFile    string        `short:"e" long:"env"     env:"ENV_FILE"       description:"Path to .env file" default:".env"`
	Addr       string        `short:"a" long:"addr"    env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	IconsDir   string        `short:"i" long:"icons"   env:"ICONS_DIR"      description:"Override icon directory"`
	Port       int           `short:"p" long:"port"    env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
	Timeout    time.Duration `short:"t" long:"timeout" env:"FETCH_TIMEOUT"  description:"Override feature fetch timeout"`
}

func main() {
	// .env must be applied before flags read their env defaults
	envFile := envFileFromArgs(os.Args[1:])
	loadedEnv, envErr := config.LoadEnv(envFile)

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	if envErr != nil {
		log.Fatal().Err(envErr).Str("path", envFile).Msg("Failed to load env file")
	}
	if loadedEnv {
		log.Debug().Str("path", envFile).Msg("Environment file loaded")
	}

	// Load Config
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigFile == "" {
		cfg = config.Default()
		log.Info().Msg("Using built-in layer configuration")
	} else if cfg, err = config.Load(opts.ConfigFile); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}
	if opts.IconsDir != "" {
		cfg.IconsDir = opts.IconsDir
	}

	view := mapview.New()
	reg := registry.New(view, cfg.Names()...)
	pipeline := &fetch.Pipeline{
		Loader:        fetch.NewOrchestrator(cfg.Timeout, cfg.MaxBodyBytes),
		Registry:      reg,
		Sources:       cfg.Layers,
		ClusterRadius: cfg.ClusterRadius,
	}

	srvCtx := server.NewServerContext(cfg, reg, view, pipeline, icons.New(cfg.IconsDir))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// layers appear in the registry as their fetches complete
	go func() {
		start := time.Now()
		results := pipeline.LoadAll(ctx)

		failed := 0
		for _, res := range results {
			if res.Err != nil {
				failed++
			}
		}
		log.Info().
			Int("layers_total", len(results)).
			Int("layers_failed", failed).
			Dur("duration", time.Since(start)).
			Msg("Initial layer load finished")
	}()

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	log.Info().
		Str("addr", listenAddr).
		Int("layers_configured", len(cfg.Layers)).
		Int("default_zoom", cfg.Zoom).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Web server stopped")
}

// envFileFromArgs finds --env/-e before full flag parsing.
func envFileFromArgs(args []string) string {
	path := ".env"
	if v, ok := os.LookupEnv("ENV_FILE"); ok {
		path = v
	}
	for i, arg := range args {
		switch {
		case (arg == "-e" || arg == "--env") && i+1 < len(args):
			path = args[i+1]
		case len(arg) > 6 && arg[:6] == "--env=":
			path = arg[6:]
		}
	}
	return path
}

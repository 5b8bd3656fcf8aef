package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/woozymasta/citymap/internal/config"
	"github.com/woozymasta/citymap/internal/fetch"
	"github.com/woozymasta/citymap/internal/layer"
	"github.com/woozymasta/citymap/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string   `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file (built-in Vienna layers if empty)"`
	OutDir     string   `short:"o" long:"out"    env:"OUT_DIR"     description:"Output directory" default:"layers"`
	Format     string   `short:"f" long:"format" env:"OUT_FORMAT"  description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Limit      []string `short:"l" long:"limit"  env:"LIMIT_NAMES" description:"Limit processing to specific layer names"`
	Force      bool     `long:"force"                              description:"Force overwrite of existing files"`
}

func main() {
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	// Filter layers if limit is set
	layersToProcess := cfg.Layers
	if len(opts.Limit) > 0 {
		layersToProcess = make([]config.Layer, 0)
		seen := make(map[string]bool)

		for _, limitName := range opts.Limit {
			if seen[limitName] {
				continue
			}
			seen[limitName] = true

			if l, ok := cfg.Layer(limitName); ok {
				layersToProcess = append(layersToProcess, l)
			} else {
				log.Error().
					Str("name", limitName).
					Msg("Layer specified in --limit not found in configuration")
			}
		}
	}

	ext := ".geojson"
	if opts.Format == "yaml" {
		ext = ".yaml"
	}

	// existing outputs are kept unless forced
	queued := make([]config.Layer, 0, len(layersToProcess))
	for _, l := range layersToProcess {
		path := filepath.Join(opts.OutDir, l.Name+ext)
		if !opts.Force {
			if _, err := os.Stat(path); err == nil {
				log.Info().Str("layer", l.Name).Str("path", path).Msg("Output exists, skipping (use --force)")
				continue
			}
		}
		queued = append(queued, l)
	}

	log.Info().
		Int("layers_total", len(cfg.Layers)).
		Int("layers_queued", len(queued)).
		Str("format", opts.Format).
		Msg("Starting loader")

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", opts.OutDir).Msg("Failed to create output directory")
	}

	pipeline := &fetch.Pipeline{
		Loader:        fetch.NewOrchestrator(cfg.Timeout, cfg.MaxBodyBytes),
		Sources:       queued,
		ClusterRadius: cfg.ClusterRadius,
	}

	failed := 0
	for _, res := range pipeline.LoadAll(context.Background()) {
		if res.Err != nil {
			failed++
			continue
		}

		path := filepath.Join(opts.OutDir, res.Source.Name+ext)
		if err := writeLayer(path, opts.Format, res.Layer); err != nil {
			failed++
			log.Error().Err(err).Str("layer", res.Source.Name).Str("path", path).Msg("Failed to write layer")
			continue
		}
		log.Info().
			Str("layer", res.Source.Name).
			Str("path", path).
			Int("elements", len(res.Layer.Elements)).
			Int("warnings", len(res.Layer.Warnings)).
			Msg("Layer written")
	}

	if failed > 0 {
		log.Fatal().Int("failed", failed).Msg("Loader finished with errors")
	}
	log.Info().Msg("Loader finished successfully")
}

func writeLayer(path, format string, l *layer.Layer) error {
	data, err := json.MarshalIndent(l.GeoJSON(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}

	if format == "yaml" {
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("decode geojson: %w", err)
		}
		if data, err = yaml.Marshal(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/citymap/internal/config"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input    string `short:"i" long:"in"       description:"Input configuration file path. Reads from stdin if empty"`
	Output   string `short:"o" long:"out"      description:"Output file path. Writes to stdout if empty"`
	Format   string `short:"f" long:"format"   description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Defaults bool   `short:"d" long:"defaults" description:"Print the built-in configuration and ignore input"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "Validate a citymap layer configuration"
	parser.LongDescription = "Validates a citymap configuration file and prints it normalized " +
		"with built-in defaults applied, as JSON or YAML."
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	cfg := config.Default()
	if !opts.Defaults {
		var inputData []byte
		var err error

		if opts.Input != "" {
			inputData, err = os.ReadFile(opts.Input)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
				os.Exit(1)
			}
		} else {
			inputData, err = io.ReadAll(os.Stdin)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
				os.Exit(1)
			}
		}

		cfg, err = config.Parse(inputData)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration:\n%v\n", err)
			os.Exit(1)
		}
	}

	outputData, err := encode(cfg, opts.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully converted %d layers to %s (format: %s)\n", len(cfg.Layers), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}

func encode(cfg *config.Config, format string) ([]byte, error) {
	if format == "yaml" {
		return yaml.Marshal(cfg)
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// cmd/watchparser/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chronoview/watchparser/internal/config"
	"github.com/chronoview/watchparser/internal/errors"
	"github.com/chronoview/watchparser/internal/output"
	"github.com/chronoview/watchparser/internal/parser"
	"github.com/chronoview/watchparser/internal/utils"
	"github.com/chronoview/watchparser/pkg/types"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

var errorService = errors.NewService()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "usage: watchparser run <config.yaml> <export.html>")
			os.Exit(1)
		}
		runParser(os.Args[2], os.Args[3])
	case "validate":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: watchparser validate <config.yaml>")
			os.Exit(1)
		}
		validateConfig(os.Args[2])
	case "template":
		generateTemplate(os.Args[2:])
	case "version":
		fmt.Printf("watchparser %s (built %s, commit %s)\n", version, buildTime, gitCommit)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`watchparser - watch history export parser

Usage:
  watchparser run <config.yaml> <export.html>   parse an export and write records
  watchparser validate <config.yaml>            check a configuration file
  watchparser template [--type basic|strict|permissive]
  watchparser version

Flags:
  -v, --verbose    include technical error details`)
}

func runParser(configFile, inputFile string) {
	verbose := hasFlag("-v") || hasFlag("--verbose")
	errorService = errorService.WithVerbose(verbose)

	if err := executeParse(configFile, inputFile, verbose); err != nil {
		fmt.Fprint(os.Stderr, errorService.FormatErrorForCLI(err))
		os.Exit(errorService.GetExitCode(err))
	}
}

func executeParse(configFile, inputFile string, verbose bool) error {
	cfg, err := config.LoadFromFile(configFile)
	if err != nil {
		return err
	}

	level := utils.ParseLogLevel(cfg.Logging.Level)
	if verbose {
		level = utils.DebugLevel
	}
	log := utils.NewLoggerWithLevel(level)

	data, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	engine, err := parser.NewEngine(cfg,
		parser.WithLogger(log),
		parser.WithProgress(func(event types.ProgressEvent) {
			log.Infof("progress: %d/%d (%.1f%%)",
				event.ProcessedCount, event.TotalEstimate, event.Percentage)
		}),
	)
	if err != nil {
		return err
	}

	// Cancellation maps SIGINT to a cooperative stop: partial results
	// are still written below.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := engine.Parse(ctx, string(data))
	if err != nil {
		return err
	}
	if result.Cancelled {
		log.Warn("parse cancelled; writing partial results")
	}

	sink, err := output.NewWriter(cfg.Output)
	if err != nil {
		return err
	}
	defer sink.Close()

	if err := sink.Write(result.Records, result.Stats); err != nil {
		return fmt.Errorf("output write failed: %w", err)
	}

	fmt.Printf("parsed %d entries (%d with timestamp, %d without, %d skipped) -> %s\n",
		result.Stats.TotalEntries,
		result.Stats.EntriesWithTimestamp,
		result.Stats.EntriesWithoutTimestamp,
		result.Stats.SkippedFragments,
		cfg.Output.File)
	return nil
}

func validateConfig(configFile string) {
	verbose := hasFlag("-v") || hasFlag("--verbose")
	errorService = errorService.WithVerbose(verbose)

	if _, err := config.LoadFromFile(configFile); err != nil {
		fmt.Fprint(os.Stderr, errorService.FormatErrorForCLI(err))
		os.Exit(errorService.GetExitCode(err))
	}

	fmt.Printf("Configuration file '%s' is valid\n", configFile)
}

func generateTemplate(args []string) {
	templateType := "basic"
	if len(args) > 1 && args[0] == "--type" {
		templateType = args[1]
	}

	template := config.GenerateTemplate(templateType)
	if err := config.SaveToWriter(template, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "failed to render template: %v\n", err)
		os.Exit(1)
	}
}

func hasFlag(flag string) bool {
	for _, arg := range os.Args {
		if arg == flag {
			return true
		}
	}
	return false
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diegorribeiro/metaclean/internal"
	"github.com/diegorribeiro/metaclean/internal/processor"
	"github.com/diegorribeiro/metaclean/pkg/logger"
)

var log = logger.Get("Main")

// main is the terminal presentation shell over the cleaning core. It
// plays the role the original tool gave its file picker window: take
// the user's file selections, run one Process call per file, and show
// a pass/fail line for each. Ctrl-C cancels the in-flight operation
// (terminating a running ffmpeg child).
func main() {
	configPath := flag.String("config", "metaclean.yaml", "path to the optional YAML configuration file")
	ffmpegPath := flag.String("ffmpeg", "", "explicit path to the ffmpeg binary (overrides config)")
	timeout := flag.Duration("timeout", 0, "per-file remux timeout override (0 uses config value)")
	verbose := flag.Bool("verbose", false, "emit debug logging")
	flag.Parse()

	if *verbose {
		logger.SetMinLoggingLevel(logger.VERBOSE.Level())
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] FILE [FILE...]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	config := internal.MetaCleanConfig{}
	if err := config.LoadFromFile(*configPath); err != nil {
		log.Emit(logger.FATAL, "Cannot load configuration: %s\n", err.Error())
		os.Exit(1)
	}

	if *ffmpegPath != "" {
		config.FfmpegBinPath = *ffmpegPath
	}
	if *timeout > time.Duration(0) {
		config.RemuxTimeout = *timeout
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	metaClean := internal.New(config)
	metaClean.Startup(ctx)

	failures := 0
	for _, sourcePath := range flag.Args() {
		result := metaClean.Process(ctx, sourcePath)
		report(result)

		if !result.Successful() {
			failures++
		}

		if ctx.Err() != nil {
			log.Emit(logger.STOP, "Interrupted, abandoning remaining files\n")
			break
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
}

func report(result processor.OperationResult) {
	if result.Successful() {
		log.Emit(logger.SUCCESS, "%s: %s\n", result.SourcePath, result.Message())
		return
	}

	log.Emit(logger.ERROR, "%s: %s\n", result.SourcePath, result.Message())
}

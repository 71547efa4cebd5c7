/*
Package main trains an n-gram next-word predictor on a review corpus and
either reports how well it predicts held-out text or serves predictions
over msgpack IPC.

# Usage

Train on the configured range and report accuracy and keystroke savings:

	wordpredict -config ./config.toml

Override the model order and corpus for a quick comparison:

	wordpredict -n 2 -data data/reviews.jsonl
	wordpredict -n 4 -smoothing none

Serve predictions on stdin/stdout after training:

	wordpredict -serve

Type sentences by hand and see what the model predicts next:

	wordpredict -c

# Configuration

Options live in a TOML file. The default file is created on first run:

	[model]
	n = 3
	smoothing = "add_one"
	top_n = 10

	[corpus]
	path = "data/reviews.jsonl"
	train_start = 0
	train_end = 10000
	test_start = 10000
	test_end = 11000
	skip_tokens = 5

	[eval]
	accuracy_k = 10
	top_rank = 1
	workers = 0
	progress = true

	[server]
	max_limit = 64

# Report

Accuracy is the share of test words found among the first accuracy_k
predictions. Keystroke savings replays typing each test word character by
character and credits the fraction of characters left untyped once the word
is among the top_rank predictions sharing the typed prefix.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/wordpredict/internal/cli"
	"github.com/bastiangx/wordpredict/internal/logger"
	"github.com/bastiangx/wordpredict/internal/utils"
	"github.com/bastiangx/wordpredict/pkg/config"
	"github.com/bastiangx/wordpredict/pkg/corpus"
	"github.com/bastiangx/wordpredict/pkg/experiment"
	"github.com/bastiangx/wordpredict/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "wordpredict"
)

// sigContext is canceled on interrupt so long runs stop between predictions.
func sigContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func showVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
	})
	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Printf("[ %s ] n-gram next word prediction", AppName)
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
}

// main only manages the flow; training, evaluation and IPC live in pkg/.
func main() {
	configPath := flag.String("config", "", "Path to a TOML config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	serveMode := flag.Bool("serve", false, "Serve predictions over msgpack IPC on stdin/stdout")
	cliMode := flag.Bool("c", false, "Run CLI -- type sentences and see predictions")
	version := flag.Bool("version", false, "Show current version")
	rebuild := flag.Bool("rebuild-config", false, "Write a fresh default config file and exit")
	n := flag.Int("n", 0, "Override model.n (context window size)")
	smoothing := flag.String("smoothing", "", "Override model.smoothing (add_one|none)")
	topN := flag.Int("top", -1, "Override model.top_n (predictions per context)")
	dataPath := flag.String("data", "", "Override corpus.path")
	flag.Parse()

	if *version {
		showVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	log.SetOutput(os.Stderr)

	if *rebuild {
		path, err := config.RebuildConfigFile()
		if err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Infof("Wrote default config to %s", path)
		return
	}

	cfg, usedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(usedPath))

	if *n > 0 {
		cfg.Model.N = *n
	}
	if *smoothing != "" {
		cfg.Model.Smoothing = *smoothing
	}
	if *topN >= 0 {
		cfg.Model.TopN = *topN
	}
	if *dataPath != "" {
		cfg.Corpus.Path = *dataPath
	}
	cfg.Corpus.Path = utils.ResolvePath(cfg.Corpus.Path)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx, stop := sigContext()
	defer stop()

	src := corpus.NewJSONLSource(cfg.Corpus.Path)

	if *serveMode {
		runServer(src, cfg)
		return
	}
	if *cliMode {
		runCLI(src, cfg)
		return
	}
	runEval(ctx, src, cfg)
}

func runServer(src corpus.Source, cfg *config.Config) {
	predictor, err := experiment.Train(src, cfg, logger.New("train"))
	if err != nil {
		log.Fatalf("Failed to train: %v", err)
	}
	srv := server.NewServer(predictor, cfg, os.Stdin, os.Stdout)
	log.Info("status: ready", "pid", os.Getpid(), "n", cfg.Model.N)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// runCLI is mainly for testing and dbg purposes.
func runCLI(src corpus.Source, cfg *config.Config) {
	predictor, err := experiment.Train(src, cfg, logger.New("train"))
	if err != nil {
		log.Fatalf("Failed to train: %v", err)
	}
	log.SetReportTimestamp(false)
	if err := cli.NewInputHandler(predictor, cfg.Model.TopN, os.Stdin).Start(); err != nil {
		log.Fatalf("CLI error: %v", err)
	}
}

func runEval(ctx context.Context, src corpus.Source, cfg *config.Config) {
	report, err := experiment.Run(ctx, src, cfg, logger.New("eval"))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nExiting...")
			os.Exit(130)
		}
		log.Fatalf("Run failed: %v", err)
	}

	log.Info("Report",
		"n", report.N,
		"pairs", utils.FormatWithCommas(report.Pairs),
		"elapsed", report.Elapsed.Round(time.Millisecond))
	fmt.Printf("Accuracy@%d is %s for n = %d\n", report.AccuracyK, utils.FormatPercent(report.Accuracy), report.N)
	fmt.Printf("Keystroke savings (top %d) is %.4f for n = %d\n", report.TopRank, report.KeystrokeSavings, report.N)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/FayezBast/jarvis/internal/ai"
	"github.com/FayezBast/jarvis/internal/analyzer"
	"github.com/FayezBast/jarvis/internal/config"
	"github.com/FayezBast/jarvis/internal/core"
	"github.com/FayezBast/jarvis/internal/db"
	"github.com/FayezBast/jarvis/internal/executor"
	"github.com/FayezBast/jarvis/internal/files"
	"github.com/FayezBast/jarvis/internal/memory"
	"github.com/FayezBast/jarvis/internal/trace"
	"github.com/FayezBast/jarvis/internal/ui"
)

var (
	version     = "1.0.0"
	configPath  string
	dbPath      string
	offline     bool
	verbose     bool
	showVersion bool
)

func init() {
	flag.StringVar(&configPath, "config", config.GetConfigPath(), "Path to configuration file")
	flag.StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")
	flag.BoolVar(&offline, "offline", false, "Disable the generative fallback tier")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("JARVIS v%s\n", version)
		fmt.Println("Natural-language personal assistant")
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	logger := buildLogger(verbose)
	defer logger.Sync()

	database, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()

	var gen ai.TextGenerator
	if !offline && cfg.GeminiAPIKey != "" {
		client, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("gemini unavailable, running rule-only", zap.Error(err))
		} else {
			gen = client
		}
	}

	opts := []analyzer.Option{
		analyzer.WithLogger(logger),
		analyzer.WithTrace(trace.New(cfg.TracePath)),
		analyzer.WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second),
	}
	if gen != nil {
		opts = append(opts, analyzer.WithGenerator(ai.NewFallbackAdapter(gen, logger)))
	}
	a := analyzer.New(opts...)

	mem := memory.NewStore(database.Conn())
	writer := files.NewWriter(cfg.WorkspaceDir, ai.NewContentGenerator(gen, logger), logger)
	runner := executor.NewRunner(mem, writer, cfg.AppAliases, cfg.WorkspaceDir, logger)
	c := core.New(a, runner, mem, database, logger)

	repl := ui.NewREPL(c, database, mem)

	if args := flag.Args(); len(args) > 0 {
		repl.ExecuteNonInteractive(ctx, strings.Join(args, " "))
		return
	}

	if err := repl.Start(ctx); err != nil {
		logger.Error("repl failed", zap.Error(err))
		os.Exit(1)
	}
}

func buildLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

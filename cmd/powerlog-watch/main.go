package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/decksage/powerlog/internal/archive"
	"github.com/decksage/powerlog/internal/config"
	"github.com/decksage/powerlog/internal/game/state"
	"github.com/decksage/powerlog/internal/game/watchers"
	"github.com/decksage/powerlog/internal/powerlog"
	"github.com/decksage/powerlog/internal/repository"
	"github.com/decksage/powerlog/internal/server"
	"github.com/decksage/powerlog/internal/tail"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/powerlog.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting powerlog-watch",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.String("log_path", cfg.Log.Path),
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("powerlog-watch stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("powerlog-watch stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	// Create context that ends on termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	game := state.NewGame(logger.Named("state"), cfg.Parser.LocalPlayerID)
	bus := powerlog.NewEventBus()
	parser := powerlog.NewParser(game, state.NewResolver(game), powerlog.NewZapReporter(logger), bus, logger.Named("parser"))

	registry := watchers.NewRegistry()
	blocks := watchers.NewBlockCountWatcher()
	played := watchers.NewPlayedCardsWatcher()
	registry.Add(blocks)
	registry.Add(played)
	registry.Attach(bus)
	defer registry.Detach()

	bus.SubscribeTyped(powerlog.EventGameComplete, func(e powerlog.Event) {
		logger.Info("match summary",
			zap.String("match_id", e.MatchID),
			zap.Int("blocks", blocks.Total()),
			zap.Int("max_depth", blocks.MaxDepth()),
			zap.Strings("local_played", played.Played(state.SideLocal)),
			zap.Strings("opponent_played", played.Played(state.SideOpponent)),
		)
	})

	var sinks []archive.Sink
	if cfg.Database.Enabled {
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)

		repo := repository.NewMatchRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, repo)
	}

	archiveDir := ""
	if cfg.Archive.Enabled {
		archiveDir = cfg.Archive.Dir
	}
	var recorder *archive.Recorder
	if archiveDir != "" || len(sinks) > 0 {
		recorder = archive.NewRecorder(game, archiveDir, logger, sinks...)
		recorder.Attach(bus)
		recorder.Start(ctx)
		logger.Info("match archive enabled",
			zap.String("dir", archiveDir),
			zap.Int("sinks", len(sinks)),
		)
	}

	if cfg.Server.WebSocket.Enabled {
		hub := server.NewHub(logger)
		go hub.Run(ctx)
		hub.Relay(bus)
		go func() {
			if wsErr := server.StartWebSocketServer(ctx, cfg.Server.WebSocket, hub, logger); wsErr != nil {
				logger.Error("WebSocket server error", zap.Error(wsErr))
			}
		}()
	}

	lines := make(chan string, 1024)
	tailErr := make(chan error, 1)
	go func() {
		defer close(lines)
		tailErr <- tail.Follow(ctx, cfg.Log.Path, tail.Options{
			FromStart: cfg.Log.FromStart,
			Follow:    cfg.Log.Follow,
			Logger:    logger,
		}, lines)
	}()

	driveErr := powerlog.Drive(ctx, parser, lines, cfg.Parser.StopOnFatal, logger)

	// the tailer exits on its own once ctx ends; unblock it after a fatal stop
	stop()
	for range lines {
	}
	if recorder != nil {
		recorder.Close()
	}

	if err := <-tailErr; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("tail %s: %w", cfg.Log.Path, err)
	}
	if driveErr != nil && !errors.Is(driveErr, context.Canceled) {
		return driveErr
	}

	logger.Info("log processing finished",
		zap.Int("lines", parser.LinesProcessed()),
		zap.String("match_id", parser.MatchID()),
	)
	return nil
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

package main

import (
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mmr-balancer/internal/cache"
	"mmr-balancer/internal/config"
	"mmr-balancer/internal/console"
	"mmr-balancer/internal/handlers"
	"mmr-balancer/internal/importer"
	"mmr-balancer/internal/logging"
	"mmr-balancer/internal/rating"
	"mmr-balancer/internal/repository"
	"mmr-balancer/internal/scheduler"
	"mmr-balancer/internal/service"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const snapshotInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(2)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Exiting with error.", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.Migrate(db, repository.Migrations(), logger); err != nil {
		return fmt.Errorf("db migration failed: %w", err)
	}

	playerRepo := repository.NewPlayerRepo(db)
	if _, err := importer.New(playerRepo, logger).LoadIfEmpty(cfg.ImportPath); err != nil {
		return fmt.Errorf("importing players: %w", err)
	}

	updater := rating.NewUpdater(playerRepo, logger)
	matchService := service.NewMatchService(playerRepo, updater, logger)

	if !cfg.BotMode() {
		return console.NewSession(matchService, os.Stdin, os.Stdout).Run()
	}
	return runBot(cfg, logger, playerRepo, matchService)
}

func runBot(cfg *config.Config, logger *zap.Logger, playerRepo *repository.PlayerRepo, matchService *service.MatchService) error {
	pending := cache.NewPendingLineups()
	if err := pending.LoadFromFile(cfg.PendingCachePath); err != nil {
		logger.Warn("Could not restore pending lineups.", zap.String("path", cfg.PendingCachePath), zap.Error(err))
	}

	sched := scheduler.NewScheduler(pending, cfg.PendingCachePath, cfg.PendingTTL, snapshotInterval, logger)
	sched.Start()
	defer sched.Stop()

	authService := service.NewAuthService(cfg.DevIDs)
	lineupService := service.NewLineupService(matchService, pending, authService, logger)
	ladderService := service.NewLadderService(playerRepo)

	b, err := gotgbot.NewBot(cfg.BotToken, nil)
	if err != nil {
		return err
	}

	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *gotgbot.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			logger.Error("Failed to handle update.", zap.Error(err))
			return ext.DispatcherActionNoop
		},
		// results must be applied one match at a time
		MaxRoutines: 1,
	})
	updater := ext.NewUpdater(dispatcher, &ext.UpdaterOpts{})

	dispatcher.AddHandler(handlers.GetBalanceCommand(lineupService))
	dispatcher.AddHandler(handlers.GetResultCommand(lineupService))
	dispatcher.AddHandler(handlers.GetHelpCommand(lineupService))
	dispatcher.AddHandler(handlers.GetLadderCommand(ladderService))
	dispatcher.AddHandler(handlers.GetLadderCallback(ladderService))

	err = updater.StartPolling(b, &ext.PollingOpts{
		DropPendingUpdates:    false,
		EnableWebhookDeletion: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}
	logger.Info("Bot started.", zap.String("username", b.User.Username))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down.")
		if err := updater.Stop(); err != nil {
			logger.Warn("Failed to stop updater.", zap.Error(err))
		}
	}()

	updater.Idle()
	return nil
}

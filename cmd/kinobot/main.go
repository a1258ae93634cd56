package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	coreconfig "kinobot/core/config"
	"kinobot/core/logger"
	tg "kinobot/core/telegram"
	"kinobot/core/telegram/state"
	"kinobot/internal/bot"
	"kinobot/internal/catalog"
	"kinobot/internal/conv"
	"log/slog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "kinobot:", err)
		os.Exit(1)
	}
}

func run() error {
	// Local development convenience, absent .env is fine.
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := coreconfig.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Shutdown() }()

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	sessions := state.NewMemoryManager()
	machine := conv.NewMachine(store, sessions, conv.AcceptAllChecker(), cfg.Admin.Username)
	reg, routes := bot.New(cfg, machine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.L.Info("bot ready",
		slog.String("event", "ready"),
		slog.String("storage", cfg.Storage.Driver),
		slog.String("run_mode", cfg.Telegram.RunMode),
	)

	return tg.RunTelegram(ctx, tg.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(cfg, nil),
		Routes:      routes,
	})
}

func openStore(cfg *coreconfig.Config) (catalog.Store, error) {
	switch cfg.Storage.Driver {
	case coreconfig.DriverPostgres:
		return catalog.NewPostgresStore(cfg.Storage.Postgres)
	default:
		return catalog.NewSnapshotStore(cfg.Storage.MoviesFile, cfg.Storage.PartnersFile)
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	tele "gopkg.in/telebot.v4"

	"github.com/aestyle/namestyler/core/buildinfo"
	coreconfig "github.com/aestyle/namestyler/core/config"
	coredatabase "github.com/aestyle/namestyler/core/database"
	"github.com/aestyle/namestyler/core/logger"
	tg "github.com/aestyle/namestyler/core/telegram"
	"github.com/aestyle/namestyler/core/telegram/middleware"
	"github.com/aestyle/namestyler/core/telegram/state"
	"github.com/aestyle/namestyler/internal/bot"
	"github.com/aestyle/namestyler/internal/health"
	"github.com/aestyle/namestyler/internal/store"
	"github.com/aestyle/namestyler/internal/styler"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments pass env directly.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := coreconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.InitLogger(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Shutdown() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbCfg := databaseConfig(cfg)
	db, err := coredatabase.Connect(dbCfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close() }()
	if err := coredatabase.RunMigrations(dbCfg); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	credentials := store.NewPostgresCredentials(db)
	users := store.NewPostgresUsers(db)

	var sessions store.Sessions
	switch cfg.Sessions.Backend {
	case coreconfig.SessionsBackendRedis:
		rs, err := store.NewRedisSessions(ctx, cfg.Sessions.RedisURL, cfg.Sessions.TTL())
		if err != nil {
			return fmt.Errorf("connect redis sessions: %w", err)
		}
		defer func() { _ = rs.Close() }()
		sessions = rs
	default:
		sessions = store.NewPostgresSessions(db)
	}

	notifier := bot.NewNotifier(cfg.Telegram.AdminID)
	styling := styler.New(credentials, styler.NewGeminiProvider(cfg.Gemini), styler.Options{
		AttemptTimeout: cfg.Gemini.RequestTimeout(),
		RetryAllErrors: cfg.Gemini.RetryAllErrors,
		Notifier:       notifier,
	})

	handlers := bot.NewHandlers(bot.Deps{
		Config:      cfg,
		Credentials: credentials,
		Sessions:    sessions,
		Users:       users,
		Styler:      styling,
		FSM:         state.NewMemoryManager(),
	})
	registry := bot.BuildRegistry(handlers)

	statsJob := bot.NewStatsJob(users, notifier)

	if cfg.Health.Enabled {
		go func() {
			if err := health.NewServer(cfg.Health.Port).Run(ctx); err != nil {
				logger.HEALTH.Error("health server failed", slog.String("err", err.Error()))
			}
		}()
	}

	return tg.RunTelegram(ctx, tg.RunOptions{
		Config:   cfg,
		Registry: registry,
		Middlewares: []tg.Middleware{
			{Name: "rate_limit", Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval: time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
			})},
		},
		Routes: handlers.Routes(registry),
		OnStart: func(ctx context.Context, b *tele.Bot) error {
			notifier.Bind(b)
			if err := statsJob.Start(); err != nil {
				return err
			}
			logger.L.Info("namestyler started",
				slog.String("version", buildinfo.Version),
				slog.String("commit", buildinfo.Commit),
			)
			return nil
		},
		OnStop: func(ctx context.Context, b *tele.Bot) error {
			statsJob.Stop()
			return nil
		},
	})
}

func databaseConfig(cfg *coreconfig.Config) coredatabase.Config {
	return coredatabase.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		Name:           cfg.Database.Name,
		SSLMode:        cfg.Database.SSLMode,
		MaxConnections: cfg.Database.MaxConnections,
	}
}

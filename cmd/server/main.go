package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/jurybot/internal/assets"
	"github.com/playperu/jurybot/internal/chat"
	"github.com/playperu/jurybot/internal/config"
	"github.com/playperu/jurybot/internal/database"
	"github.com/playperu/jurybot/internal/handler/health"
	"github.com/playperu/jurybot/internal/metrics"
	"github.com/playperu/jurybot/internal/migrations"
	"github.com/playperu/jurybot/internal/roster"
	"github.com/playperu/jurybot/internal/server"
	"github.com/playperu/jurybot/internal/store"
	"github.com/playperu/jurybot/internal/telegram"
	"github.com/playperu/jurybot/internal/voting"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := cfg.Logger(stdout)
	m := metrics.New()

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db, logger); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	checks := map[string]health.Checker{"sqlite": database.Checker{DB: db}}
	stores := store.Fanout{store.NewDocStore(db)}

	// --- Redis ---
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis")

		stores = append(stores, store.NewRedisStore(rdb, ""))
		checks["redis"] = health.CheckFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	// --- State ---
	doc, found, err := stores.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}
	logger.Info("document loaded", "found", found, "artists", len(doc.Artists))

	mirror := store.NewMirror(stores, logger)
	mirror.OnError = m.PersistFailed

	var assetStore voting.AssetStore = assets.Disabled{}
	if cfg.Cloudinary.Enabled() {
		cld, err := assets.NewCloudinary(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, logger)
		if err != nil {
			return fmt.Errorf("configuring cloudinary: %w", err)
		}
		assetStore = cld
	} else {
		logger.Warn("cloudinary not configured, picture uploads are disabled")
	}

	// --- Telegram ---
	bot, err := telegram.New(cfg.Token, logger)
	if err != nil {
		return err
	}

	feed := server.NewBroker()
	notifier := chat.NewNotifier(bot, logger)
	notifier.OnFailure = m.DeliveryFailed

	svc := voting.New(doc, voting.Options{
		Logger:     logger,
		Notifier:   voting.MultiNotifier{notifier, feed},
		Persister:  mirror,
		Observer:   m,
		Assets:     assetStore,
		BcryptCost: cfg.BcryptCost,
	})
	if err := seed(ctx, svc, cfg, logger); err != nil {
		return err
	}
	dispatcher := chat.NewDispatcher(svc, bot, logger)

	var secret string
	if cfg.WebhookURL != "" {
		secret = cfg.Token
		url := strings.TrimRight(cfg.WebhookURL, "/") + "/telegram/" + secret
		if err := bot.SetWebhook(ctx, url); err != nil {
			return err
		}
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Service:       svc,
		Updates:       dispatcher,
		Feed:          feed,
		Metrics:       m,
		Checks:        checks,
		WebhookSecret: secret,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	// The mirror outlives the update sources so their last writes are flushed.
	mirrorCtx, stopMirror := context.WithCancel(context.Background())
	defer stopMirror()
	g.Go(func() error {
		return mirror.Run(mirrorCtx)
	})

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	pollDone := make(chan struct{})
	if secret == "" {
		g.Go(func() error {
			defer close(pollDone)
			return bot.Poll(gctx, dispatcher.Handle)
		})
	} else {
		close(pollDone)
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		err := srv.Shutdown(context.Background())
		<-pollDone
		stopMirror()
		return err
	})

	return g.Wait()
}

// seed installs the configured secrets and the optional roster file.
func seed(ctx context.Context, svc *voting.Service, cfg *config.Config, logger *slog.Logger) error {
	if err := svc.SeedCredentials(ctx, cfg.PasswordPopular, cfg.PasswordTechnical, cfg.PasswordOwner); err != nil {
		return fmt.Errorf("seeding credentials: %w", err)
	}
	if cfg.ArtistsFile == "" {
		return nil
	}
	artists, err := roster.Load(cfg.ArtistsFile)
	if err != nil {
		return fmt.Errorf("loading roster: %w", err)
	}
	n, err := svc.SeedArtists(ctx, artists)
	if err != nil {
		return fmt.Errorf("seeding roster: %w", err)
	}
	logger.Info("roster seeded", "file", cfg.ArtistsFile, "added", n)
	return nil
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"amanda-bot/internal/ai"
	"amanda-bot/internal/bot"
	"amanda-bot/internal/config"
	"amanda-bot/internal/database"
	"amanda-bot/internal/economy"
	"amanda-bot/internal/locales"
	"amanda-bot/pkg/transport"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.AppEnv,
			Release:     cfg.Version,
			Debug:       cfg.Debug,
		})
		if err != nil {
			log.Fatalf("sentry.Init: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	locales.Init(cfg.DefaultLanguage)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := database.ConnectDB(ctx, cfg)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Printf("ERROR: MongoDB disconnect: %v", err)
		}
	}()

	userRepo := database.NewUserRepository(db)
	groupRepo, err := database.NewGroupRepository(ctx, db)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to load groups: %v", err)
	}
	bankRepo := database.NewBankRepository(db)
	transferRepo := database.NewTransferRepository(db)
	messageRepo := database.NewMessageRepository(db)
	historyRepo := database.NewHistoryRepository(db)

	svc := economy.NewService(userRepo, groupRepo, bankRepo, transferRepo, cfg.Economy, nil, nil)
	router := economy.NewRouter(svc, groupRepo, userRepo)

	personas := ai.NewPersonaStore(cfg.PersonaDir)
	var aiClient *ai.Client
	aiClient, err = ai.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, personas, historyRepo)
	if err != nil {
		if !errors.Is(err, ai.ErrDisabled) {
			sentry.CaptureException(err)
			log.Fatalf("Failed to create AI client: %v", err)
		}
		aiClient = nil
	} else {
		defer aiClient.Close()
	}

	t := transport.NewConsole(os.Stdin, os.Stdout)

	b := bot.New(t, router, aiClient, groupRepo, messageRepo, cfg)

	log.Printf("%s %s starting (env: %s, workers: %d)", cfg.BotName, cfg.Version, cfg.AppEnv, cfg.Workers)
	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		sentry.CaptureException(err)
		log.Fatalf("Bot stopped: %v", err)
	}
	log.Println("Shutdown complete")
}

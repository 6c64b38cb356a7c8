package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/adgate/internal/application/adsession"
	"github.com/adgate/internal/application/impression"
	"github.com/adgate/internal/application/transfer"
	"github.com/adgate/internal/application/verification"
	"github.com/adgate/internal/config"
	"github.com/adgate/internal/infrastructure/dynamo"
	jwtinfra "github.com/adgate/internal/infrastructure/jwt"
	"github.com/adgate/internal/infrastructure/richads"
	s3infra "github.com/adgate/internal/infrastructure/s3"
	"github.com/adgate/internal/infrastructure/sns"
	tginfra "github.com/adgate/internal/infrastructure/telegram"
	"github.com/adgate/internal/transport/bot"
	transporthttp "github.com/adgate/internal/transport/http"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	sessionRepo := dynamo.NewAdSessionRepo(dynamoClient, cfg.DynamoTables.AdSessions)
	codeRepo := dynamo.NewCodeRepo(dynamoClient, cfg.DynamoTables.VerificationCodes)
	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)

	// Monetization event fan-out (optional, best effort anyway).
	var events sns.Publisher
	if cfg.EventsTopicARN != "" {
		p, err := sns.NewPublisher(cfg)
		if err != nil {
			log.Printf("WARN: events publisher not available: %v", err)
		} else {
			events = p
		}
	}

	// S3 media staging (optional).
	var stage *s3infra.Store
	if cfg.StagingBucket != "" {
		stage = s3infra.NewStore(s3infra.NewClient(cfg), cfg.StagingBucket)
	}

	// Admin JWT (optional, stats endpoint disabled without it).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: admin JWT not available, stats endpoint disabled: %v", err)
	}

	sessionSvc := adsession.NewService(sessionRepo, codeRepo, events, cfg.AdLandingURL, cfg.BotDomain)
	verifySvc := verification.NewService(codeRepo, userRepo, events)
	adsClient := richads.NewClient(richads.Config{
		APIURL:      cfg.AdAPIURL,
		PublisherID: cfg.AdPublisherID,
		WidgetID:    cfg.AdWidgetID,
		Production:  cfg.AdProduction,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	updates := tg.NewUpdateDispatcher()
	client := telegram.NewClient(cfg.TelegramAppID, cfg.TelegramAppHash, telegram.Options{
		UpdateHandler: updates,
	})

	err := client.Run(ctx, func(ctx context.Context) error {
		status, err := client.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("auth status: %w", err)
		}
		if !status.Authorized {
			if _, err := client.Auth().Bot(ctx, cfg.TelegramBotToken); err != nil {
				return fmt.Errorf("bot login: %w", err)
			}
		}
		api := client.API()

		messenger := tginfra.NewMessenger(api)
		dispatcher := impression.NewDispatcher(
			userRepo, adsClient, messenger, events,
			impression.DefaultFallback(cfg.AdFallbackLink), cfg.AdCooldown,
		)
		media := transfer.NewService(api, transfer.NewTuner(), stage)

		handler := bot.NewHandler(sessionSvc, verifySvc, dispatcher, messenger, media)
		updates.OnNewMessage(handler.OnNewMessage)

		router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
			AdSessions:  sessionSvc,
			Dispatcher:  dispatcher,
			Tiers:       userRepo,
			JWTProvider: jwtProvider,
		})
		srv := &http.Server{
			Addr:         ":" + cfg.HTTPPort,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Printf("Callback server starting on :%s (env=%s)", cfg.HTTPPort, cfg.AppEnv)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("server error: %v", err)
			}
		}()

		log.Println("Bot is up")
		<-ctx.Done()

		log.Println("Shutting down...")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("forced shutdown: %v", err)
		}
		return ctx.Err()
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("client error: %v", err)
	}
	log.Println("Stopped")
}

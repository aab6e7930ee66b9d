package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shashibhushan21/Chat-App32/internal/chat"
	"github.com/shashibhushan21/Chat-App32/internal/config"
	"github.com/shashibhushan21/Chat-App32/internal/database"
	"github.com/shashibhushan21/Chat-App32/internal/handlers"
	"github.com/shashibhushan21/Chat-App32/internal/routes"
	"github.com/shashibhushan21/Chat-App32/internal/storage"
	"github.com/shashibhushan21/Chat-App32/internal/store"
	"github.com/shashibhushan21/Chat-App32/internal/utils"
	"github.com/shashibhushan21/Chat-App32/internal/ws"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogger(cfg.LogLevel)

	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().Msg("database connection established")

	uploader, err := storage.NewUploader(ctx, cfg.AWS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create uploader")
	}

	// Stores and services, constructed once and injected
	userStore := store.NewUserStore(pool)
	messageStore := store.NewMessageStore(pool)
	tokens := utils.NewTokenManager(cfg.JWTSecret)

	hub := ws.NewHub(log.Logger)
	go hub.Run()

	chatService := chat.NewService(messageStore, hub, log.Logger)

	app := fiber.New(fiber.Config{
		AppName:   "Chat-App32",
		BodyLimit: 40 * 1024 * 1024, // base64 image payloads
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.ClientOrigin,
		AllowCredentials: true,
	}))

	routes.Setup(app, routes.Handlers{
		Auth:      handlers.NewAuthHandler(userStore, tokens, uploader, log.Logger),
		Contacts:  handlers.NewContactHandler(userStore, hub),
		Messages:  handlers.NewMessageHandler(chatService, uploader),
		WebSocket: handlers.NewWebSocketHandler(hub),
		Tokens:    tokens,
	})

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("server forced to shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// setupLogger configures the global zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

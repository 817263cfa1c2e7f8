package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/stegavox/stegavox/adapters"
	"github.com/stegavox/stegavox/adapters/carrier"
	mongoadapter "github.com/stegavox/stegavox/adapters/mongo"
	"github.com/stegavox/stegavox/adapters/stt"
	"github.com/stegavox/stegavox/domain/repositories"
	"github.com/stegavox/stegavox/internal/api"
	"github.com/stegavox/stegavox/usecase"
)

func main() {
	// Load environment variables from .env if present; deployed
	// environments configure through the process environment instead
	_ = godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize speech recognition
	var speechToText repositories.SpeechToText
	var googleSTT *stt.GoogleSpeechToText
	if os.Getenv("STT_PROVIDER") == "mock" {
		speechToText = stt.NewMockSpeechToText(logger, os.Getenv("STT_MOCK_TRANSCRIPT"))
		logger.Info("Using mock speech recognition")
	} else {
		googleSTT = stt.NewGoogleSpeechToText()
		speechToText = googleSTT
	}

	// Initialize session storage, falling back to memory when MongoDB is
	// unreachable
	var sessions repositories.SessionRepository
	mongoClient, err := mongoadapter.NewClient(logger)
	if err != nil {
		logger.Warn("MongoDB unavailable, using in-memory sessions", zap.Error(err))
		sessions = adapters.NewMemorySessionRepository()
	} else {
		sessions = mongoadapter.NewSessionRepository(mongoClient.Database)
	}

	// Initialize carriers and usecase services
	carriers := []repositories.Carrier{
		carrier.NewImageCarrier(logger),
		carrier.NewAudioCarrier(logger),
		carrier.NewVideoCarrier(logger),
	}
	voiceGate := usecase.NewVoiceGate(speechToText, os.Getenv("STT_LANGUAGE"), logger)
	pipeline := usecase.NewPipelineService(carriers, voiceGate, sessions, logger)

	// Sweep expired hide sessions in the background
	janitor := usecase.NewSessionJanitor(sessions, 0, logger)
	janitor.Start()

	// Initialize API routes
	api.InitRoutes(e, pipeline, voiceGate, logger)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	janitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if googleSTT != nil {
		if err := googleSTT.Close(); err != nil {
			logger.Warn("Failed to close speech client", zap.Error(err))
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Close(ctx); err != nil {
			logger.Warn("Failed to close MongoDB connection", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}

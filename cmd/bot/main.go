package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/yourusername/techspec-bot/config"
	"github.com/yourusername/techspec-bot/internal/delivery/telegram"
	"github.com/yourusername/techspec-bot/internal/domain/repository"
	"github.com/yourusername/techspec-bot/internal/infrastructure/gemini"
	"github.com/yourusername/techspec-bot/internal/infrastructure/storage"
	"github.com/yourusername/techspec-bot/internal/usecase"
	"github.com/yourusername/techspec-bot/pkg/logger"
)

func main() {
	logger.Init()
	logger.InfoLogger.Println("🚀 TechSpec bot starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration not loaded: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if cfg.AllowEmptySecrets {
		missing := []string{}
		if isEmptyOrDisabled(cfg.TelegramToken) {
			missing = append(missing, "TELEGRAM_BOT_TOKEN")
		}
		if isEmptyOrDisabled(cfg.GeminiAPIKey) {
			missing = append(missing, "GEMINI_API_KEY")
		}
		if len(missing) > 0 {
			logger.InfoLogger.Printf("Secrets missing (%s). The bot stays idle until restarted with them.", strings.Join(missing, ", "))
			<-sigChan
			return
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Storage
	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("❌ Storage not opened: %v", err)
	}
	defer store.Close()
	logger.InfoLogger.Printf("✅ Storage ready (%s)", cfg.StorageBackend)

	// 2. Gemini AI client
	aiClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.TextModel, cfg.ImageModel)
	if err != nil {
		log.Fatalf("❌ Gemini client not created: %v", err)
	}
	defer aiClient.Close()
	logger.InfoLogger.Printf("✅ Gemini AI client ready (%s, %s)", cfg.TextModel, cfg.ImageModel)

	// 3. Use case
	configurator := usecase.NewConfiguratorUseCase(aiClient, store, cfg.INRRate)

	// 4. Telegram bot handler
	botHandler, err := telegram.NewBotHandler(cfg.TelegramToken, configurator)
	if err != nil {
		log.Fatalf("❌ Bot handler not created: %v", err)
	}
	logger.InfoLogger.Printf("✅ Telegram bot ready: @%s", botHandler.GetBotUsername())

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := botHandler.Start(ctx); err != nil && err != context.Canceled {
			logger.ErrorLogger.Printf("❌ Bot error: %v", err)
		}
	}()

	logger.InfoLogger.Println("🤖 Bot is running. Press Ctrl+C to stop.")

	<-sigChan
	logger.InfoLogger.Println("⏳ Shutdown signal received...")

	cancel()
	<-done
	logger.InfoLogger.Println("✅ Bot stopped.")
}

func openStore(cfg *config.Config) (repository.KeyValueStore, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		return storage.NewMemoryStore(), nil
	case config.StorageFile:
		return storage.NewFileStore(cfg.StorageDir)
	case config.StoragePostgres:
		return storage.NewPostgresStore(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func isEmptyOrDisabled(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	return strings.EqualFold(value, "disabled")
}

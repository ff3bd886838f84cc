package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lunchtime-bot/internal/catalog"
	"lunchtime-bot/internal/checkout"
	"lunchtime-bot/internal/config"
	"lunchtime-bot/internal/database"
	"lunchtime-bot/internal/llm"
	"lunchtime-bot/internal/metrics"
	"lunchtime-bot/internal/order"
	"lunchtime-bot/internal/persist"
	"lunchtime-bot/internal/suggest"
	"lunchtime-bot/internal/telegram"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Initialize the SQLite database
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// 3. Initialize the catalog with its fallback chain
	cache, err := catalog.NewCache(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize catalog cache: %v", err)
	}
	apiClient := catalog.NewAPIClient(cfg.CatalogURL, cfg.CatalogMirrors, cfg.CatalogAPIKey)
	provider := catalog.NewProvider(apiClient, cfg.MenuPageURL, cache)
	go provider.Load(ctx)

	// 4. Repositories
	orderRepo := order.NewRepository(db.SQL)
	shareRepo := persist.NewShareRepository(db.SQL)
	formRepo := checkout.NewFormRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	// 5. Optional suggestion service
	var suggester *suggest.Suggester
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer geminiClient.Close()
		suggester = suggest.NewSuggester(provider, geminiClient)
	}

	// Share tokens stay disabled without a real secret; an empty HMAC key
	// would make every token forgeable.
	var signer *persist.Signer
	if cfg.LinkSigningSecret != "" {
		signer = persist.NewSigner(cfg.LinkSigningSecret, 7*24*time.Hour)
	}

	// 6. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, provider, orderRepo, shareRepo, formRepo, metricsStore, suggester, signer)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	go bot.Run(ctx)

	// 7. Start Server with Graceful Shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

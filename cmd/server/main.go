package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lumina-backend/internal/config"
	"lumina-backend/internal/handlers"
	"lumina-backend/internal/middleware"
	"lumina-backend/internal/quota"
	"lumina-backend/internal/router"
	"lumina-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting Lumina Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Open Quota Store ────
	// Durable local counters shared with any co-resident client layer.
	quotaStore, err := quota.NewSQLiteStore(cfg.QuotaDBPath)
	if err != nil {
		log.Fatalf("✗ Quota store failed: %v", err)
	}
	defer quotaStore.Close()
	log.Println("✓ Quota store opened")

	// ──── Step 3: Initialize Provider Client ────
	// Credentials are validated per request, not here: a misconfigured
	// deployment must answer 500, not refuse to boot.
	aiService := services.NewAzureOpenAIService(
		cfg.AzureOpenAIEndpoint,
		cfg.AzureOpenAIKey,
		cfg.AzureOpenAIDeployment,
		cfg.AzureOpenAIAPIVersion,
	)
	if err := aiService.Configured(); err != nil {
		log.Printf("⚠ %v (proxy endpoints will answer 500 until configured)", err)
	} else {
		log.Println("✓ Azure OpenAI client initialized")
	}

	// ──── Initialize Handlers ────
	jwtAuth := middleware.NewJWTAuth(cfg.SupabaseJWTSecret)
	chatHandler := handlers.NewChatHandler(aiService)
	insightHandler := handlers.NewInsightHandler(aiService)

	// ──── Step 4: Start HTTP Server ────
	r := router.New(jwtAuth, chatHandler, insightHandler, cfg.ProxyRateLimit)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
		// WriteTimeout leaves headroom over the 30s provider deadline.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Lumina Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  Functions: http://localhost:%s/functions/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

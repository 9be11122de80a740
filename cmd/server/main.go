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

	"codecanvas-backend/internal/config"
	"codecanvas-backend/internal/database"
	"codecanvas-backend/internal/handlers"
	"codecanvas-backend/internal/middleware"
	"codecanvas-backend/internal/repository"
	"codecanvas-backend/internal/router"
	"codecanvas-backend/internal/services"
	"codecanvas-backend/internal/session"
)

func main() {
	log.Println("🚀 Starting CodeCanvas Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	chatRepo := repository.NewChatRepo(pool)

	// ──── Step 5: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Println("✓ Gemini Flash client initialized")

	// ──── Initialize Services ────
	sessionManager := session.NewManager(redisClient, cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour)
	authService := services.NewAuthService(userRepo)
	chatService := services.NewChatService(chatRepo, cfg.AllowEmptyResult)

	// ──── Step 6: Seed Users (only when the table is empty) ────
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := authService.SeedUsers(seedCtx, cfg.SeedUsers); err != nil {
		cancelSeed()
		log.Fatalf("✗ User seeding failed: %v", err)
	}
	cancelSeed()

	// ──── Initialize Handlers ────
	sessionAuth := middleware.NewSessionAuth(sessionManager)
	pagesHandler := handlers.NewPagesHandler()
	authHandler := handlers.NewAuthHandler(authService, sessionManager)
	chatHandler := handlers.NewChatHandler(chatService)
	generateHandler := handlers.NewGenerateHandler(geminiService)

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		sessionAuth,
		pagesHandler,
		authHandler,
		chatHandler,
		generateHandler,
		cfg.ProtectGenerate,
		"web/static",
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
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

	log.Printf("✓ CodeCanvas Backend ready on http://localhost:%s", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

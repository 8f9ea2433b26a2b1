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

	"github.com/suracI-invert/mock-frontend/internal/config"
	"github.com/suracI-invert/mock-frontend/internal/database"
	"github.com/suracI-invert/mock-frontend/internal/gateway"
	"github.com/suracI-invert/mock-frontend/internal/handlers"
	"github.com/suracI-invert/mock-frontend/internal/middleware"
	"github.com/suracI-invert/mock-frontend/internal/router"
	"github.com/suracI-invert/mock-frontend/internal/services"
	"github.com/suracI-invert/mock-frontend/internal/session"
	"github.com/suracI-invert/mock-frontend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting mock-frontend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Redis Session Store ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	store := session.NewRedisStore(redisClient, sessionTTL)

	// ──── Step 3: Initialize Backend Gateway ────
	backend := gateway.NewClient(
		cfg.BackendURL,
		time.Duration(cfg.BackendTimeoutSeconds)*time.Second,
		time.Duration(cfg.ChatStreamTimeoutSecs)*time.Second,
	)
	log.Printf("✓ Backend gateway ready (%s)", cfg.BackendURL)

	// ──── Initialize Services ────
	sessionManager := middleware.NewSessionManager(cfg.SessionSecret, sessionTTL)
	accountService := services.NewAccountService(backend)
	chatService := services.NewChatService(backend)
	wizardService := services.NewWizardService(backend)
	exerciseService := services.NewExerciseService(backend)

	// ──── Initialize Handlers ────
	userHandler := handlers.NewUserHandler(accountService, store)
	lessonHandler := handlers.NewLessonHandler(backend, wizardService, accountService, store)
	exerciseHandler := handlers.NewExerciseHandler(exerciseService, accountService, store)
	chatHandler := handlers.NewChatHandler(chatService, store)
	audioHandler := handlers.NewAudioHandler(backend)
	chatRelay := websocket.NewChatRelay(chatService, store, sessionManager)

	// ──── Start HTTP Server ────
	r := router.New(
		sessionManager,
		userHandler,
		lessonHandler,
		exerciseHandler,
		chatHandler,
		audioHandler,
		chatRelay,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(cfg.ChatStreamTimeoutSecs+10) * time.Second,
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

	log.Printf("✓ mock-frontend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/chat/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

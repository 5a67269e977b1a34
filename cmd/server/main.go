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

	"github.com/google/uuid"

	"github.com/rua702356-pixel/Web-Japanese/internal/action"
	"github.com/rua702356-pixel/Web-Japanese/internal/config"
	"github.com/rua702356-pixel/Web-Japanese/internal/database"
	"github.com/rua702356-pixel/Web-Japanese/internal/handlers"
	"github.com/rua702356-pixel/Web-Japanese/internal/middleware"
	"github.com/rua702356-pixel/Web-Japanese/internal/models"
	"github.com/rua702356-pixel/Web-Japanese/internal/notify"
	"github.com/rua702356-pixel/Web-Japanese/internal/quiz"
	"github.com/rua702356-pixel/Web-Japanese/internal/repository"
	"github.com/rua702356-pixel/Web-Japanese/internal/router"
	"github.com/rua702356-pixel/Web-Japanese/internal/services"
	"github.com/rua702356-pixel/Web-Japanese/internal/store"
	"github.com/rua702356-pixel/Web-Japanese/internal/study"
	"github.com/rua702356-pixel/Web-Japanese/internal/websocket"
	"github.com/rua702356-pixel/Web-Japanese/internal/worker"
)

func main() {
	log.Println("🚀 Starting Web-Japanese Backend...")

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

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	cardRepo := repository.NewCardRepo(pool)
	quizRepo := repository.NewQuizRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, jwtAuth)

	// ──── Step 5: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// Toasts travel over redis pub/sub so the hub delivers them no matter
	// which instance produced them.
	notifierFor := func(userID uuid.UUID) notify.Notifier {
		return websocket.NewToastPublisher(redisClients.Queue, userID)
	}

	// ──── Initialize Engines ────
	statsStore := store.NewRedisStore(redisClients.Queue)
	actions := action.NewRegistry(notifierFor)

	progressSink := func(p models.CardProgress) {
		worker.Enqueue(redisClients.Queue, p)
	}
	studySessions := study.NewManager(cardRepo, statsStore, notifierFor, progressSink, cfg.StudyDailyGoal)
	quizSessions := quiz.NewManager(notifierFor)

	// ──── Step 6: Start Progress Worker Pool ────
	workerPool := worker.NewPool(redisClients.Queue, cardRepo, cfg.WorkerCount)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.WorkerCount)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	cardHandler := handlers.NewCardHandler(cardRepo, actions)
	studyHandler := handlers.NewStudyHandler(studySessions, actions, cardRepo)
	quizHandler := handlers.NewQuizHandler(quizRepo, quizSessions, actions)

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		cardHandler,
		studyHandler,
		quizHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Web-Japanese Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

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

	"studycoach-backend/internal/config"
	"studycoach-backend/internal/database"
	"studycoach-backend/internal/handlers"
	"studycoach-backend/internal/middleware"
	"studycoach-backend/internal/repository"
	"studycoach-backend/internal/router"
	"studycoach-backend/internal/services"
	"studycoach-backend/internal/websocket"
	"studycoach-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting StudyCoach Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Redis Clients (optional) ────
	var redisClients *database.RedisClients
	if cfg.RedisURL != "" {
		clients, err := database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer clients.Close()
		redisClients = clients
		log.Println("✓ Redis connected")
	} else {
		log.Println("✓ Redis not configured: progress events and background jobs disabled")
	}

	// ──── Step 3: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		cfg.GeminiConcurrentReqs,
		cfg.GeminiTimeout,
	)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Printf("✓ Gemini client initialized (%s)", cfg.GeminiModel)

	// ──── Initialize Services ────
	transcriptSource := services.NewYouTubeTranscriptSource(cfg.TranscriptLanguages)
	fetcher := services.NewTranscriptFetcher(transcriptSource, cfg.TranscriptTimeout)
	pipeline := services.NewPipeline(fetcher, geminiService)
	videoInfo := services.NewVideoInfoService(cfg.TranscriptTimeout)
	exportService := services.NewExportService()
	feedbackService := services.NewFeedbackService(cfg.FeedbackPath)
	jobRepo := repository.NewJobRepo()

	sessionStore := services.NewSessionStore(cfg.SessionTTL)
	sessionStore.Start()
	log.Printf("✓ Session store started (idle TTL %s)", cfg.SessionTTL)

	sessionAuth := middleware.NewSessionAuth(cfg.SessionSecret, sessionStore)

	var publisher services.Publisher = services.NopPublisher{}
	var wsHub *websocket.Hub
	var workerPool *worker.Pool
	var jobHandler *handlers.JobHandler

	if redisClients != nil {
		publisher = services.NewRedisPublisher(redisClients.Queue)
		jobQueue := database.NewJobQueue(redisClients.Queue)
		jobHandler = handlers.NewJobHandler(jobRepo, jobQueue)

		// ──── Step 4: Start Job Worker Pool ────
		workerPool = worker.NewPool(jobQueue, pipeline, sessionStore, jobRepo, publisher, cfg.WorkerCount)
		workerPool.Start()
		log.Printf("✓ Worker pool started (%d goroutines)", cfg.WorkerCount)

		// ──── Step 5: Start WebSocket Hub ────
		wsHub = websocket.NewHub(redisClients.PubSub, cfg.SessionSecret, sessionStore)
		log.Println("✓ WebSocket hub started")
	} else {
		jobHandler = handlers.NewJobHandler(jobRepo, nil)
		wsHub = websocket.NewHub(nil, cfg.SessionSecret, sessionStore)
	}

	// ──── Initialize Handlers ────
	h := router.Handlers{
		Session:  handlers.NewSessionHandler(sessionStore, sessionAuth, cfg.SessionTTL, wsHub),
		Study:    handlers.NewStudyHandler(sessionStore, pipeline, publisher),
		History:  handlers.NewHistoryHandler(sessionStore, exportService),
		Jobs:     jobHandler,
		Feedback: handlers.NewFeedbackHandler(feedbackService),
		Videos:   handlers.NewVideoHandler(videoInfo),
	}

	generateLimiter := middleware.NewRateLimiter(cfg.GenerateRateLimit, time.Minute)
	defer generateLimiter.Stop()

	// ──── Step 6: Start HTTP Server ────
	r := router.New(sessionAuth, h, generateLimiter, wsHub, cfg.FrontendURL)

	// Writes must outlast a transcript fetch plus a model call.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.TranscriptTimeout + cfg.GeminiTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		if workerPool != nil {
			workerPool.Stop()
		}
		sessionStore.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ StudyCoach Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	if redisClients != nil {
		log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)
	}

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

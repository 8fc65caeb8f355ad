package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/lucafaro/habitgrid/internal/adapters/cache"
	adapterHTTP "github.com/lucafaro/habitgrid/internal/adapters/handler/http"
	"github.com/lucafaro/habitgrid/internal/adapters/repository"
	"github.com/lucafaro/habitgrid/internal/core/domain"
	"github.com/lucafaro/habitgrid/internal/core/services"
	"github.com/lucafaro/habitgrid/internal/core/workers"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	_ = godotenv.Load()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	serverPort := getEnv("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is not set")
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	var habitRepo domain.HabitRepository = repository.NewPostgresHabitRepository(db)
	userRepo := repository.NewPostgresUserRepository(db.DB)

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisClient, err := cache.NewRedisClient(
		getEnv("REDIS_HOST", "localhost"),
		getEnv("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		redisDB,
	)
	if err != nil {
		log.Printf("Redis unavailable, continuing without cache and rate limiting: %v", err)
		redisClient = nil
	} else {
		habitRepo = repository.NewCachedHabitRepository(habitRepo, redisClient)
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	streakWorker := workers.NewStreakWorker(habitRepo)
	streakWorker.Start(ctx)

	clock := services.SystemClock{}
	habitService := services.NewHabitService(habitRepo, streakWorker, clock)
	summaryService := services.NewSummaryService(habitService, clock)
	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(jwtSecret, "habitgrid", 24*time.Hour, userRepo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:    adapterHTTP.NewAuthHandler(authService, tokenService),
		HabitHandler:   adapterHTTP.NewHabitHandler(habitService),
		SummaryHandler: adapterHTTP.NewSummaryHandler(summaryService),
		TokenService:   tokenService,
		DB:             db,
		Redis:          redisClient,
		StartTime:      startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("HabitGrid API running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}

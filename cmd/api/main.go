package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/glucolog/diary-engine/internal/adapters/cache"
	"github.com/glucolog/diary-engine/internal/adapters/delivery"
	adapterHTTP "github.com/glucolog/diary-engine/internal/adapters/handler/http"
	"github.com/glucolog/diary-engine/internal/adapters/repository"
	"github.com/glucolog/diary-engine/internal/adapters/session"
	"github.com/glucolog/diary-engine/internal/core/services"
	"github.com/glucolog/diary-engine/internal/core/workers"
)

func main() {
	startTime := time.Now()

	_ = godotenv.Load()

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DB_USER", "diary_user"),
		getEnv("DB_PASSWORD", "secret"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "diary_db"),
	)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := repository.Migrate(db); err != nil {
		log.Fatalf("Critical: Failed to migrate schema: %v", err)
	}

	log.Println("Database connected successfully.")

	var sessionStore services.SessionStore
	rdb, err := cache.NewRedisClient(
		getEnv("REDIS_HOST", "localhost"),
		getEnv("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		0,
	)
	if err != nil {
		log.Printf("Redis unavailable, using in-memory sessions: %v", err)
		rdb = nil
		sessionStore = session.NewMemoryStore()
	} else {
		sessionStore = session.NewRedisStore(rdb)
	}

	obsRepo := repository.NewPostgresObservationRepository(db)
	noteRepo := repository.NewPostgresNoteRepository(db)

	captureService := services.NewCaptureService(obsRepo, noteRepo)
	reportService := services.NewReportService(obsRepo, noteRepo)
	sessionService := services.NewSessionService(sessionStore, captureService)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	startDailyWorker(workerCtx, reportService)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		CaptureHandler: adapterHTTP.NewCaptureHandler(captureService),
		SessionHandler: adapterHTTP.NewSessionHandler(sessionService),
		ReportHandler:  adapterHTTP.NewReportHandler(reportService),
		DB:             db,
		Redis:          rdb,
		StartTime:      startTime,
	})

	srv := &http.Server{
		Addr:         ":" + getEnv("PORT", "8080"),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Diary engine running on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}

// startDailyWorker wires the scheduled report when DAILY_REPORT_TIME
// (HH:MM) and DAILY_REPORT_GROUP_ID are both set. Reports land in
// REPORT_OUTPUT_DIR for the delivery glue to pick up.
func startDailyWorker(ctx context.Context, reportService *services.ReportService) {
	at := os.Getenv("DAILY_REPORT_TIME")
	groupID := os.Getenv("DAILY_REPORT_GROUP_ID")
	if at == "" || groupID == "" {
		return
	}

	parts := strings.SplitN(at, ":", 2)
	if len(parts) != 2 {
		log.Printf("Invalid DAILY_REPORT_TIME %q, worker disabled", at)
		return
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		log.Printf("Invalid DAILY_REPORT_TIME %q, worker disabled", at)
		return
	}

	sink, err := delivery.NewFileSink(getEnv("REPORT_OUTPUT_DIR", "reports"))
	if err != nil {
		log.Printf("Report output dir unavailable, worker disabled: %v", err)
		return
	}

	groupName := getEnv("DAILY_REPORT_GROUP_NAME", "Daily Report")
	worker := workers.NewReportWorker(reportService, sink, groupID, groupName, hour, minute)
	worker.Start(ctx)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/meetsched-team/meetsched/pkg/validator"

	"github.com/meetsched-team/meetsched/internal/adapter/handler"
	"github.com/meetsched-team/meetsched/internal/adapter/repository"
	"github.com/meetsched-team/meetsched/internal/infrastructure/cache"
	"github.com/meetsched-team/meetsched/internal/infrastructure/database"
	"github.com/meetsched-team/meetsched/internal/infrastructure/notify"
	"github.com/meetsched-team/meetsched/internal/infrastructure/storage"
	"github.com/meetsched-team/meetsched/internal/usecase/attendance"
	"github.com/meetsched-team/meetsched/internal/usecase/auth"
	"github.com/meetsched-team/meetsched/internal/usecase/conflict"
	"github.com/meetsched-team/meetsched/internal/usecase/meeting"
	"github.com/meetsched-team/meetsched/internal/usecase/minutes"
	"github.com/meetsched-team/meetsched/internal/usecase/scheduler"
	"github.com/meetsched-team/meetsched/pkg/config"
	"github.com/meetsched-team/meetsched/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     strings.Split(cfg.Server.AllowedOrigins, ","),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Apply migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate in CI.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize cache
	var store cache.Store
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		log.Println("⚠️  Redis disabled, using in-memory cache")
		store = cache.NewMemoryStore()
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	userRepo := repository.NewUserRepository(db)
	venueRepo := repository.NewVenueRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	minuteRepo := repository.NewMinuteRepository(db)

	// Initialize event publisher
	var publisher meeting.EventPublisher
	if cfg.NATS.Enabled {
		log.Println("📨 Connecting to NATS...")
		natsPublisher, err := notify.NewNATSPublisher(cfg.NATS.URL, logger)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	} else {
		log.Println("⚠️  NATS disabled, lifecycle events will not be published")
	}

	// Initialize minutes archive
	var archiver meeting.MinutesArchiver
	var archiveURLs handler.ArchiveURLProvider
	if cfg.Storage.Enabled {
		log.Println("🗄️  Connecting to object storage...")
		minioClient, err := storage.NewMinIOClient(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to connect to object storage: %v", err)
		}
		archive := storage.NewMinutesArchive(minioClient, meetingRepo, minuteRepo, logger)
		archiver = archive
		archiveURLs = archive
	} else {
		log.Println("⚠️  Object storage disabled, minutes will not be archived")
	}

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize services
	log.Println("✨ Initializing services...")
	authService := auth.NewService(userRepo, sessionRepo, jwtManager, store)
	conflictService := conflict.NewService(meetingRepo)
	meetingService := meeting.NewService(
		meetingRepo,
		userRepo,
		venueRepo,
		departmentRepo,
		conflictService,
		publisher,
		archiver,
		meeting.Windows{
			EarlyStart:   cfg.Scheduling.EarlyStartWindow,
			LateStart:    cfg.Scheduling.LateStartWindow,
			ReminderLead: cfg.Scheduling.ReminderLead,
			ReminderSpan: cfg.Scheduling.ReminderSpan,
		},
		nil,
		logger,
	)
	attendanceService := attendance.NewService(
		attendanceRepo,
		meetingRepo,
		attendance.Thresholds{
			Liveness:  cfg.Scheduling.LivenessThreshold,
			Staleness: cfg.Scheduling.StalenessThreshold,
		},
		logger,
	)
	minutesService := minutes.NewService(minuteRepo, meetingRepo)

	// Initialize scheduler with the background sweeps
	log.Println("⏰ Initializing scheduler...")
	sched := scheduler.NewScheduler(nil, logger)
	sched.Register("lifecycle", cfg.Scheduling.LifecycleInterval, func(ctx context.Context, now time.Time) int {
		return meetingService.SweepOverdueUnstarted(ctx, now) + meetingService.SweepElapsed(ctx, now)
	})
	sched.Register("reminders", cfg.Scheduling.ReminderInterval, meetingService.SweepReminders)
	sched.Register("presence", cfg.Scheduling.PresenceInterval, attendanceService.SweepStaleSessions)
	sched.Start(context.Background())
	defer sched.Stop()

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	authHandler := handler.NewAuthHandler(authService, logger)
	meetingHandler := handler.NewMeetingHandler(meetingService, logger)
	minutesHandler := handler.NewMinutesHandler(minutesService, archiveURLs, logger)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, authService, authHandler, meetingHandler, minutesHandler, attendanceHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

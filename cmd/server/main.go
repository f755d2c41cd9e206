package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"     // Loads .env files into the environment
	"github.com/labstack/echo/v4"  // Echo web framework

	"github.com/temirkhan/campus-lesson-tracker/internal/attendance" // Attendance code verification
	"github.com/temirkhan/campus-lesson-tracker/internal/config"     // Internal config loader
	"github.com/temirkhan/campus-lesson-tracker/internal/database"   // MySQL connection pool
	"github.com/temirkhan/campus-lesson-tracker/internal/handler"    // HTTP handlers
	"github.com/temirkhan/campus-lesson-tracker/internal/middleware" // Cache and rate-limit middleware
	"github.com/temirkhan/campus-lesson-tracker/internal/queue"      // RabbitMQ consumer
	"github.com/temirkhan/campus-lesson-tracker/internal/repository" // Data access layer
	"github.com/temirkhan/campus-lesson-tracker/internal/router"     // Route registration
	publisher "github.com/temirkhan/campus-lesson-tracker/internal/service" // RabbitMQ publisher
)

func main() {
	_ = godotenv.Load() // Load .env if present; real env vars win

	cfg := config.Load()            // Load environment config
	db, err := database.Open(cfg)   // Open the MySQL pool and ping it
	if err != nil {                 // Abort if the database is unreachable
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()           // Redis client, nil when unavailable
	cacheCfg := config.LoadCacheConfig()     // Response-cache settings
	rateCfg := config.LoadRateLimitConfig()  // Token-bucket settings

	// ---- Repositories ----
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	profileRepo := repository.NewProfileRepo(db)
	lessonRepo := repository.NewLessonRepo(db)
	scheduleRepo := repository.NewScheduleRepo(db)
	progressRepo := repository.NewProgressRepo(db)
	engagementRepo := repository.NewEngagementRepo(db)

	// ---- Middleware built on Redis ----
	cacheMW := middleware.NewRedisCache(cacheCfg, rdb)   // Response cache for browse reads
	rateMW := middleware.NewTokenBucket(rateCfg, rdb)    // Throttle for code submission
	invalidate := middleware.NewInvalidator(cacheCfg, rdb) // Targeted cache bust on completion

	// ---- Handlers ----
	verifier := attendance.NewVerifier(profileRepo, scheduleRepo, progressRepo)
	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	profileH := handler.NewProfileHandler(profileRepo)
	studentH := handler.NewStudentHandler(lessonRepo, scheduleRepo, progressRepo, profileRepo)
	attendanceH := handler.NewAttendanceHandler(verifier, invalidate, publisher.PublishLessonCompleted)
	engagementH := handler.NewEngagementHandler(engagementRepo, progressRepo, profileRepo)
	instructorH := handler.NewInstructorHandler(scheduleRepo, lessonRepo, progressRepo)
	adminH := handler.NewAdminHandler(userRepo, lessonRepo, scheduleRepo, progressRepo, engagementRepo)

	e := echo.New()                          // Create Echo instance
	e.Validator = handler.NewRequestValidator() // Request DTO validation

	router.RegisterRoutes(e)                                   // Health check
	router.RegisterAuth(e, authH, cfg.JWTSecret)               // Register / login / refresh / logout / me
	router.RegisterStudent(e, studentH, attendanceH, engagementH, profileH, cfg.JWTSecret, cacheMW, rateMW)
	router.RegisterInstructor(e, instructorH, cfg.JWTSecret)   // Schedule and roster management
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)             // Stats, users, lesson catalog

	// Consume completion events in the background: rewards recompute and the
	// attendance log survive server restarts because the queue is durable.
	go func() {
		if err := queue.StartCompletionConsumer(queue.RewardUpdater{
			Profiles:    profileRepo,
			Progress:    progressRepo,
			Engagements: engagementRepo,
		}); err != nil {
			log.Printf("completion consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}

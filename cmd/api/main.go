package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edupress/academy-api/internal/config"
	"github.com/edupress/academy-api/internal/database"
	"github.com/edupress/academy-api/internal/handler"
	"github.com/edupress/academy-api/internal/middleware"
	"github.com/edupress/academy-api/internal/models"
	"github.com/edupress/academy-api/internal/repository"
	"github.com/edupress/academy-api/internal/router"
	"github.com/edupress/academy-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.Assignment{},
		&models.Project{},
		&models.Resource{},
		&models.Enrollment{},
		&models.Doubt{},
		&models.Submission{},
		&models.Job{},
		&models.Hackathon{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		logger.Warn().Err(err).Msg("event stream unavailable, lifecycle events disabled")
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	doubtRepo := repository.NewDoubtRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	jobRepo := repository.NewJobRepository(db)
	hackathonRepo := repository.NewHackathonRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	activityService := service.NewActivityService(activityRepo, redisClient, cfg.ActivityFeedSize, natsConn, cfg.NATSSubject, logger)
	courseService := service.NewCourseService(courseRepo, analyticsRepo, validate, activityService, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, userRepo, validate, activityService, logger)
	userService := service.NewUserService(userRepo, enrollmentRepo, courseRepo, jobRepo, hackathonRepo, validate, activityService, logger)
	doubtService := service.NewDoubtService(doubtRepo, validate, activityService, logger)
	gradingService := service.NewGradingService(submissionRepo, validate, activityService, logger)
	listingService := service.NewListingService(jobRepo, hackathonRepo, validate, activityService, logger)
	analyticsService := service.NewAnalyticsService(analyticsRepo, logger)

	deps := router.Dependencies{
		CourseHandler:     handler.NewCourseHandler(courseService, logger),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService, logger),
		UserHandler:       handler.NewUserHandler(userService, logger),
		DoubtHandler:      handler.NewDoubtHandler(doubtService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(gradingService, logger),
		ListingHandler:    handler.NewListingHandler(listingService, logger),
		AnalyticsHandler:  handler.NewAnalyticsHandler(analyticsService, activityService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, deps)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}

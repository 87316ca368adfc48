package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/edupress/academy-api/internal/config"
	"github.com/edupress/academy-api/internal/handler"
	"github.com/edupress/academy-api/internal/middleware"
	"github.com/edupress/academy-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CourseHandler     *handler.CourseHandler
	EnrollmentHandler *handler.EnrollmentHandler
	UserHandler       *handler.UserHandler
	DoubtHandler      *handler.DoubtHandler
	SubmissionHandler *handler.SubmissionHandler
	ListingHandler    *handler.ListingHandler
	AnalyticsHandler  *handler.AnalyticsHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	protected := api.Group("", jwtMiddleware, middleware.RateLimit("api", cfg.RateLimitMax, time.Minute))

	if deps.CourseHandler != nil {
		courses := protected.Group("/courses")
		deps.CourseHandler.Register(courses)
		if deps.EnrollmentHandler != nil {
			deps.EnrollmentHandler.RegisterCourseRoutes(courses)
		}
	}

	if deps.EnrollmentHandler != nil {
		deps.EnrollmentHandler.Register(protected.Group("/enrollments"))
	}

	if deps.UserHandler != nil {
		deps.UserHandler.Register(protected.Group("/users", middleware.RequireRole("admin")))
	}

	if deps.DoubtHandler != nil {
		deps.DoubtHandler.Register(protected.Group("/doubts"))
	}

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(protected.Group("/submissions"))
	}

	if deps.ListingHandler != nil {
		deps.ListingHandler.RegisterJobs(protected.Group("/jobs"))
		deps.ListingHandler.RegisterHackathons(protected.Group("/hackathons"))
	}

	if deps.AnalyticsHandler != nil {
		deps.AnalyticsHandler.Register(protected.Group("/analytics"))
		deps.AnalyticsHandler.RegisterActivity(protected.Group("/activity"))
	}
}

package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/controllers"
	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/services"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger) {
	activity := services.NewActivityRecorder(db, logger)
	aiService := services.NewAIService(cfg)
	payments := services.NewPaymentService(cfg)

	auth := middleware.AuthMiddleware(db, cfg)
	instructorOnly := middleware.RequireRole(models.RoleInstructor)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// Auth
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)
	app.Get("/api/auth/me", auth, authController.Me)

	// Users
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/users/profile", auth, userController.GetProfile)
	app.Put("/api/users/profile", auth, userController.UpdateProfile)

	// Courses
	coursesController := controllers.NewCoursesController(db, cfg, activity)
	app.Get("/api/courses", coursesController.ListCourses)
	app.Get("/api/courses/:id", coursesController.GetCourse)
	app.Post("/api/courses", auth, instructorOnly, coursesController.CreateCourse)
	app.Put("/api/courses/:id", auth, instructorOnly, coursesController.UpdateCourse)
	app.Delete("/api/courses/:id", auth, instructorOnly, coursesController.DeleteCourse)
	app.Post("/api/courses/:id/enroll", auth, middleware.RequireRole(models.RoleStudent), coursesController.Enroll)
	app.Post("/api/courses/:id/reviews", auth, coursesController.AddReview)
	app.Post("/api/courses/:id/view", coursesController.TrackView)
	app.Get("/api/courses/:id/views/analytics", auth, coursesController.GetViewAnalytics)

	// Lectures
	lecturesController := controllers.NewLecturesController(db, cfg)
	lectures := app.Group("/api/lectures", auth)
	lectures.Get("/:courseId/:lectureId", lecturesController.GetLecture)
	lectures.Post("/:courseId", instructorOnly, lecturesController.AddLecture)
	lectures.Put("/:courseId/:lectureId", instructorOnly, lecturesController.UpdateLecture)
	lectures.Delete("/:courseId/:lectureId", instructorOnly, lecturesController.DeleteLecture)

	// Progress
	progressController := controllers.NewProgressController(db, cfg, activity)
	progress := app.Group("/api/progress", auth)
	progress.Get("/:courseId", progressController.GetProgress)
	progress.Post("/:courseId/lectures/:lectureId", progressController.CompleteLecture)
	progress.Delete("/:courseId", progressController.ResetProgress)

	// Certificates
	certificateController := controllers.NewCertificateController(db, cfg)
	app.Get("/api/certificate/:courseId", auth, certificateController.Download)

	// Activity feed
	activityController := controllers.NewActivityController(db, cfg)
	feed := app.Group("/api/activity", auth, instructorOnly)
	feed.Get("/", activityController.GetFeed)
	feed.Get("/unread", activityController.UnreadCount)
	feed.Patch("/:id/read", activityController.MarkRead)

	// Instructor analytics
	analyticsController := controllers.NewAnalyticsController(db, cfg)
	instructor := app.Group("/api/instructor", auth, instructorOnly)
	instructor.Get("/courses", analyticsController.GetInstructorCourses)
	instructor.Get("/dashboard", analyticsController.GetDashboard)

	// Admin
	adminController := controllers.NewAdminController(db, cfg)
	admin := app.Group("/api/admin", auth, adminOnly)
	admin.Get("/users", adminController.ListUsers)
	admin.Put("/users/:id/block", adminController.SetBlocked)
	admin.Get("/courses", adminController.ListCourses)
	admin.Get("/stats", adminController.PlatformStats)

	// Notes
	notesController := controllers.NewNotesController(db, cfg)
	notes := app.Group("/api/notes", auth)
	notes.Get("/:courseId", notesController.GetNote)
	notes.Put("/:courseId", notesController.SaveNote)

	// Payments
	paymentController := controllers.NewPaymentController(db, cfg, payments)
	app.Post("/api/payment/create-intent", auth, paymentController.CreateIntent)

	// AI tutoring, rate limited per client per hour
	limiter := middleware.NewRateLimiter(cfg.AIRateLimit, time.Hour)
	aiController := controllers.NewAIController(cfg, aiService)
	ai := app.Group("/api/ai", auth, limiter.Middleware())
	ai.Post("/chat", aiController.Chat)
	ai.Post("/code-doubt", aiController.ResolveCodeDoubt)
	ai.Post("/quiz", aiController.GenerateQuiz)
	ai.Post("/evaluate", aiController.EvaluateAnswer)
}

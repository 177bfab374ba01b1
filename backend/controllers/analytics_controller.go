package controllers

import (
	"math"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/utils"
)

type AnalyticsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAnalyticsController(db *gorm.DB, cfg *config.Config) *AnalyticsController {
	return &AnalyticsController{DB: db, Cfg: cfg}
}

// GetInstructorCourses lists the authenticated instructor's own courses.
func (ac *AnalyticsController) GetInstructorCourses(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var courses []models.Course
	if err := ac.DB.Preload("Lectures").
		Where("creator_id = ?", user.ID).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, err, ac.Cfg.IsProduction())
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"courses": courses})
}

// GetDashboard aggregates the instructor's totals per request from current
// rows; nothing here is cached or incrementally maintained.
func (ac *AnalyticsController) GetDashboard(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var courses []models.Course
	if err := ac.DB.Where("creator_id = ?", user.ID).Order("id").Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, err, ac.Cfg.IsProduction())
	}

	var (
		totalViews   int64
		totalRevenue float64
		ratingSum    float64
		ratedCourses int
		perCourse    = make([]fiber.Map, 0, len(courses))
		studentSet   = make(map[uint]struct{})
	)

	for _, course := range courses {
		var enrollments []models.Enrollment
		ac.DB.Where("course_id = ?", course.ID).Find(&enrollments)
		for _, e := range enrollments {
			studentSet[e.UserID] = struct{}{}
		}

		students := int64(len(enrollments))
		revenue := float64(students) * course.Price

		totalViews += course.Views
		totalRevenue += revenue
		if course.TotalReviews > 0 {
			ratingSum += course.AverageRating
			ratedCourses++
		}

		perCourse = append(perCourse, fiber.Map{
			"id":       course.ID,
			"title":    course.Title,
			"students": students,
			"views":    course.Views,
			"revenue":  revenue,
			"rating":   course.AverageRating,
			"reviews":  course.TotalReviews,
		})
	}

	averageRating := 0.0
	if ratedCourses > 0 {
		averageRating = math.Round(ratingSum/float64(ratedCourses)*10) / 10
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"totalCourses":  len(courses),
		"totalStudents": len(studentSet),
		"totalViews":    totalViews,
		"totalRevenue":  totalRevenue,
		"averageRating": averageRating,
		"courses":       perCourse,
	})
}

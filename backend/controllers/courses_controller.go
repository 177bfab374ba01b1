package controllers

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/services"
	"learnhub/backend/utils"
)

type CoursesController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Activity *services.ActivityRecorder
}

func NewCoursesController(db *gorm.DB, cfg *config.Config, activity *services.ActivityRecorder) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg, Activity: activity}
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Category    string   `json:"category"`
		Price       *float64 `json:"price"`
		Thumbnail   string   `json:"thumbnail"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title == "" || input.Description == "" || input.Category == "" || input.Price == nil {
		return utils.BadRequest(c, "Title, description, category and price are required")
	}
	if *input.Price < 0 {
		return utils.BadRequest(c, "Price cannot be negative")
	}

	course := models.Course{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       *input.Price,
		Thumbnail:   input.Thumbnail,
		CreatorID:   user.ID,
	}
	if err := cc.DB.Create(&course).Error; err != nil {
		return utils.InternalServerError(c, err, cc.Cfg.IsProduction())
	}

	cc.Activity.CourseCreated(user, &course)

	return utils.Created(c, fiber.Map{"course": course})
}

// ListCourses is the public catalog, with optional category and search
// filters.
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	query := cc.DB.Model(&models.Course{}).Preload("Lectures")

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}

	var courses []models.Course
	if err := query.Order("created_at DESC").Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, err, cc.Cfg.IsProduction())
	}

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		var students int64
		cc.DB.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&students)

		result = append(result, fiber.Map{
			"id":             course.ID,
			"title":          course.Title,
			"description":    course.Description,
			"category":       course.Category,
			"price":          course.Price,
			"thumbnail":      course.Thumbnail,
			"creator_id":     course.CreatorID,
			"average_rating": course.AverageRating,
			"total_reviews":  course.TotalReviews,
			"lectures":       len(course.Lectures),
			"students":       students,
			"views":          course.Views,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"courses": result})
}

func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	err = cc.DB.Preload("Lectures", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order ASC")
	}).Preload("Reviews").First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, err, cc.Cfg.IsProduction())
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"course": course})
}

// UpdateCourse applies a partial field patch, creator-only.
func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	course, ferr := cc.loadOwnCourse(c, user)
	if ferr != nil {
		return utils.Error(c, ferr.Code, ferr.Message)
	}

	var input struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Category    *string  `json:"category"`
		Price       *float64 `json:"price"`
		Thumbnail   *string  `json:"thumbnail"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != nil {
		course.Title = *input.Title
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.Category != nil {
		course.Category = *input.Category
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return utils.BadRequest(c, "Price cannot be negative")
		}
		course.Price = *input.Price
	}
	if input.Thumbnail != nil {
		course.Thumbnail = *input.Thumbnail
	}

	if err := cc.DB.Save(course).Error; err != nil {
		return utils.InternalServerError(c, err, cc.Cfg.IsProduction())
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Course updated", fiber.Map{"course": course})
}

func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	course, ferr := cc.loadOwnCourse(c, user)
	if ferr != nil {
		return utils.Error(c, ferr.Code, ferr.Message)
	}

	if err := cc.DB.Delete(course).Error; err != nil {
		return utils.InternalServerError(c, err, cc.Cfg.IsProduction())
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Course deleted", nil)
}

// Enroll is idempotent: re-enrolling an already-enrolled student succeeds
// without duplicating the roster entry.
func (cc *CoursesController) Enroll(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}

	var existing models.Enrollment
	err = cc.DB.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&existing).Error
	if err == nil {
		return utils.SuccessMessage(c, fiber.StatusOK, "Already enrolled", fiber.Map{
			"course_id": course.ID,
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, err, cc.Cfg.IsProduction())
	}

	enrollment := models.Enrollment{UserID: user.ID, CourseID: course.ID}
	if err := cc.DB.Create(&enrollment).Error; err != nil {
		return utils.InternalServerError(c, err, cc.Cfg.IsProduction())
	}

	cc.Activity.Enrollment(user, &course)

	return utils.SuccessMessage(c, fiber.StatusOK, "Enrolled successfully", fiber.Map{
		"course_id": course.ID,
	})
}

// AddReview requires active enrollment and allows one review per user per
// course. The stored average is recomputed by the course save hook.
func (cc *CoursesController) AddReview(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}

	var input struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return utils.BadRequest(c, "Rating must be between 1 and 5")
	}

	var enrollment models.Enrollment
	if err := cc.DB.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error; err != nil {
		return utils.Forbidden(c, "You must be enrolled to review this course")
	}

	var existing models.Review
	if err := cc.DB.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&existing).Error; err == nil {
		return utils.BadRequest(c, "You have already reviewed this course")
	}

	review := models.Review{
		CourseID: course.ID,
		UserID:   user.ID,
		Rating:   input.Rating,
		Comment:  input.Comment,
	}
	if err := cc.DB.Create(&review).Error; err != nil {
		return utils.InternalServerError(c, err, cc.Cfg.IsProduction())
	}

	// Saving runs the rating recompute hook.
	if err := cc.DB.Save(&course).Error; err != nil {
		return utils.InternalServerError(c, err, cc.Cfg.IsProduction())
	}

	cc.Activity.ReviewAdded(user, &course, input.Rating)

	return utils.Created(c, fiber.Map{
		"review":         review,
		"average_rating": course.AverageRating,
		"total_reviews":  course.TotalReviews,
	})
}

// TrackView counts a course view. Views from the same authenticated user
// within 24 hours are counted once; anonymous views always count.
func (cc *CoursesController) TrackView(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}

	// The endpoint is public; a valid token just enables de-duplication.
	var userID *uint
	if id, err := utils.ExtractUserIDFromToken(c, cc.Cfg); err == nil {
		userID = &id
	}

	now := time.Now()
	if userID != nil {
		var recent int64
		cc.DB.Model(&models.CourseView{}).
			Where("course_id = ? AND user_id = ? AND viewed_at > ?", course.ID, *userID, now.Add(-24*time.Hour)).
			Count(&recent)
		if recent > 0 {
			return utils.SuccessMessage(c, fiber.StatusOK, "View already counted", fiber.Map{
				"counted": false,
				"views":   course.Views,
			})
		}
	}

	view := models.CourseView{
		CourseID:  course.ID,
		UserID:    userID,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
		ViewedAt:  now,
	}
	if err := cc.DB.Create(&view).Error; err != nil {
		return utils.InternalServerError(c, err, cc.Cfg.IsProduction())
	}

	var uniques int64
	cc.DB.Model(&models.CourseView{}).
		Where("course_id = ? AND user_id IS NOT NULL", course.ID).
		Distinct("user_id").
		Count(&uniques)

	course.Views++
	course.UniqueViews = uniques
	course.LastViewed = &now
	if err := cc.DB.Save(&course).Error; err != nil {
		return utils.InternalServerError(c, err, cc.Cfg.IsProduction())
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "View counted", fiber.Map{
		"counted":      true,
		"views":        course.Views,
		"unique_views": course.UniqueViews,
	})
}

// GetViewAnalytics buckets the view history into the last 7 calendar days
// and reports aggregate view statistics. Creator or admin only.
func (cc *CoursesController) GetViewAnalytics(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}

	if course.CreatorID != user.ID && user.Role != models.RoleAdmin {
		return utils.Forbidden(c, "Only the course creator can view analytics")
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := today.AddDate(0, 0, -6)

	var weekViews []models.CourseView
	cc.DB.Where("course_id = ? AND viewed_at >= ?", course.ID, weekStart).Find(&weekViews)

	daily := make([]fiber.Map, 7)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		count := 0
		for _, v := range weekViews {
			if !v.ViewedAt.Before(day) && v.ViewedAt.Before(day.AddDate(0, 0, 1)) {
				count++
			}
		}
		daily[i] = fiber.Map{
			"date":  day.Format("2006-01-02"),
			"views": count,
		}
	}

	var recent30 int64
	cc.DB.Model(&models.CourseView{}).
		Where("course_id = ? AND viewed_at >= ?", course.ID, now.AddDate(0, 0, -30)).
		Count(&recent30)

	avgPerUnique := 0.0
	if course.UniqueViews > 0 {
		avgPerUnique = math.Round(float64(course.Views)/float64(course.UniqueViews)*10) / 10
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"total_views":        course.Views,
		"unique_views":       course.UniqueViews,
		"avg_views_per_user": avgPerUnique,
		"recent_views":       recent30,
		"last_viewed":        course.LastViewed,
		"daily":              daily,
	})
}

// loadOwnCourse loads the course from the :id param and enforces creator
// ownership. On failure the returned *fiber.Error carries the status and
// message for the caller to send; the course is nil exactly when the error
// is non-nil.
func (cc *CoursesController) loadOwnCourse(c *fiber.Ctx, user *models.User) (*models.Course, *fiber.Error) {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Course not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Something went wrong")
	}

	if course.CreatorID != user.ID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only the course creator can do this")
	}

	return &course, nil
}

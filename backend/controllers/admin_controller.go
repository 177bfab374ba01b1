package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/models"
	"learnhub/backend/utils"
)

type AdminController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAdminController(db *gorm.DB, cfg *config.Config) *AdminController {
	return &AdminController{DB: db, Cfg: cfg}
}

func (ac *AdminController) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := ac.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return utils.InternalServerError(c, err, ac.Cfg.IsProduction())
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"users": users})
}

// SetBlocked flips the block flag. Accounts are never hard-deleted.
func (ac *AdminController) SetBlocked(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var input struct {
		Blocked bool `json:"blocked"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	if user.Role == models.RoleAdmin {
		return utils.Forbidden(c, "Admin accounts cannot be blocked")
	}

	user.Blocked = input.Blocked
	if err := ac.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, err, ac.Cfg.IsProduction())
	}

	message := "User unblocked"
	if user.Blocked {
		message = "User blocked"
	}
	return utils.SuccessMessage(c, fiber.StatusOK, message, fiber.Map{"user": user})
}

func (ac *AdminController) ListCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := ac.DB.Preload("Creator").Order("created_at DESC").Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, err, ac.Cfg.IsProduction())
	}

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		var students int64
		ac.DB.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&students)

		result = append(result, fiber.Map{
			"id":       course.ID,
			"title":    course.Title,
			"category": course.Category,
			"price":    course.Price,
			"creator":  course.Creator.Name,
			"students": students,
			"views":    course.Views,
			"rating":   course.AverageRating,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"courses": result})
}

func (ac *AdminController) PlatformStats(c *fiber.Ctx) error {
	var users, instructors, courses, enrollments, completions int64
	ac.DB.Model(&models.User{}).Count(&users)
	ac.DB.Model(&models.User{}).Where("role = ?", models.RoleInstructor).Count(&instructors)
	ac.DB.Model(&models.Course{}).Count(&courses)
	ac.DB.Model(&models.Enrollment{}).Count(&enrollments)
	ac.DB.Model(&models.CourseProgress{}).Where("completed = ?", true).Count(&completions)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"totalUsers":       users,
		"totalInstructors": instructors,
		"totalCourses":     courses,
		"totalEnrollments": enrollments,
		"totalCompletions": completions,
	})
}

package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/utils"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns the authenticated user's profile with enrollment summary
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var enrollments []models.Enrollment
	uc.DB.Preload("Course").Where("user_id = ?", user.ID).Find(&enrollments)

	enrolled := make([]fiber.Map, 0, len(enrollments))
	for _, e := range enrollments {
		enrolled = append(enrolled, fiber.Map{
			"id":        e.Course.ID,
			"title":     e.Course.Title,
			"category":  e.Course.Category,
			"thumbnail": e.Course.Thumbnail,
		})
	}

	var completed int64
	uc.DB.Model(&models.CourseProgress{}).
		Where("user_id = ? AND completed = ?", user.ID, true).
		Count(&completed)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":                user.ID,
		"name":              user.Name,
		"email":             user.Email,
		"role":              user.Role,
		"created_at":        user.CreatedAt,
		"enrolled_courses":  enrolled,
		"completed_courses": completed,
	})
}

// UpdateProfile updates name/email and rehashes the password only when a new
// one is supplied.
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name != "" {
		user.Name = input.Name
	}

	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" && email != user.Email {
		var existing models.User
		if err := uc.DB.Where("email = ? AND id <> ?", email, user.ID).First(&existing).Error; err == nil {
			return utils.BadRequest(c, "Email is already in use")
		}
		user.Email = email
	}

	if input.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.Unauthorized(c, "Current password is incorrect")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, err, uc.Cfg.IsProduction())
		}
		user.PasswordHash = string(hashed)
	}

	if err := uc.DB.Save(user).Error; err != nil {
		return utils.InternalServerError(c, err, uc.Cfg.IsProduction())
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Profile updated", fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/services"
	"learnhub/backend/utils"
)

type PaymentController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Payments *services.PaymentService
}

func NewPaymentController(db *gorm.DB, cfg *config.Config, payments *services.PaymentService) *PaymentController {
	return &PaymentController{DB: db, Cfg: cfg, Payments: payments}
}

// CreateIntent creates a Stripe payment intent for a course and returns the
// client secret alongside echoed course and amount metadata.
func (pc *PaymentController) CreateIntent(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input struct {
		CourseID uint `json:"course_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.CourseID == 0 {
		return utils.BadRequest(c, "course_id is required")
	}

	var course models.Course
	if err := pc.DB.First(&course, input.CourseID).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}
	if course.Price <= 0 {
		return utils.BadRequest(c, "Course is free, no payment needed")
	}

	intent, err := pc.Payments.CreateIntent(user, &course)
	if err != nil {
		if errors.Is(err, services.ErrPaymentsNotConfigured) {
			return utils.Error(c, fiber.StatusServiceUnavailable, "Payments are not configured")
		}
		return utils.InternalServerError(c, err, pc.Cfg.IsProduction())
	}

	payment := models.Payment{
		UserID:         user.ID,
		CourseID:       course.ID,
		StripeIntentID: intent.ID,
		Amount:         intent.Amount,
		Currency:       string(intent.Currency),
	}
	if err := pc.DB.Create(&payment).Error; err != nil {
		return utils.InternalServerError(c, err, pc.Cfg.IsProduction())
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"client_secret": intent.ClientSecret,
		"amount":        intent.Amount,
		"currency":      string(intent.Currency),
		"course": fiber.Map{
			"id":    course.ID,
			"title": course.Title,
			"price": course.Price,
		},
	})
}

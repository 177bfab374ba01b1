package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/utils"
)

type ActivityController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewActivityController(db *gorm.DB, cfg *config.Config) *ActivityController {
	return &ActivityController{DB: db, Cfg: cfg}
}

// GetFeed returns the instructor's activity feed, newest first.
func (ac *ActivityController) GetFeed(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}

	var activities []models.Activity
	if err := ac.DB.Where("instructor_id = ?", user.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error; err != nil {
		return utils.InternalServerError(c, err, ac.Cfg.IsProduction())
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"activities": activities})
}

func (ac *ActivityController) UnreadCount(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var count int64
	ac.DB.Model(&models.Activity{}).
		Where("instructor_id = ? AND is_read = ?", user.ID, false).
		Count(&count)

	return utils.Success(c, fiber.StatusOK, fiber.Map{"unread": count})
}

// MarkRead flips the read flag on one feed entry. Nothing else on an
// activity is ever mutated.
func (ac *ActivityController) MarkRead(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	activityID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid activity ID")
	}

	var activity models.Activity
	if err := ac.DB.First(&activity, activityID).Error; err != nil {
		return utils.NotFound(c, "Activity not found")
	}

	if activity.InstructorID != user.ID {
		return utils.Forbidden(c, "Not your activity feed")
	}

	if !activity.IsRead {
		activity.IsRead = true
		if err := ac.DB.Save(&activity).Error; err != nil {
			return utils.InternalServerError(c, err, ac.Cfg.IsProduction())
		}
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Marked as read", nil)
}

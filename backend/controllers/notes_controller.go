package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/utils"
)

type NotesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewNotesController(db *gorm.DB, cfg *config.Config) *NotesController {
	return &NotesController{DB: db, Cfg: cfg}
}

func (nc *NotesController) GetNote(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var note models.Note
	err = nc.DB.Where("user_id = ? AND course_id = ?", user.ID, courseID).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Success(c, fiber.StatusOK, fiber.Map{"content": ""})
	}
	if err != nil {
		return utils.InternalServerError(c, err, nc.Cfg.IsProduction())
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"content":    note.Content,
		"updated_at": note.UpdatedAt,
	})
}

// SaveNote upserts the single note for the (user, course) pair.
func (nc *NotesController) SaveNote(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := nc.DB.First(&course, courseID).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var note models.Note
	err = nc.DB.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		note = models.Note{UserID: user.ID, CourseID: course.ID, Content: input.Content}
		if err := nc.DB.Create(&note).Error; err != nil {
			return utils.InternalServerError(c, err, nc.Cfg.IsProduction())
		}
	} else if err != nil {
		return utils.InternalServerError(c, err, nc.Cfg.IsProduction())
	} else {
		note.Content = input.Content
		if err := nc.DB.Save(&note).Error; err != nil {
			return utils.InternalServerError(c, err, nc.Cfg.IsProduction())
		}
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Note saved", fiber.Map{
		"content":    note.Content,
		"updated_at": note.UpdatedAt,
	})
}

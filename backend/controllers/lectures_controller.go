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

type LecturesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewLecturesController(db *gorm.DB, cfg *config.Config) *LecturesController {
	return &LecturesController{DB: db, Cfg: cfg}
}

func (lc *LecturesController) AddLecture(c *fiber.Ctx) error {
	course, ferr := lc.ownCourse(c)
	if ferr != nil {
		return utils.Error(c, ferr.Code, ferr.Message)
	}

	var input struct {
		Title         string `json:"title"`
		VideoURL      string `json:"video_url"`
		Duration      int    `json:"duration"`
		SequenceOrder int    `json:"sequence_order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Lecture title is required")
	}

	order := input.SequenceOrder
	if order == 0 {
		var maxOrder int
		lc.DB.Model(&models.Lecture{}).
			Where("course_id = ?", course.ID).
			Select("COALESCE(MAX(sequence_order), 0)").
			Scan(&maxOrder)
		order = maxOrder + 1
	}

	lecture := models.Lecture{
		CourseID:      course.ID,
		Title:         input.Title,
		VideoURL:      input.VideoURL,
		Duration:      input.Duration,
		SequenceOrder: order,
	}
	if err := lc.DB.Create(&lecture).Error; err != nil {
		return utils.InternalServerError(c, err, lc.Cfg.IsProduction())
	}

	return utils.Created(c, fiber.Map{"lecture": lecture})
}

func (lc *LecturesController) UpdateLecture(c *fiber.Ctx) error {
	course, ferr := lc.ownCourse(c)
	if ferr != nil {
		return utils.Error(c, ferr.Code, ferr.Message)
	}

	lecture, ferr := lc.courseLecture(c, course)
	if ferr != nil {
		return utils.Error(c, ferr.Code, ferr.Message)
	}

	var input struct {
		Title         *string `json:"title"`
		VideoURL      *string `json:"video_url"`
		Duration      *int    `json:"duration"`
		SequenceOrder *int    `json:"sequence_order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != nil {
		lecture.Title = *input.Title
	}
	if input.VideoURL != nil {
		lecture.VideoURL = *input.VideoURL
	}
	if input.Duration != nil {
		lecture.Duration = *input.Duration
	}
	if input.SequenceOrder != nil {
		lecture.SequenceOrder = *input.SequenceOrder
	}

	if err := lc.DB.Save(lecture).Error; err != nil {
		return utils.InternalServerError(c, err, lc.Cfg.IsProduction())
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Lecture updated", fiber.Map{"lecture": lecture})
}

// DeleteLecture removes a lecture and prunes it from every student's
// completed set, so completed counts can never exceed the live lecture
// total.
func (lc *LecturesController) DeleteLecture(c *fiber.Ctx) error {
	course, ferr := lc.ownCourse(c)
	if ferr != nil {
		return utils.Error(c, ferr.Code, ferr.Message)
	}

	lecture, ferr := lc.courseLecture(c, course)
	if ferr != nil {
		return utils.Error(c, ferr.Code, ferr.Message)
	}

	if err := lc.DB.Delete(lecture).Error; err != nil {
		return utils.InternalServerError(c, err, lc.Cfg.IsProduction())
	}
	if err := lc.DB.Where("lecture_id = ?", lecture.ID).Delete(&models.CompletedLecture{}).Error; err != nil {
		return utils.InternalServerError(c, err, lc.Cfg.IsProduction())
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Lecture deleted", nil)
}

// GetLecture returns a lecture for playback and bumps its view counter.
// Enrollment is required.
func (lc *LecturesController) GetLecture(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	lectureID, err := strconv.Atoi(c.Params("lectureId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lecture ID")
	}

	var enrollment models.Enrollment
	if err := lc.DB.Where("user_id = ? AND course_id = ?", user.ID, courseID).First(&enrollment).Error; err != nil {
		return utils.Forbidden(c, "You must be enrolled to watch lectures")
	}

	var lecture models.Lecture
	if err := lc.DB.Where("course_id = ?", courseID).First(&lecture, lectureID).Error; err != nil {
		return utils.NotFound(c, "Lecture not found")
	}

	lc.DB.Model(&lecture).UpdateColumn("views", gorm.Expr("views + 1"))
	lecture.Views++

	return utils.Success(c, fiber.StatusOK, fiber.Map{"lecture": lecture})
}

// ownCourse resolves the :courseId param and enforces creator ownership.
// On failure the returned *fiber.Error carries the status and message for
// the caller to send; the course is nil exactly when the error is non-nil.
func (lc *LecturesController) ownCourse(c *fiber.Ctx) (*models.Course, *fiber.Error) {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid course ID")
	}

	var course models.Course
	if err := lc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Course not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Something went wrong")
	}

	if course.CreatorID != user.ID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only the course creator can manage lectures")
	}

	return &course, nil
}

func (lc *LecturesController) courseLecture(c *fiber.Ctx, course *models.Course) (*models.Lecture, *fiber.Error) {
	lectureID, err := strconv.Atoi(c.Params("lectureId"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid lecture ID")
	}

	var lecture models.Lecture
	if err := lc.DB.Where("course_id = ?", course.ID).First(&lecture, lectureID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Lecture not found")
	}

	return &lecture, nil
}

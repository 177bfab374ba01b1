package controllers

import (
	"errors"
	"fmt"
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

type ProgressController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Activity *services.ActivityRecorder
}

func NewProgressController(db *gorm.DB, cfg *config.Config, activity *services.ActivityRecorder) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg, Activity: activity}
}

// completionCounts returns how many lectures of the course the user has
// completed and the course's total lecture count. Certificate eligibility
// uses the same numbers, so the two can never drift apart.
func completionCounts(db *gorm.DB, userID, courseID uint) (completed int64, total int64, err error) {
	if err = db.Model(&models.Lecture{}).Where("course_id = ?", courseID).Count(&total).Error; err != nil {
		return 0, 0, err
	}

	var progress models.CourseProgress
	err = db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, total, nil
		}
		return 0, 0, err
	}

	err = db.Model(&models.CompletedLecture{}).Where("progress_id = ?", progress.ID).Count(&completed).Error
	return completed, total, err
}

// progressPercent formats completed/total as a percentage with two decimal
// places, "0.00" for a course with no lectures.
func progressPercent(completed, total int64) string {
	if total == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(completed)/float64(total)*100)
}

// CompleteLecture marks a lecture done for the authenticated user. Repeat
// calls succeed without growing the completed set. Completing the last
// lecture flips the course to fully completed and emits a completion event.
func (pc *ProgressController) CompleteLecture(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	lectureID, err := strconv.Atoi(c.Params("lectureId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lecture ID")
	}

	var course models.Course
	if err := pc.DB.First(&course, courseID).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}

	var lecture models.Lecture
	if err := pc.DB.Where("course_id = ?", course.ID).First(&lecture, lectureID).Error; err != nil {
		return utils.NotFound(c, "Lecture not found")
	}

	var enrollment models.Enrollment
	if err := pc.DB.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error; err != nil {
		return utils.Forbidden(c, "You are not enrolled in this course")
	}

	var progress models.CourseProgress
	err = pc.DB.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.CourseProgress{UserID: user.ID, CourseID: course.ID}
		if err := pc.DB.Create(&progress).Error; err != nil {
			return utils.InternalServerError(c, err, pc.Cfg.IsProduction())
		}
	} else if err != nil {
		return utils.InternalServerError(c, err, pc.Cfg.IsProduction())
	}

	var existing models.CompletedLecture
	err = pc.DB.Where("progress_id = ? AND lecture_id = ?", progress.ID, lecture.ID).First(&existing).Error
	if err == nil {
		completed, total, _ := completionCounts(pc.DB, user.ID, course.ID)
		return utils.SuccessMessage(c, fiber.StatusOK, "Lecture already completed", fiber.Map{
			"alreadyCompleted": true,
			"completed":        completed,
			"total":            total,
			"percentage":       progressPercent(completed, total),
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, err, pc.Cfg.IsProduction())
	}

	record := models.CompletedLecture{ProgressID: progress.ID, LectureID: lecture.ID}
	if err := pc.DB.Create(&record).Error; err != nil {
		return utils.InternalServerError(c, err, pc.Cfg.IsProduction())
	}

	pc.Activity.LectureCompleted(user, &course, &lecture)

	completed, total, err := completionCounts(pc.DB, user.ID, course.ID)
	if err != nil {
		return utils.InternalServerError(c, err, pc.Cfg.IsProduction())
	}

	fullyCompleted := total > 0 && completed == total
	if fullyCompleted && !progress.Completed {
		now := time.Now()
		progress.Completed = true
		progress.CompletedAt = &now
		if err := pc.DB.Save(&progress).Error; err != nil {
			return utils.InternalServerError(c, err, pc.Cfg.IsProduction())
		}
		pc.Activity.CourseCompleted(user, &course)
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Lecture marked as completed", fiber.Map{
		"alreadyCompleted": false,
		"completed":        completed,
		"total":            total,
		"percentage":       progressPercent(completed, total),
		"fullyCompleted":   fullyCompleted,
	})
}

func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := pc.DB.First(&course, courseID).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}

	completed, total, err := completionCounts(pc.DB, user.ID, course.ID)
	if err != nil {
		return utils.InternalServerError(c, err, pc.Cfg.IsProduction())
	}

	var lectureIDs []uint
	var progress models.CourseProgress
	fullyCompleted := false
	if err := pc.DB.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&progress).Error; err == nil {
		fullyCompleted = progress.Completed
		pc.DB.Model(&models.CompletedLecture{}).
			Where("progress_id = ?", progress.ID).
			Pluck("lecture_id", &lectureIDs)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course_id":         course.ID,
		"completed":         completed,
		"total":             total,
		"percentage":        progressPercent(completed, total),
		"fullyCompleted":    fullyCompleted,
		"completedLectures": lectureIDs,
	})
}

// ResetProgress removes the completion record and the fully-completed flag
// for the (user, course) pair.
func (pc *ProgressController) ResetProgress(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var progress models.CourseProgress
	if err := pc.DB.Where("user_id = ? AND course_id = ?", user.ID, courseID).First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "No progress to reset")
		}
		return utils.InternalServerError(c, err, pc.Cfg.IsProduction())
	}

	if err := pc.DB.Where("progress_id = ?", progress.ID).Delete(&models.CompletedLecture{}).Error; err != nil {
		return utils.InternalServerError(c, err, pc.Cfg.IsProduction())
	}
	if err := pc.DB.Unscoped().Delete(&progress).Error; err != nil {
		return utils.InternalServerError(c, err, pc.Cfg.IsProduction())
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Progress reset", nil)
}

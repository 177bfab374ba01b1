package controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/services"
	"learnhub/backend/utils"
)

type CertificateController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCertificateController(db *gorm.DB, cfg *config.Config) *CertificateController {
	return &CertificateController{DB: db, Cfg: cfg}
}

// Download streams the completion certificate as a PDF. Eligibility is the
// progress controller's completion computation: every lecture completed and
// the course has at least one lecture.
func (cc *CertificateController) Download(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}

	completed, total, err := completionCounts(cc.DB, user.ID, course.ID)
	if err != nil {
		return utils.InternalServerError(c, err, cc.Cfg.IsProduction())
	}

	if total == 0 || completed != total {
		return utils.Forbidden(c, "Course is not fully completed", fiber.Map{
			"eligible":  false,
			"completed": completed,
			"total":     total,
		})
	}

	pdf, err := services.RenderCertificate(user.Name, course.Title, time.Now())
	if err != nil {
		return utils.InternalServerError(c, err, cc.Cfg.IsProduction())
	}

	filename := fmt.Sprintf("certificate-%s.pdf", slugify(course.Title))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}

func slugify(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteRune('-')
		}
	}
	slug := strings.Trim(sb.String(), "-")
	if slug == "" {
		slug = "course"
	}
	return slug
}

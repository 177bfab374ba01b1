package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/backend/models"
)

func TestLectureManagement(t *testing.T) {
	app, db, cfg := setupTest(t)
	instructor, instructorToken := createUser(t, db, cfg, "prof", models.RoleInstructor)
	_, rivalToken := createUser(t, db, cfg, "rival", models.RoleInstructor)

	course := models.Course{Title: "C", Description: "d", Category: "c", CreatorID: instructor.ID}
	require.NoError(t, db.Create(&course).Error)

	// Sequence order defaults to the next free slot.
	resp, result := doJSON(t, app, "POST", "/api/lectures/1", instructorToken, map[string]interface{}{
		"title": "Intro", "video_url": "https://cdn/intro.mp4", "duration": 300,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 1, payload(t, result)["lecture"].(map[string]interface{})["sequence_order"])

	resp, result = doJSON(t, app, "POST", "/api/lectures/1", instructorToken, map[string]interface{}{
		"title": "Deep dive",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 2, payload(t, result)["lecture"].(map[string]interface{})["sequence_order"])

	// Non-creators cannot touch lectures, and bad ids are clean errors.
	resp, _ = doJSON(t, app, "POST", "/api/lectures/1", rivalToken, map[string]interface{}{"title": "x"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp, _ = doJSON(t, app, "PUT", "/api/lectures/1/1", rivalToken, map[string]interface{}{"title": "x"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp, _ = doJSON(t, app, "POST", "/api/lectures/99", instructorToken, map[string]interface{}{"title": "x"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp, _ = doJSON(t, app, "DELETE", "/api/lectures/1/99", instructorToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "PUT", "/api/lectures/1/2", instructorToken, map[string]interface{}{
		"title": "Deep dive, revised",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", "/api/lectures/1/2", instructorToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.Lecture{}).Where("course_id = ?", course.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestGetLectureRequiresEnrollment(t *testing.T) {
	app, db, cfg := setupTest(t)
	instructor, _ := createUser(t, db, cfg, "prof", models.RoleInstructor)
	student, studentToken := createUser(t, db, cfg, "stud", models.RoleStudent)

	course := models.Course{Title: "C", Description: "d", Category: "c", CreatorID: instructor.ID}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&models.Lecture{CourseID: course.ID, Title: "L", SequenceOrder: 1}).Error)

	resp, _ := doJSON(t, app, "GET", "/api/lectures/1/1", studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	require.NoError(t, db.Create(&models.Enrollment{UserID: student.ID, CourseID: course.ID}).Error)

	resp, result := doJSON(t, app, "GET", "/api/lectures/1/1", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, payload(t, result)["lecture"].(map[string]interface{})["views"])
}

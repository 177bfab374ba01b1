package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/backend/models"
)

func TestActivityFeed(t *testing.T) {
	app, db, cfg := setupTest(t)
	instructor, instructorToken := createUser(t, db, cfg, "prof", models.RoleInstructor)
	_, rivalToken := createUser(t, db, cfg, "rival", models.RoleInstructor)
	_, studentToken := createUser(t, db, cfg, "stud", models.RoleStudent)

	course := models.Course{Title: "C", Description: "d", Category: "c", CreatorID: instructor.ID}
	require.NoError(t, db.Create(&course).Error)

	// Enrollment fans out into the instructor's feed.
	resp, _ := doJSON(t, app, "POST", "/api/courses/1/enroll", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, result := doJSON(t, app, "GET", "/api/activity/", instructorToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	activities := payload(t, result)["activities"].([]interface{})
	require.Len(t, activities, 1)
	entry := activities[0].(map[string]interface{})
	assert.Equal(t, string(models.ActivityEnrollment), entry["type"])
	assert.Equal(t, false, entry["is_read"])

	resp, result = doJSON(t, app, "GET", "/api/activity/unread", instructorToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, payload(t, result)["unread"])

	// Another instructor sees nothing and cannot mark someone else's entry.
	resp, result = doJSON(t, app, "GET", "/api/activity/", rivalToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, payload(t, result)["activities"])

	resp, _ = doJSON(t, app, "PATCH", "/api/activity/1/read", rivalToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, "PATCH", "/api/activity/1/read", instructorToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, result = doJSON(t, app, "GET", "/api/activity/unread", instructorToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, payload(t, result)["unread"])
}

func TestNotesUpsert(t *testing.T) {
	app, db, cfg := setupTest(t)
	instructor, _ := createUser(t, db, cfg, "prof", models.RoleInstructor)
	_, studentToken := createUser(t, db, cfg, "stud", models.RoleStudent)

	course := models.Course{Title: "C", Description: "d", Category: "c", CreatorID: instructor.ID}
	require.NoError(t, db.Create(&course).Error)

	// No note yet: empty content, not a 404.
	resp, result := doJSON(t, app, "GET", "/api/notes/1", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "", payload(t, result)["content"])

	resp, _ = doJSON(t, app, "PUT", "/api/notes/1", studentToken, map[string]interface{}{"content": "first draft"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, "PUT", "/api/notes/1", studentToken, map[string]interface{}{"content": "second draft"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Still exactly one row per (user, course).
	var count int64
	db.Model(&models.Note{}).Count(&count)
	assert.EqualValues(t, 1, count)

	resp, result = doJSON(t, app, "GET", "/api/notes/1", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "second draft", payload(t, result)["content"])
}

package controllers_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/backend/models"
)

func TestInstructorDashboard(t *testing.T) {
	app, db, cfg := setupTest(t)
	instructor, instructorToken := createUser(t, db, cfg, "prof", models.RoleInstructor)

	courseA := models.Course{Title: "A", Description: "d", Category: "c", Price: 100, CreatorID: instructor.ID}
	courseB := models.Course{Title: "B", Description: "d", Category: "c", Price: 200, CreatorID: instructor.ID}
	require.NoError(t, db.Create(&courseA).Error)
	require.NoError(t, db.Create(&courseB).Error)

	// 3 students on A, 5 distinct others on B.
	for i := 0; i < 3; i++ {
		student, _ := createUser(t, db, cfg, fmt.Sprintf("a%d", i), models.RoleStudent)
		require.NoError(t, db.Create(&models.Enrollment{UserID: student.ID, CourseID: courseA.ID}).Error)
	}
	for i := 0; i < 5; i++ {
		student, _ := createUser(t, db, cfg, fmt.Sprintf("b%d", i), models.RoleStudent)
		require.NoError(t, db.Create(&models.Enrollment{UserID: student.ID, CourseID: courseB.ID}).Error)
	}

	resp, result := doJSON(t, app, "GET", "/api/instructor/dashboard", instructorToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := payload(t, result)
	assert.EqualValues(t, 2, data["totalCourses"])
	assert.EqualValues(t, 8, data["totalStudents"])
	assert.InDelta(t, 1300.0, data["totalRevenue"].(float64), 0.001)

	courses := data["courses"].([]interface{})
	require.Len(t, courses, 2)
	first := courses[0].(map[string]interface{})
	assert.EqualValues(t, 3, first["students"])
	assert.InDelta(t, 300.0, first["revenue"].(float64), 0.001)
}

func TestDashboardDeduplicatesStudents(t *testing.T) {
	app, db, cfg := setupTest(t)
	instructor, instructorToken := createUser(t, db, cfg, "prof", models.RoleInstructor)
	student, _ := createUser(t, db, cfg, "repeat", models.RoleStudent)

	for i := 0; i < 2; i++ {
		course := models.Course{Title: "C", Description: "d", Category: "c", Price: 10, CreatorID: instructor.ID}
		require.NoError(t, db.Create(&course).Error)
		require.NoError(t, db.Create(&models.Enrollment{UserID: student.ID, CourseID: course.ID}).Error)
	}

	resp, result := doJSON(t, app, "GET", "/api/instructor/dashboard", instructorToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// One student across two courses stays one distinct student.
	data := payload(t, result)
	assert.EqualValues(t, 1, data["totalStudents"])
	assert.InDelta(t, 20.0, data["totalRevenue"].(float64), 0.001)
}

func TestAdminEndpoints(t *testing.T) {
	app, db, cfg := setupTest(t)

	admin, _ := createUser(t, db, cfg, "root", models.RoleStudent)
	db.Model(&admin).Update("role", models.RoleAdmin)
	_, adminToken := createUser(t, db, cfg, "root2", models.RoleAdmin)
	victim, victimToken := createUser(t, db, cfg, "victim", models.RoleStudent)

	resp, result := doJSON(t, app, "GET", "/api/admin/users", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, payload(t, result)["users"])

	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/admin/users/%d/block", victim.ID), adminToken,
		map[string]interface{}{"blocked": true})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The blocked user is now rejected at the auth gate.
	resp, _ = doJSON(t, app, "GET", "/api/auth/me", victimToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Admins cannot be blocked.
	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/admin/users/%d/block", admin.ID), adminToken,
		map[string]interface{}{"blocked": true})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, result = doJSON(t, app, "GET", "/api/admin/stats", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, payload(t, result)["totalUsers"])
}

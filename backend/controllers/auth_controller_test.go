package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/backend/models"
)

func TestRegisterAndLogin(t *testing.T) {
	app, _, _ := setupTest(t)

	resp, result := doJSON(t, app, "POST", "/api/auth/register", "", map[string]interface{}{
		"name":     "alice",
		"email":    "alice@example.com",
		"password": "password123",
		"role":     "instructor",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, result["token"])
	assert.Equal(t, "instructor", result["user"].(map[string]interface{})["role"])

	// Registering the same email again is rejected.
	resp, _ = doJSON(t, app, "POST", "/api/auth/register", "", map[string]interface{}{
		"name":     "alice2",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, result = doJSON(t, app, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token, _ := result["token"].(string)
	require.NotEmpty(t, token)

	resp, result = doJSON(t, app, "GET", "/api/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", payload(t, result)["name"])

	resp, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	app, _, _ := setupTest(t)

	resp, _ := doJSON(t, app, "POST", "/api/auth/register", "", map[string]interface{}{
		"name": "nobody",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// The admin role cannot be self-assigned.
	resp, result := doJSON(t, app, "POST", "/api/auth/register", "", map[string]interface{}{
		"name":     "sneaky",
		"email":    "sneaky@example.com",
		"password": "password123",
		"role":     "admin",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "student", result["user"].(map[string]interface{})["role"])
}

func TestAuthRejections(t *testing.T) {
	app, db, cfg := setupTest(t)

	resp, _ := doJSON(t, app, "GET", "/api/auth/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/auth/me", "not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Valid token for a blocked account is forbidden, not unauthorized.
	blocked, token := createUser(t, db, cfg, "blocked", models.RoleStudent)
	db.Model(&blocked).Update("blocked", true)
	resp, _ = doJSON(t, app, "GET", "/api/auth/me", token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRoleGate(t *testing.T) {
	app, db, cfg := setupTest(t)

	_, studentToken := createUser(t, db, cfg, "student1", models.RoleStudent)

	resp, _ := doJSON(t, app, "POST", "/api/courses", studentToken, map[string]interface{}{
		"title":       "Hacking 101",
		"description": "nope",
		"category":    "security",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/activity/", studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/admin/users", studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

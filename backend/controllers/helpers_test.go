package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"learnhub/backend/config"
	"learnhub/backend/database"
	"learnhub/backend/models"
	"learnhub/backend/routes"
	"learnhub/backend/utils"
)

func setupTest(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	// A named shared-cache database keeps every pooled connection on the
	// same in-memory store while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:   "testsecret",
		Environment: "development",
		AIRateLimit: 30,
	}

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg, utils.InitLogger())

	return app, db, cfg
}

func createUser(t *testing.T, db *gorm.DB, cfg *config.Config, name, role string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := utils.GenerateJWTToken(user.ID, cfg)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	return user, token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	var result map[string]interface{}
	if resp.Header.Get("Content-Type") != "application/pdf" {
		json.NewDecoder(resp.Body).Decode(&result)
	}
	return resp, result
}

func payload(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data payload: %v", result)
	}
	return data
}

// Package testutil wires up an isolated database, file store and lifecycle
// engine so handler and service tests can run against real components.
package testutil

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"api/config"
	"api/database"
	"api/middleware"
	"api/models"
	"api/services"
	"api/storage"
	"api/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// PNGBytes is a minimal valid image payload for upload tests
var PNGBytes = []byte("\x89PNG\r\n\x1a\n0000000000")

// Setup creates an in-memory database, migrates the schema and points the
// package singletons at it. Every test gets a fresh world.
func Setup(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.JWTSecret = "test-secret"

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// The in-memory database exists per connection; a second connection
	// would see an empty schema.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	database.DB = db

	if err := storage.Init(t.TempDir()); err != nil {
		t.Fatalf("failed to init test file store: %v", err)
	}

	services.InitLifecycle(db)
	return db
}

// SetNow pins the lifecycle clock, which every handler date check reads
func SetNow(now time.Time) {
	services.Lifecycle.Now = func() time.Time { return now }
}

// Date builds a UTC midnight timestamp the way the date parser does
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateUser inserts an account with the given role
func CreateUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()
	hashed, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{Email: email, Password: hashed, Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

// Token signs a session token for the given user
func Token(t *testing.T, userID string) string {
	t.Helper()
	claims := middleware.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.JWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// DoJSON performs a JSON request against the router
func DoJSON(router *gin.Engine, method, url, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// DoMultipart performs a multipart form request. Repeated values under one
// field name are sent as an array. A non-empty fileField attaches PNGBytes
// as test.png under that name.
func DoMultipart(t *testing.T, router *gin.Engine, method, url string, fields map[string][]string, fileField, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, values := range fields {
		for _, value := range values {
			if err := writer.WriteField(name, value); err != nil {
				t.Fatalf("failed to write form field %s: %v", name, err)
			}
		}
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, "test.png")
		if err != nil {
			t.Fatalf("failed to attach test file: %v", err)
		}
		if _, err := part.Write(PNGBytes); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to finalize form: %v", err)
	}

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

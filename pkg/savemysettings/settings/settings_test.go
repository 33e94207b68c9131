package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/auth"
	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/models"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	hash, _ := auth.HashPassword("password123")
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)

	api := r.Group("/api")
	api.Use(auth.AuthMiddleware())
	handler.RegisterRoutes(api)

	return r
}

func getAuthHeader(user models.User) string {
	token, _ := auth.GenerateToken(user.ID, user.Email)
	return "Bearer " + token
}

func TestUpsertIsIdempotentAndReplaces(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user@example.com")

	if err := Upsert(db, user.ID, "Shop", "x", "1"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := Upsert(db, user.ID, "Shop", "x", "2"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := Upsert(db, user.ID, "Shop", "x", "2"); err != nil {
		t.Fatalf("Repeated identical upsert failed: %v", err)
	}

	var count int64
	db.Model(&models.Setting{}).Where("user_id = ? AND project_name = ? AND key = ?", user.ID, "Shop", "x").Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly 1 row for key x, got %d", count)
	}

	value, err := Get(db, user.ID, "Shop", "x")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "2" {
		t.Errorf("Expected value 2, got %q", value)
	}
}

func TestGetIsOwnerScoped(t *testing.T) {
	db := setupTestDB(t)
	userA := createTestUser(t, db, "a@example.com")
	userB := createTestUser(t, db, "b@example.com")

	if err := Upsert(db, userB.ID, "Shop", "secret", "b-only"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if _, err := Get(db, userA.ID, "Shop", "secret"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for another owner's setting, got %v", err)
	}

	result, err := List(db, userA.ID, "Shop")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("Expected empty map for another owner's project, got %v", result)
	}
}

func TestDeleteSetting(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user@example.com")

	Upsert(db, user.ID, "Shop", "x", "1")

	if err := Delete(db, user.ID, "Shop", "x"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := Delete(db, user.ID, "Shop", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting absent setting, got %v", err)
	}
}

func TestReplaceAll(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user@example.com")

	Upsert(db, user.ID, "Shop", "a", "1")
	Upsert(db, user.ID, "Shop", "b", "2")
	Upsert(db, user.ID, "Other", "keep", "me")

	newSettings := map[string]string{"c": "3", "d": "4", "e": "5"}
	if err := ReplaceAll(db, user.ID, "Shop", newSettings); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	result, err := List(db, user.ID, "Shop")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(result) != len(newSettings) {
		t.Fatalf("Expected %d settings, got %d: %v", len(newSettings), len(result), result)
	}
	for key, want := range newSettings {
		if result[key] != want {
			t.Errorf("Expected %s=%s, got %q", key, want, result[key])
		}
	}

	// Other projects are untouched
	other, _ := List(db, user.ID, "Other")
	if other["keep"] != "me" {
		t.Errorf("ReplaceAll must not touch other projects, got %v", other)
	}

	// Empty map clears the project
	if err := ReplaceAll(db, user.ID, "Shop", map[string]string{}); err != nil {
		t.Fatalf("ReplaceAll with empty map failed: %v", err)
	}
	result, _ = List(db, user.ID, "Shop")
	if len(result) != 0 {
		t.Errorf("Expected 0 settings after clearing, got %d", len(result))
	}
}

func TestRename(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user@example.com")

	Upsert(db, user.ID, "Shop", "old", "v")
	Upsert(db, user.ID, "Shop", "taken", "w")

	if err := Rename(db, user.ID, "Shop", "missing", "new", "v"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound renaming absent key, got %v", err)
	}

	if err := Rename(db, user.ID, "Shop", "old", "taken", "v"); !errors.Is(err, ErrKeyConflict) {
		t.Errorf("Expected ErrKeyConflict renaming onto existing key, got %v", err)
	}

	// A failed rename leaves the original untouched
	if _, err := Get(db, user.ID, "Shop", "old"); err != nil {
		t.Errorf("Original key must survive a failed rename: %v", err)
	}

	if err := Rename(db, user.ID, "Shop", "old", "new", "v2"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if _, err := Get(db, user.ID, "Shop", "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected old key gone after rename, got %v", err)
	}
	value, err := Get(db, user.ID, "Shop", "new")
	if err != nil || value != "v2" {
		t.Errorf("Expected new=v2 after rename, got %q (%v)", value, err)
	}

	// Same key rename is just a value update
	if err := Rename(db, user.ID, "Shop", "new", "new", "v3"); err != nil {
		t.Fatalf("Same-key rename failed: %v", err)
	}
	value, _ = Get(db, user.ID, "Shop", "new")
	if value != "v3" {
		t.Errorf("Expected new=v3, got %q", value)
	}
}

func TestSettingsHandlers(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "user@example.com")

	// Upsert via PUT, project name with a space
	jsonBody, _ := json.Marshal(UpsertSettingRequest{Value: "7"})
	req, _ := http.NewRequest("PUT", "/api/projects/Default%20Project/settings/shipment_wait_days", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// Get it back
	req, _ = http.NewRequest("GET", "/api/projects/Default%20Project/settings/shipment_wait_days", nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Project string `json:"project"`
		Key     string `json:"key"`
		Value   string `json:"value"`
	}
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body.Project != "Default Project" || body.Key != "shipment_wait_days" || body.Value != "7" {
		t.Errorf("Unexpected response: %+v", body)
	}

	// Missing key is a 404
	req, _ = http.NewRequest("GET", "/api/projects/Default%20Project/settings/nope", nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}

	// List returns the full map
	req, _ = http.NewRequest("GET", "/api/projects/Default%20Project/settings", nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var listBody struct {
		Project  string            `json:"project"`
		Settings map[string]string `json:"settings"`
	}
	json.Unmarshal(resp.Body.Bytes(), &listBody)
	if listBody.Settings["shipment_wait_days"] != "7" {
		t.Errorf("Expected shipment_wait_days=7 in list, got %v", listBody.Settings)
	}

	// Rename via PATCH
	jsonBody, _ = json.Marshal(RenameSettingRequest{OldKey: "shipment_wait_days", NewKey: "wait_days", Value: "9"})
	req, _ = http.NewRequest("PATCH", "/api/projects/Default%20Project/settings", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if value, err := Get(db, user.ID, "Default Project", "wait_days"); err != nil || value != "9" {
		t.Errorf("Expected wait_days=9 after rename, got %q (%v)", value, err)
	}

	// Requests without a token are rejected
	req, _ = http.NewRequest("GET", "/api/projects/Default%20Project/settings", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without token, got %d", resp.Code)
	}
}

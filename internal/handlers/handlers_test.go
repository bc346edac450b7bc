package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/novelsdb/internal/handlers"
	"github.com/localnerve/novelsdb/internal/middleware"
	"github.com/localnerve/novelsdb/internal/models"
	"github.com/localnerve/novelsdb/internal/services"
	"github.com/localnerve/novelsdb/internal/store"
	"github.com/localnerve/novelsdb/internal/testutil"
	"github.com/localnerve/novelsdb/internal/utils"
	"gorm.io/gorm"
)

func setupContent(t *testing.T) (*gorm.DB, *services.ContentService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	content := store.NewContentStore(db)
	return db, services.NewContentService(content, services.NewOwnershipGuard(content))
}

// asUser stands in for RequireAuth
func asUser(userID uint64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.UserIDKey, userID)
		return c.Next()
	}
}

// TestGetNovel tests the GET /api/novels/:id endpoint
func TestGetNovel(t *testing.T) {
	db, content := setupContent(t)
	owner := testutil.CreateTestUser(t, db, "owner")
	novel := testutil.CreateTestNovel(t, db, owner.ID, "Handled")

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	handler := &handlers.NovelHandler{Content: content}
	app.Get("/api/novels/:id", handler.GetNovel)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/novels/%d", novel.ID), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var result models.Novel
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Title != "Handled" || result.OwnerUserID != owner.ID {
		t.Errorf("Unexpected novel %+v", result)
	}

	for _, id := range []string{"0", "-1", "abc", "1.5", "9223372036854775808", "18446744073709551615", "99999999999999999999999"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/novels/"+id, nil))
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		if resp.StatusCode != 404 {
			t.Errorf("Expected status 404 for id %q, got %d", id, resp.StatusCode)
		}
	}
}

// TestListChaptersOutOfRangeNovel tests that GET /api/chapters/:novelId
// answers 404 for ids the database cannot hold
func TestListChaptersOutOfRangeNovel(t *testing.T) {
	db, content := setupContent(t)
	owner := testutil.CreateTestUser(t, db, "owner")
	novel := testutil.CreateTestNovel(t, db, owner.ID, "Listed")
	testutil.CreateTestChapter(t, db, novel.ID, 1)

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	handler := &handlers.ChapterHandler{Content: content}
	app.Get("/api/chapters/:novelId", handler.ListChapters)
	app.Get("/api/chapters/chapter/:id", handler.GetChapter)

	resp, err := app.Test(httptest.NewRequest("GET", fmt.Sprintf("/api/chapters/%d", novel.ID), nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	testutil.AssertStatus(t, resp, 200)

	for _, path := range []string{
		"/api/chapters/18446744073709551615",
		"/api/chapters/9223372036854775808",
		"/api/chapters/chapter/18446744073709551615",
	} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		if resp.StatusCode != 404 {
			t.Errorf("Expected status 404 for %s, got %d", path, resp.StatusCode)
		}
	}
}

// TestCreateNovelUsesCaller tests that POST /api/novels takes the owner from the token
func TestCreateNovelUsesCaller(t *testing.T) {
	db, content := setupContent(t)
	owner := testutil.CreateTestUser(t, db, "owner")

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	handler := &handlers.NovelHandler{Content: content}
	app.Post("/api/novels", asUser(owner.ID), handler.CreateNovel)

	body := `{"title":"Mine","author":"Jane Doe"}`
	req := httptest.NewRequest("POST", "/api/novels", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	testutil.AssertStatus(t, resp, 201)

	var result models.Novel
	testutil.ParseJSON(t, resp, &result)
	if result.OwnerUserID != owner.ID {
		t.Errorf("Expected owner %d, got %d", owner.ID, result.OwnerUserID)
	}
}

// TestMutationWithoutCaller tests that handlers refuse to run behind a missing auth middleware
func TestMutationWithoutCaller(t *testing.T) {
	_, content := setupContent(t)

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	handler := &handlers.ChapterHandler{Content: content}
	app.Delete("/api/chapters/:id", handler.DeleteChapter)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/chapters/1", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	testutil.AssertError(t, resp, 401, "Access denied. No token provided.")
}

// TestCheck tests the GET /api/auth/check endpoint
func TestCheck(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db, "reader")

	tokens, err := services.NewTokenIssuer(testutil.TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer failed: %v", err)
	}
	auth := services.NewAuthService(store.NewUserStore(db), tokens, services.NewBcryptHasher(4))

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	handler := &handlers.AuthHandler{Auth: auth}
	app.Get("/api/auth/check", asUser(user.ID), handler.Check)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/auth/check", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	testutil.AssertStatus(t, resp, 200)

	var result struct {
		User models.UserSummary `json:"user"`
	}
	testutil.ParseJSON(t, resp, &result)
	if result.User.ID != user.ID || result.User.Username != "reader" {
		t.Errorf("Unexpected user %+v", result.User)
	}
}

package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/localnerve/novelsdb/internal/services"
	"github.com/localnerve/novelsdb/internal/store"
	"github.com/localnerve/novelsdb/internal/testutil"
	"github.com/localnerve/novelsdb/internal/types"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	auth    *services.AuthService
	content *services.ContentService
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	tokens, err := services.NewTokenIssuer(testutil.TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer failed: %v", err)
	}

	contentStore := store.NewContentStore(db)
	return &fixture{
		db:      db,
		auth:    services.NewAuthService(store.NewUserStore(db), tokens, services.NewBcryptHasher(4)),
		content: services.NewContentService(contentStore, services.NewOwnershipGuard(contentStore)),
	}
}

// assertCustomError checks that err is a CustomError with the given status and message
func assertCustomError(t *testing.T, err error, code int, message string) {
	t.Helper()

	var customErr *types.CustomError
	if !errors.As(err, &customErr) {
		t.Fatalf("Expected CustomError %d %q, got %v", code, message, err)
	}
	if customErr.Code != code {
		t.Errorf("Expected code %d, got %d (%s)", code, customErr.Code, customErr.Message)
	}
	if message != "" && customErr.Message != message {
		t.Errorf("Expected message %q, got %q", message, customErr.Message)
	}
}

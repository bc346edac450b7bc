package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/localnerve/novelsdb/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the password of every fixture user
const TestPassword = "secret123"

// CreateTestUser inserts a user whose password is TestPassword
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{Username: username, PasswordHash: string(hash)}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// CreateTestNovel inserts an Ongoing novel owned by ownerID
func CreateTestNovel(t *testing.T, db *gorm.DB, ownerID uint64, title string) *models.Novel {
	t.Helper()

	genre := "Fantasy"
	novel := &models.Novel{
		Title:       title,
		Genre:       &genre,
		Status:      models.StatusOngoing,
		Author:      "Test Author",
		OwnerUserID: ownerID,
	}
	if err := db.Omit("Chapters").Create(novel).Error; err != nil {
		t.Fatalf("Failed to create novel %s: %v", title, err)
	}
	return novel
}

// CreateTestChapter inserts chapter number of the novel
func CreateTestChapter(t *testing.T, db *gorm.DB, novelID, number uint64) *models.Chapter {
	t.Helper()

	chapter := &models.Chapter{
		NovelID: novelID,
		Number:  number,
		Title:   fmt.Sprintf("Chapter %d", number),
		Content: models.LongText(strings.Repeat("Once upon a time. ", 5)),
	}
	if err := db.Create(chapter).Error; err != nil {
		t.Fatalf("Failed to create chapter %d of novel %d: %v", number, novelID, err)
	}
	return chapter
}

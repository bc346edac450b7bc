// Package store persists users, novels and chapters with GORM.
//
// Errors are classified right after each GORM call: a missing row becomes
// ErrNotFound and a unique constraint violation becomes ErrConflict. Anything
// else is returned wrapped and is treated as an internal failure upstream.
package store

import (
	"context"
	"errors"

	"github.com/localnerve/novelsdb/internal/models"
)

var (
	// ErrNotFound is returned when the addressed row does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when the store rejects a duplicate key
	ErrConflict = errors.New("conflict")
)

// UserStore is the credential store
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id uint64) (*models.User, error)
}

// NovelPage is one page of novels plus the total row count of the query
type NovelPage struct {
	Novels []models.Novel
	Total  int64
}

// ContentStore is the novel and chapter store
type ContentStore interface {
	ListNovels(ctx context.Context, offset, limit int) (*NovelPage, error)
	SearchNovels(ctx context.Context, query string, offset, limit int) (*NovelPage, error)
	CreateNovel(ctx context.Context, novel *models.Novel) error
	GetNovel(ctx context.Context, id uint64) (*models.Novel, error)
	UpdateNovel(ctx context.Context, novel *models.Novel) error
	DeleteNovel(ctx context.Context, id uint64) error
	NovelOwner(ctx context.Context, novelID uint64) (uint64, error)

	ChapterOwner(ctx context.Context, chapterID uint64) (novelID, ownerID uint64, err error)
	ListChapters(ctx context.Context, novelID uint64) ([]models.ChapterSummary, error)
	CreateChapter(ctx context.Context, chapter *models.Chapter) error
	GetChapter(ctx context.Context, id uint64) (*models.ChapterContent, error)
	UpdateChapter(ctx context.Context, chapter *models.Chapter) error
	DeleteChapter(ctx context.Context, id uint64) error
}

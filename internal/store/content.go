// content.go
//
// A serialized fiction publishing service on the jam-build data service stack
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of novelsdb.
// novelsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// novelsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with novelsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/localnerve/novelsdb/internal/database"
	"github.com/localnerve/novelsdb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// GormContentStore is the GORM backed ContentStore
type GormContentStore struct {
	DB *gorm.DB
}

// NewContentStore creates a ContentStore over the given pool
func NewContentStore(db *gorm.DB) *GormContentStore {
	return &GormContentStore{DB: db}
}

// quiet returns a session that does not log, for the lookups every mutation runs
func (s *GormContentStore) quiet(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).Session(&gorm.Session{Logger: s.DB.Logger.LogMode(logger.Silent)})
}

// ListNovels returns one page of novels, most recent first
func (s *GormContentStore) ListNovels(ctx context.Context, offset, limit int) (*NovelPage, error) {
	return s.pageNovels(ctx, "novels.list", s.DB.WithContext(ctx).Model(&models.Novel{}), offset, limit)
}

// SearchNovels returns one page of novels whose title, author or genre
// contains query, case-insensitively
func (s *GormContentStore) SearchNovels(ctx context.Context, query string, offset, limit int) (*NovelPage, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	scope := s.DB.WithContext(ctx).Model(&models.Novel{}).
		Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(author) LIKE ? ESCAPE '!' OR LOWER(genre) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern)
	return s.pageNovels(ctx, "novels.search", scope, offset, limit)
}

func (s *GormContentStore) pageNovels(ctx context.Context, tag string, scope *gorm.DB, offset, limit int) (*NovelPage, error) {
	page := &NovelPage{Novels: []models.Novel{}}

	if err := scope.Session(&gorm.Session{}).Count(&page.Total).Error; err != nil {
		return nil, fmt.Errorf("count novels: %w", err)
	}
	if page.Total == 0 {
		return page, nil
	}

	err := scope.Session(&gorm.Session{}).
		Clauses(hints.CommentBefore("select", tag)).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&page.Novels).Error
	if err != nil {
		return nil, fmt.Errorf("list novels: %w", err)
	}

	return page, nil
}

// CreateNovel inserts the novel and fills in its id and timestamps
func (s *GormContentStore) CreateNovel(ctx context.Context, novel *models.Novel) error {
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Create(novel).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("create novel: %w", err)
	}
	return nil
}

// GetNovel loads a novel by id
func (s *GormContentStore) GetNovel(ctx context.Context, id uint64) (*models.Novel, error) {
	var novel models.Novel
	if err := s.DB.WithContext(ctx).Where("id = ?", id).Take(&novel).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get novel: %w", err)
	}
	return &novel, nil
}

// UpdateNovel overwrites the mutable fields of the novel addressed by
// novel.ID and reloads it. The owner column is never part of the update.
func (s *GormContentStore) UpdateNovel(ctx context.Context, novel *models.Novel) error {
	err := s.DB.WithContext(ctx).
		Model(&models.Novel{}).
		Where("id = ?", novel.ID).
		Updates(map[string]interface{}{
			"title":       novel.Title,
			"description": novel.Description,
			"genre":       novel.Genre,
			"status":      novel.Status,
			"author":      novel.Author,
			"updated_at":  time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("update novel: %w", err)
	}

	if err := s.DB.WithContext(ctx).Where("id = ?", novel.ID).Take(novel).Error; err != nil {
		if database.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("reload novel: %w", err)
	}
	return nil
}

// DeleteNovel removes the novel and all of its chapters in one transaction.
// The chapters foreign key also cascades; deleting them here keeps the
// behavior identical on stores that do not enforce foreign keys.
func (s *GormContentStore) DeleteNovel(ctx context.Context, id uint64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("novel_id = ?", id).Delete(&models.Chapter{}).Error; err != nil {
			return fmt.Errorf("delete chapters: %w", err)
		}

		res := tx.Where("id = ?", id).Delete(&models.Novel{})
		if res.Error != nil {
			return fmt.Errorf("delete novel: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// NovelOwner returns the id of the user owning the novel
func (s *GormContentStore) NovelOwner(ctx context.Context, novelID uint64) (uint64, error) {
	var novel models.Novel
	err := s.quiet(ctx).
		Select("id", "owner_user_id").
		Where("id = ?", novelID).
		Take(&novel).Error
	if err != nil {
		if database.IsNotFound(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("novel owner: %w", err)
	}
	return novel.OwnerUserID, nil
}

// ChapterOwner resolves the parent novel of a chapter and that novel's owner
// with a join at call time.
func (s *GormContentStore) ChapterOwner(ctx context.Context, chapterID uint64) (uint64, uint64, error) {
	var row struct {
		NovelID     uint64
		OwnerUserID uint64
	}

	res := s.quiet(ctx).
		Table("chapters").
		Select("chapters.novel_id AS novel_id, novels.owner_user_id AS owner_user_id").
		Joins("JOIN novels ON novels.id = chapters.novel_id").
		Where("chapters.id = ?", chapterID).
		Scan(&row)
	if res.Error != nil {
		return 0, 0, fmt.Errorf("chapter owner: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, 0, ErrNotFound
	}
	return row.NovelID, row.OwnerUserID, nil
}

// ListChapters returns the chapter summaries of a novel in reading order
func (s *GormContentStore) ListChapters(ctx context.Context, novelID uint64) ([]models.ChapterSummary, error) {
	chapters := []models.ChapterSummary{}

	err := s.DB.WithContext(ctx).
		Model(&models.Chapter{}).
		Clauses(hints.CommentBefore("select", "chapters.list")).
		Select("id", "number", "title").
		Where("novel_id = ?", novelID).
		Order("number ASC").
		Scan(&chapters).Error
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	if chapters == nil {
		chapters = []models.ChapterSummary{}
	}
	return chapters, nil
}

// CreateChapter inserts the chapter. A taken (novel_id, number) pair is
// reported by the unique index as ErrConflict.
func (s *GormContentStore) CreateChapter(ctx context.Context, chapter *models.Chapter) error {
	if err := s.DB.WithContext(ctx).Create(chapter).Error; err != nil {
		switch {
		case database.IsUniqueViolation(err):
			return ErrConflict
		case database.IsForeignKeyViolation(err):
			return ErrNotFound
		}
		return fmt.Errorf("create chapter: %w", err)
	}
	return nil
}

// GetChapter loads the reading projection of a chapter
func (s *GormContentStore) GetChapter(ctx context.Context, id uint64) (*models.ChapterContent, error) {
	var chapter models.Chapter
	err := s.DB.WithContext(ctx).
		Select("id", "number", "title", "content").
		Where("id = ?", id).
		Take(&chapter).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get chapter: %w", err)
	}

	return &models.ChapterContent{
		ID:      chapter.ID,
		Number:  chapter.Number,
		Title:   chapter.Title,
		Content: string(chapter.Content),
	}, nil
}

// UpdateChapter overwrites number, title and content of the chapter addressed
// by chapter.ID and reloads it. novel_id is never part of the update.
func (s *GormContentStore) UpdateChapter(ctx context.Context, chapter *models.Chapter) error {
	err := s.DB.WithContext(ctx).
		Model(&models.Chapter{}).
		Where("id = ?", chapter.ID).
		Updates(map[string]interface{}{
			"number":     chapter.Number,
			"title":      chapter.Title,
			"content":    chapter.Content,
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update chapter: %w", err)
	}

	if err := s.DB.WithContext(ctx).Where("id = ?", chapter.ID).Take(chapter).Error; err != nil {
		if database.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("reload chapter: %w", err)
	}
	return nil
}

// DeleteChapter removes a chapter by id
func (s *GormContentStore) DeleteChapter(ctx context.Context, id uint64) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Chapter{})
	if res.Error != nil {
		return fmt.Errorf("delete chapter: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// escapeLike neutralizes LIKE wildcards using '!' as the escape character,
// which needs no quoting in any supported dialect.
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

// content_service.go
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

package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/localnerve/novelsdb/internal/models"
	"github.com/localnerve/novelsdb/internal/store"
	"github.com/localnerve/novelsdb/internal/types"
)

const (
	// DefaultPage is used when page is absent or not a positive integer
	DefaultPage = 1
	// DefaultLimit is used when limit is absent or not a positive integer
	DefaultLimit = 10
	// MaxLimit caps the page size
	MaxLimit = 100

	msgNovelNotFound   = "Novel not found"
	msgChapterNotFound = "Chapter not found"
	msgChapterExists   = "Chapter number already exists for this novel"
)

// Pagination describes one page of a list result
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NovelList is the pagination envelope for novels
type NovelList struct {
	Data       []models.Novel `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// ParsePagination reads page and limit query values. Anything that is not a
// positive integer falls back to the default; limit is capped at MaxLimit.
func ParsePagination(pageParam, limitParam string) (page, limit int) {
	page = positiveOr(pageParam, DefaultPage)
	limit = positiveOr(limitParam, DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func positiveOr(param string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(param))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// ContentService lists, reads and mutates novels and chapters. Every mutation
// goes through the OwnershipGuard before it touches the store.
type ContentService struct {
	Store store.ContentStore
	Guard *OwnershipGuard
}

// NewContentService creates a ContentService
func NewContentService(content store.ContentStore, guard *OwnershipGuard) *ContentService {
	return &ContentService{Store: content, Guard: guard}
}

// ListNovels returns one page of novels, most recent first
func (s *ContentService) ListNovels(ctx context.Context, page, limit int) (*NovelList, error) {
	result, err := s.Store.ListNovels(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, types.NewInternalError(err)
	}
	return envelope(result, page, limit), nil
}

// SearchNovels returns one page of novels matching query on title, author or genre
func (s *ContentService) SearchNovels(ctx context.Context, query string, page, limit int) (*NovelList, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListNovels(ctx, page, limit)
	}

	result, err := s.Store.SearchNovels(ctx, query, (page-1)*limit, limit)
	if err != nil {
		return nil, types.NewInternalError(err)
	}
	return envelope(result, page, limit), nil
}

func envelope(result *store.NovelPage, page, limit int) *NovelList {
	pages := result.Total / int64(limit)
	if result.Total%int64(limit) != 0 {
		pages++
	}
	return &NovelList{
		Data: result.Novels,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: result.Total,
			Pages: pages,
		},
	}
}

// CreateNovel validates the JSON payload and stores a novel owned by ownerID
func (s *ContentService) CreateNovel(ctx context.Context, body []byte, ownerID uint64) (*models.Novel, error) {
	var input NovelInput
	if err := decodeAndValidate(body, &input); err != nil {
		return nil, err
	}

	novel := novelFromInput(input)
	novel.OwnerUserID = ownerID

	if err := s.Store.CreateNovel(ctx, novel); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The caller's account vanished after the token was issued
			return nil, types.NewUnauthenticatedError(msgInvalidToken)
		}
		return nil, types.NewInternalError(err)
	}
	return novel, nil
}

// GetNovel loads a novel by id
func (s *ContentService) GetNovel(ctx context.Context, id uint64) (*models.Novel, error) {
	novel, err := s.Store.GetNovel(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, types.NewNotFoundError(msgNovelNotFound)
		}
		return nil, types.NewInternalError(err)
	}
	return novel, nil
}

// UpdateNovel overwrites every mutable field of a novel the caller owns. The
// body is only looked at once ownership is established.
func (s *ContentService) UpdateNovel(ctx context.Context, id uint64, body []byte, callerID uint64) (*models.Novel, error) {
	if err := s.Guard.AuthorizeNovelMutation(ctx, id, callerID); err != nil {
		return nil, err
	}

	var input NovelInput
	if err := decodeAndValidate(body, &input); err != nil {
		return nil, err
	}

	novel := novelFromInput(input)
	novel.ID = id

	if err := s.Store.UpdateNovel(ctx, novel); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, types.NewNotFoundError(msgNovelNotFound)
		}
		return nil, types.NewInternalError(err)
	}
	return novel, nil
}

// DeleteNovel removes a novel the caller owns, together with its chapters
func (s *ContentService) DeleteNovel(ctx context.Context, id uint64, callerID uint64) error {
	if err := s.Guard.AuthorizeNovelMutation(ctx, id, callerID); err != nil {
		return err
	}

	if err := s.Store.DeleteNovel(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.NewNotFoundError(msgNovelNotFound)
		}
		return types.NewInternalError(err)
	}
	return nil
}

// ListChapters returns the chapter summaries of a novel by ascending number
func (s *ContentService) ListChapters(ctx context.Context, novelID uint64) ([]models.ChapterSummary, error) {
	chapters, err := s.Store.ListChapters(ctx, novelID)
	if err != nil {
		return nil, types.NewInternalError(err)
	}
	return chapters, nil
}

// CreateChapter adds a chapter to a novel the caller owns
func (s *ContentService) CreateChapter(ctx context.Context, body []byte, callerID uint64) (*models.ChapterSummary, error) {
	var input ChapterInput
	if err := decodeAndValidate(body, &input); err != nil {
		return nil, err
	}

	novelID := input.NovelID.Uint64()
	if err := s.Guard.AuthorizeChapterCreation(ctx, novelID, callerID); err != nil {
		return nil, err
	}

	chapter := &models.Chapter{
		NovelID: novelID,
		Number:  input.Number.Uint64(),
		Title:   input.Title,
		Content: models.LongText(input.Content),
	}

	// The unique index decides duplicate numbers, even when two creates race
	// past the guard together
	if err := s.Store.CreateChapter(ctx, chapter); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return nil, types.NewConflictError(msgChapterExists)
		case errors.Is(err, store.ErrNotFound):
			return nil, types.NewNotFoundError(msgNovelNotFound)
		}
		return nil, types.NewInternalError(err)
	}

	summary := chapter.Summary()
	return &summary, nil
}

// GetChapterContent loads the full text of a chapter
func (s *ContentService) GetChapterContent(ctx context.Context, id uint64) (*models.ChapterContent, error) {
	chapter, err := s.Store.GetChapter(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, types.NewNotFoundError(msgChapterNotFound)
		}
		return nil, types.NewInternalError(err)
	}
	return chapter, nil
}

// UpdateChapter overwrites number, title and content of a chapter the caller
// owns. The novel_id of the payload is validated but a chapter never moves.
func (s *ContentService) UpdateChapter(ctx context.Context, id uint64, body []byte, callerID uint64) (*models.ChapterSummary, error) {
	novelID, err := s.Guard.AuthorizeChapterMutation(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	var input ChapterInput
	if err := decodeAndValidate(body, &input); err != nil {
		return nil, err
	}

	chapter := &models.Chapter{
		ID:      id,
		NovelID: novelID,
		Number:  input.Number.Uint64(),
		Title:   input.Title,
		Content: models.LongText(input.Content),
	}

	if err := s.Store.UpdateChapter(ctx, chapter); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return nil, types.NewConflictError(msgChapterExists)
		case errors.Is(err, store.ErrNotFound):
			return nil, types.NewNotFoundError(msgChapterNotFound)
		}
		return nil, types.NewInternalError(err)
	}

	summary := chapter.Summary()
	return &summary, nil
}

// DeleteChapter removes a chapter the caller owns
func (s *ContentService) DeleteChapter(ctx context.Context, id uint64, callerID uint64) error {
	if _, err := s.Guard.AuthorizeChapterMutation(ctx, id, callerID); err != nil {
		return err
	}

	if err := s.Store.DeleteChapter(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.NewNotFoundError(msgChapterNotFound)
		}
		return types.NewInternalError(err)
	}
	return nil
}

func novelFromInput(input NovelInput) *models.Novel {
	status := models.NovelStatus(input.Status)
	if status == "" {
		status = models.StatusOngoing
	}
	return &models.Novel{
		Title:       input.Title,
		Description: input.Description,
		Genre:       input.Genre,
		Status:      status,
		Author:      input.Author,
	}
}

// chapters.go
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

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/novelsdb/internal/services"
	"github.com/localnerve/novelsdb/internal/utils"
)

const chapterNotFound = "Chapter not found"

// ChapterHandler handles chapter routes
type ChapterHandler struct {
	Content *services.ContentService
}

// ListChapters handles GET /api/chapters/:novelId
// @Summary List chapters of a novel
// @Description Chapter summaries in reading order, without content
// @Tags Chapters
// @Produce json
// @Param novelId path int true "Novel ID"
// @Success 200 {array} models.ChapterSummary
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /chapters/{novelId} [get]
func (h *ChapterHandler) ListChapters(c *fiber.Ctx) error {
	novelID, err := parseID(c, "novelId", novelNotFound)
	if err != nil {
		return err
	}

	chapters, err := h.Content.ListChapters(c.UserContext(), novelID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, chapters, fiber.StatusOK)
}

// CreateChapter handles POST /api/chapters
// @Summary Add a chapter
// @Description Only the owner of the novel may add chapters. Numbers are unique per novel.
// @Tags Chapters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChapterInput true "Chapter"
// @Success 201 {object} models.ChapterSummary
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /chapters [post]
func (h *ChapterHandler) CreateChapter(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	chapter, err := h.Content.CreateChapter(c.UserContext(), c.Body(), userID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, chapter, fiber.StatusCreated)
}

// GetChapter handles GET /api/chapters/chapter/:id
// @Summary Read a chapter
// @Tags Chapters
// @Produce json
// @Param id path int true "Chapter ID"
// @Success 200 {object} models.ChapterContent
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /chapters/chapter/{id} [get]
func (h *ChapterHandler) GetChapter(c *fiber.Ctx) error {
	id, err := parseID(c, "id", chapterNotFound)
	if err != nil {
		return err
	}

	chapter, err := h.Content.GetChapterContent(c.UserContext(), id)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, chapter, fiber.StatusOK)
}

// UpdateChapter handles PUT /api/chapters/:id
// @Summary Update a chapter
// @Description Overwrites number, title and content. The chapter stays in its novel.
// @Tags Chapters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chapter ID"
// @Param body body services.ChapterInput true "Chapter"
// @Success 200 {object} models.ChapterSummary
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /chapters/{id} [put]
func (h *ChapterHandler) UpdateChapter(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", chapterNotFound)
	if err != nil {
		return err
	}

	chapter, err := h.Content.UpdateChapter(c.UserContext(), id, c.Body(), userID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, chapter, fiber.StatusOK)
}

// DeleteChapter handles DELETE /api/chapters/:id
// @Summary Delete a chapter
// @Tags Chapters
// @Security BearerAuth
// @Param id path int true "Chapter ID"
// @Success 204
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /chapters/{id} [delete]
func (h *ChapterHandler) DeleteChapter(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", chapterNotFound)
	if err != nil {
		return err
	}

	if err := h.Content.DeleteChapter(c.UserContext(), id, userID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

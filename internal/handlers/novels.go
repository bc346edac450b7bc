// novels.go
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

const novelNotFound = "Novel not found"

// NovelHandler handles novel routes
type NovelHandler struct {
	Content *services.ContentService
}

// ListNovels handles GET /api/novels
// @Summary List novels
// @Description One page of novels, most recently created first
// @Tags Novels
// @Produce json
// @Param page query int false "Page number, from 1" default(1)
// @Param limit query int false "Page size, at most 100" default(10)
// @Success 200 {object} services.NovelList
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /novels [get]
func (h *NovelHandler) ListNovels(c *fiber.Ctx) error {
	page, limit := services.ParsePagination(c.Query("page"), c.Query("limit"))

	result, err := h.Content.ListNovels(c.UserContext(), page, limit)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, result, fiber.StatusOK)
}

// SearchNovels handles GET /api/novels/search
// @Summary Search novels
// @Description Case-insensitive match on title, author and genre
// @Tags Novels
// @Produce json
// @Param q query string false "Search text"
// @Param page query int false "Page number, from 1" default(1)
// @Param limit query int false "Page size, at most 100" default(10)
// @Success 200 {object} services.NovelList
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /novels/search [get]
func (h *NovelHandler) SearchNovels(c *fiber.Ctx) error {
	page, limit := services.ParsePagination(c.Query("page"), c.Query("limit"))

	result, err := h.Content.SearchNovels(c.UserContext(), c.Query("q"), page, limit)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, result, fiber.StatusOK)
}

// CreateNovel handles POST /api/novels
// @Summary Create a novel
// @Description The caller becomes the owner
// @Tags Novels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.NovelInput true "Novel"
// @Success 201 {object} models.Novel
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /novels [post]
func (h *NovelHandler) CreateNovel(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	novel, err := h.Content.CreateNovel(c.UserContext(), c.Body(), userID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, novel, fiber.StatusCreated)
}

// GetNovel handles GET /api/novels/:id
// @Summary Get a novel
// @Tags Novels
// @Produce json
// @Param id path int true "Novel ID"
// @Success 200 {object} models.Novel
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /novels/{id} [get]
func (h *NovelHandler) GetNovel(c *fiber.Ctx) error {
	id, err := parseID(c, "id", novelNotFound)
	if err != nil {
		return err
	}

	novel, err := h.Content.GetNovel(c.UserContext(), id)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, novel, fiber.StatusOK)
}

// UpdateNovel handles PUT /api/novels/:id
// @Summary Update a novel
// @Description Overwrites every mutable field. Only the owner may update.
// @Tags Novels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Novel ID"
// @Param body body services.NovelInput true "Novel"
// @Success 200 {object} models.Novel
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /novels/{id} [put]
func (h *NovelHandler) UpdateNovel(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", novelNotFound)
	if err != nil {
		return err
	}

	novel, err := h.Content.UpdateNovel(c.UserContext(), id, c.Body(), userID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, novel, fiber.StatusOK)
}

// DeleteNovel handles DELETE /api/novels/:id
// @Summary Delete a novel
// @Description Removes the novel and all of its chapters. Only the owner may delete.
// @Tags Novels
// @Security BearerAuth
// @Param id path int true "Novel ID"
// @Success 204
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /novels/{id} [delete]
func (h *NovelHandler) DeleteNovel(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", novelNotFound)
	if err != nil {
		return err
	}

	if err := h.Content.DeleteNovel(c.UserContext(), id, userID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

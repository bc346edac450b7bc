// auth.go
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

// AuthHandler handles registration, login and token checks
type AuthHandler struct {
	Auth *services.AuthService
}

// Register handles POST /api/auth/register
// @Summary Register a user
// @Description Create an account and receive a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.Credentials true "Username and password"
// @Success 201 {object} services.AuthResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	creds, err := decodeCredentials(c)
	if err != nil {
		return err
	}

	result, err := h.Auth.Register(c.UserContext(), creds)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, result, fiber.StatusCreated)
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Exchange credentials for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.Credentials true "Username and password"
// @Success 200 {object} services.AuthResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	creds, err := decodeCredentials(c)
	if err != nil {
		return err
	}

	result, err := h.Auth.Login(c.UserContext(), creds)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, result, fiber.StatusOK)
}

// Check handles GET /api/auth/check
// @Summary Check a token
// @Description Return the account the bearer token belongs to
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]models.UserSummary
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/check [get]
func (h *AuthHandler) Check(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	user, err := h.Auth.CurrentUser(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, fiber.Map{"user": user}, fiber.StatusOK)
}

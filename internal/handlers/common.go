// common.go
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
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/novelsdb/internal/middleware"
	"github.com/localnerve/novelsdb/internal/services"
	"github.com/localnerve/novelsdb/internal/types"
)

// parseID reads a positive integer path parameter no larger than the signed
// 64-bit keys the database stores. Anything else cannot address a row, so it
// is reported with the same 404 a missing row gets.
func parseID(c *fiber.Ctx, param, notFound string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil || id == 0 || id > math.MaxInt64 {
		return 0, types.NewNotFoundError(notFound)
	}
	return id, nil
}

// getUserID extracts the caller's id from context (set by auth middleware)
func getUserID(c *fiber.Ctx) (uint64, error) {
	userID, ok := c.Locals(middleware.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, types.NewUnauthenticatedError("Access denied. No token provided.")
	}
	return userID, nil
}

// decodeCredentials strictly decodes a register or login payload
func decodeCredentials(c *fiber.Ctx) (services.Credentials, error) {
	var creds services.Credentials
	err := services.DecodeStrict(c.Body(), &creds)
	return creds, err
}

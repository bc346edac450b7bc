// guard.go
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

	"github.com/localnerve/novelsdb/internal/store"
	"github.com/localnerve/novelsdb/internal/types"
)

// OwnershipGuard authorizes mutations by deriving the owner of a novel, or of
// a chapter through its parent novel, at check time. It never trusts an owner
// value carried by the request.
type OwnershipGuard struct {
	Content store.ContentStore
}

// NewOwnershipGuard creates an OwnershipGuard
func NewOwnershipGuard(content store.ContentStore) *OwnershipGuard {
	return &OwnershipGuard{Content: content}
}

// AuthorizeNovelMutation allows userID to update or delete the novel
func (g *OwnershipGuard) AuthorizeNovelMutation(ctx context.Context, novelID, userID uint64) error {
	return g.checkNovel(ctx, novelID, userID, "Not authorized to modify this novel")
}

// AuthorizeChapterCreation allows userID to add a chapter to the novel
func (g *OwnershipGuard) AuthorizeChapterCreation(ctx context.Context, novelID, userID uint64) error {
	return g.checkNovel(ctx, novelID, userID, "Not authorized to add chapters to this novel")
}

// AuthorizeChapterMutation allows userID to update or delete the chapter and
// returns the chapter's novel id
func (g *OwnershipGuard) AuthorizeChapterMutation(ctx context.Context, chapterID, userID uint64) (uint64, error) {
	novelID, ownerID, err := g.Content.ChapterOwner(ctx, chapterID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, types.NewNotFoundError("Chapter not found")
		}
		return 0, types.NewInternalError(err)
	}
	if ownerID != userID {
		return 0, types.NewForbiddenError("Not authorized to modify this chapter")
	}
	return novelID, nil
}

func (g *OwnershipGuard) checkNovel(ctx context.Context, novelID, userID uint64, forbidden string) error {
	ownerID, err := g.Content.NovelOwner(ctx, novelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.NewNotFoundError("Novel not found")
		}
		return types.NewInternalError(err)
	}
	if ownerID != userID {
		return types.NewForbiddenError(forbidden)
	}
	return nil
}

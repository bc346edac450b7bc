// novel.go
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

package models

import (
	"time"
)

// NovelStatus is the publication state of a novel. Any status may change to
// any other.
type NovelStatus string

const (
	StatusOngoing   NovelStatus = "Ongoing"
	StatusCompleted NovelStatus = "Completed"
	StatusHiatus    NovelStatus = "Hiatus"
)

// Novel is a serialized work. OwnerUserID is set once at creation from the
// authenticated caller and is never written by the update path.
type Novel struct {
	ID          uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string      `gorm:"size:100;not null" json:"title"`
	Description *string     `gorm:"size:500" json:"description"`
	Genre       *string     `gorm:"size:50" json:"genre"`
	Status      NovelStatus `gorm:"size:20;not null;default:Ongoing" json:"status"`
	Author      string      `gorm:"size:50;not null" json:"author"`
	OwnerUserID uint64      `gorm:"not null;index" json:"owner_user_id"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Chapters    []Chapter   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// Chapter belongs to exactly one novel. Ownership is never stored here; it is
// always resolved by joining through the parent novel.
type Chapter struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	NovelID   uint64    `gorm:"not null;uniqueIndex:idx_chapters_novel_number,priority:1" json:"novel_id"`
	Number    uint64    `gorm:"not null;uniqueIndex:idx_chapters_novel_number,priority:2" json:"number"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Content   LongText  `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChapterSummary is the list projection of a chapter. It never carries content.
type ChapterSummary struct {
	ID     uint64 `json:"id"`
	Number uint64 `json:"number"`
	Title  string `json:"title"`
}

// ChapterContent is the reading projection of a chapter
type ChapterContent struct {
	ID      uint64 `json:"id"`
	Number  uint64 `json:"number"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Summary returns the list projection of the chapter
func (c *Chapter) Summary() ChapterSummary {
	return ChapterSummary{ID: c.ID, Number: c.Number, Title: c.Title}
}

// TableName overrides the table name for Novel
func (Novel) TableName() string {
	return "novels"
}

// TableName overrides the table name for Chapter
func (Chapter) TableName() string {
	return "chapters"
}

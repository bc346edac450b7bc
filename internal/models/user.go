package models

import (
	"time"
)

// User is a registered account. Users own novels; chapters are owned
// through their novel.
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:30;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	Novels       []Novel   `gorm:"foreignKey:OwnerUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// UserSummary is the public projection of a User
type UserSummary struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// Summary returns the public projection of the user
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username}
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

package models

import "time"

// User is a registered forum account. Only the bcrypt hash of the password is stored.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Author is the public projection of a User embedded in posts and comments.
type Author struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `json:"username"`
}

// TableName maps Author onto the users table.
func (Author) TableName() string { return "users" }

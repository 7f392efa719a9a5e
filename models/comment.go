package models

import "time"

// Comment is a reply to a post. PostID is not enforced as a foreign key.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Author    *Author   `gorm:"foreignKey:AuthorID" json:"author"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// OwnerID returns the id of the user who wrote the comment.
func (c *Comment) OwnerID() uint { return c.AuthorID }

package models

import "time"

// Post represents a blog post.
type Post struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Category    string    `json:"category" gorm:"type:varchar(100);index;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Thumbnail   string    `json:"thumbnail" gorm:"type:varchar(255);not null"`
	Creator     string    `json:"creator" gorm:"type:varchar(36);index;not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

package models

import "time"

// PostEventType names a post lifecycle transition.
type PostEventType string

const (
	PostCreated PostEventType = "post.created"
	PostUpdated PostEventType = "post.updated"
	PostDeleted PostEventType = "post.deleted"
)

// PostEvent is published whenever a post is created, edited or deleted.
type PostEvent struct {
	Type       PostEventType `json:"type"`
	PostID     string        `json:"post_id"`
	Creator    string        `json:"creator"`
	Category   string        `json:"category,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

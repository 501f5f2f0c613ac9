package models

import "time"

// Post represents a blog article with its engagement counters and comments.
type Post struct {
	ID          int64      `json:"id" validate:"gte=0"`
	Title       string     `json:"title" validate:"required,max=255"`
	Content     string     `json:"content" validate:"required"`
	Author      string     `json:"author" validate:"required,max=100"`
	Category    string     `json:"category" validate:"max=100"`
	Excerpt     string     `json:"excerpt,omitempty"`
	ReadingTime int        `json:"readingTime" validate:"gte=0"`
	Likes       int        `json:"likes" validate:"gte=0"`
	Shares      int        `json:"shares" validate:"gte=0"`
	CreatedAt   time.Time  `json:"createdAt"`
	Comments    []*Comment `json:"comments" validate:"-"`
}

// Comment represents a reader response attached to a post.
type Comment struct {
	ID        int64     `json:"id" validate:"gte=0"`
	PostID    int64     `json:"postId" validate:"gte=0"`
	Author    string    `json:"author" validate:"required,max=100"`
	Content   string    `json:"content" validate:"required,max=5000"`
	CreatedAt time.Time `json:"createdAt"`
}

// Subscriber is an opt-in recipient of new post notifications.
type Subscriber struct {
	ID           int64     `json:"id" validate:"gte=0"`
	Email        string    `json:"email" validate:"required,email,max=255"`
	FirstName    string    `json:"firstName" validate:"max=100"`
	Active       bool      `json:"isActive"`
	SubscribedAt time.Time `json:"subscribedDate"`
}

// PostPatch carries the fields of a sparse post update. Nil fields are left untouched.
type PostPatch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Author  *string `json:"author"`
}

// CommentPatch carries the fields of a sparse comment update.
type CommentPatch struct {
	Author  *string `json:"author"`
	Content *string `json:"content"`
}

// UploadedFile describes a file accepted by the upload handler.
type UploadedFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
	Checksum string `json:"checksum"`
}

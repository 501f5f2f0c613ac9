package models

import (
	"errors"
	"time"
)

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.CreatedAt.IsZero() {
		return errors.New("createdAt cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate() {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
}

// SetPost links the comment to its owning post.
func (c *Comment) SetPost(post *Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}

	c.PostID = post.ID
	return nil
}

// ApplyPatch overwrites only the fields present in the patch.
func (c *Comment) ApplyPatch(patch CommentPatch) {
	if patch.Author != nil {
		c.Author = *patch.Author
	}
	if patch.Content != nil {
		c.Content = *patch.Content
	}
}

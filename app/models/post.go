package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultCategory is assigned to posts created without a category.
	DefaultCategory = "General"

	wordsPerMinute = 200
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup tags, leaving the text content.
func StripHTML(s string) string {
	return htmlTag.ReplaceAllString(s, "")
}

// EstimateReadingTime returns the reading time in minutes for rich-text content.
func EstimateReadingTime(content string) int {
	words := len(strings.Fields(StripHTML(content)))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.CreatedAt.IsZero() {
		return errors.New("createdAt cannot be zero")
	}

	return nil
}

// BeforeCreate sets up the server-owned fields of a new post. Counters always
// start at zero.
func (p *Post) BeforeCreate() {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if strings.TrimSpace(p.Category) == "" {
		p.Category = DefaultCategory
	}
	if p.ReadingTime == 0 && p.Content != "" {
		p.ReadingTime = EstimateReadingTime(p.Content)
	}
	p.Likes = 0
	p.Shares = 0
	p.Comments = []*Comment{}
}

// ApplyPatch overwrites only the fields present in the patch.
func (p *Post) ApplyPatch(patch PostPatch) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Author != nil {
		p.Author = *patch.Author
	}
}

// AddComment adds a comment to the post
func (p *Post) AddComment(comment *Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}

	comment.PostID = p.ID
	p.Comments = append(p.Comments, comment)
	return nil
}

// MatchesCategory reports a case-insensitive exact category match.
func (p *Post) MatchesCategory(category string) bool {
	return strings.EqualFold(p.Category, category)
}

// MatchesSearch reports whether term occurs, ignoring case, in the title,
// author or category. Content is deliberately not searched.
func (p *Post) MatchesSearch(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Author), term) ||
		strings.Contains(strings.ToLower(p.Category), term)
}

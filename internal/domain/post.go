package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Category is the closed set of post categories.
type Category string

const (
	CategoryBooks      Category = "books"
	CategoryFiction    Category = "fiction"
	CategoryHistory    Category = "history"
	CategoryTechnology Category = "technology"
	CategoryScience    Category = "science"
	CategoryPolitics   Category = "politics"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryBooks,
	CategoryFiction,
	CategoryHistory,
	CategoryTechnology,
	CategoryScience,
	CategoryPolitics,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

const (
	MinTitleLength   = 3
	MaxTitleLength   = 255
	MinContentLength = 10
)

// Post is a blog article written by a blogger.
type Post struct {
	ID         uuid.UUID `json:"id"         db:"id"`
	Title      string    `json:"title"      db:"title"`
	Content    string    `json:"content"    db:"content"`
	Category   Category  `json:"category"   db:"category"`
	CoverImage string    `json:"coverImage" db:"cover_image"`
	AuthorID   uuid.UUID `json:"-"          db:"author_id"`
	Author     Author    `json:"author"     db:"author"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt"  db:"updated_at"`
}

// NewPost creates a Post with a fresh ID and timestamps.
func NewPost(authorID uuid.UUID, title, content string, category Category) (*Post, error) {
	now := time.Now().UTC()
	p := &Post{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(title),
		Content:   content,
		Category:  category,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks title and content lengths and the category.
func (p *Post) Validate() error {
	if p.AuthorID == uuid.Nil {
		return NewValidationError("author ID cannot be empty")
	}
	if n := utf8.RuneCountInString(p.Title); n < MinTitleLength || n > MaxTitleLength {
		return NewValidationError(fmt.Sprintf(
			"title must be between %d and %d characters", MinTitleLength, MaxTitleLength))
	}
	if utf8.RuneCountInString(p.Content) < MinContentLength {
		return NewValidationError(fmt.Sprintf(
			"content must be at least %d characters", MinContentLength))
	}
	if !p.Category.Valid() {
		return NewValidationError(fmt.Sprintf("invalid category %q", p.Category))
	}
	return nil
}

// PostPatch holds the fields a partial update may change. Nil means unchanged.
type PostPatch struct {
	Title    *string
	Content  *string
	Category *Category
}

// Apply copies the set fields onto p and validates the result.
func (patch PostPatch) Apply(p *Post, now time.Time) error {
	if patch.Title != nil {
		p.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	p.UpdatedAt = now
	return p.Validate()
}

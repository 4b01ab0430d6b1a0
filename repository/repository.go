// Package repository owns access to the persistent document store. No other
// package holds authoritative content state in process memory across
// requests; handlers depend on these interfaces, the gorm implementations
// are wired in at boot.
package repository

import (
	"context"
	"errors"

	"github.com/birlikweb/cms/models"
)

var (
	// ErrNotFound maps to HTTP 404 at the API layer.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateSlug is the store's uniqueness backstop triggering on the
	// slug check-then-act race. Maps to HTTP 400 "already exists".
	ErrDuplicateSlug = errors.New("slug already exists for this content type")
)

// ContentFilter narrows public listings.
type ContentFilter struct {
	Status   string
	Category string
	Tag      string
	Search   string
	Page     int
	Limit    int
}

// ContentRepository persists content records of every type.
type ContentRepository interface {
	Create(ctx context.Context, item *models.ContentItem) error
	Update(ctx context.Context, item *models.ContentItem) error
	ByID(ctx context.Context, ctype string, id uint) (*models.ContentItem, error)
	BySlug(ctx context.Context, ctype, slug string) (*models.ContentItem, error)
	List(ctx context.Context, ctype string, f ContentFilter) ([]models.ContentItem, int64, error)
	SlugExists(ctx context.Context, ctype, slug string) (bool, error)
	Delete(ctx context.Context, ctype string, id uint) error
}

// UserRepository persists staff accounts.
type UserRepository interface {
	ByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Content types sharing the submission pipeline. Each type gets its own
// route group but the same record shape.
const (
	TypeAnnouncement = "announcement"
	TypePress        = "press"
	TypeDocument     = "document"
	TypeArticle      = "article"
)

// ContentTypes lists every valid content type in routing order.
var ContentTypes = []string{TypeAnnouncement, TypePress, TypeDocument, TypeArticle}

// Lifecycle states of a content record. Transitions are driven solely by
// the status field of a later update; there is no time-based promotion.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// ValidStatus reports whether s is one of the three lifecycle states.
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusPublished || s == StatusArchived
}

// MaxGalleryImages bounds the gallery slot of a single submission.
const MaxGalleryImages = 8

// AssetReference points at one stored binary file and records which
// storage backend served it ("remote" or "local").
type AssetReference struct {
	URL          string `json:"url"`
	Backend      string `json:"backend"`
	OriginalName string `json:"originalName"`
}

// IsZero reports whether the reference points at nothing.
func (a AssetReference) IsZero() bool {
	return a.URL == ""
}

// AssetList stores an ordered gallery as a JSON text column.
type AssetList []AssetReference

// Value serializes the list for persistence. An empty gallery stores as [].
func (l AssetList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

// Scan restores the list from its JSON column.
func (l *AssetList) Scan(v interface{}) error {
	switch b := v.(type) {
	case []byte:
		if len(b) == 0 {
			*l = nil
			return nil
		}
		return json.Unmarshal(b, l)
	case string:
		return l.Scan([]byte(b))
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into AssetList", v)
	}
}

// TagList stores a set of tags as a comma-joined text column. Order is not
// significant; duplicates and surrounding whitespace are dropped on the way in.
type TagList []string

// ParseTags normalizes a comma-separated tag string into a TagList.
func ParseTags(s string) TagList {
	var tags TagList
	seen := map[string]bool{}
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

func (t TagList) Value() (driver.Value, error) {
	return strings.Join(t, ","), nil
}

func (t *TagList) Scan(v interface{}) error {
	switch s := v.(type) {
	case string:
		*t = ParseTags(s)
	case []byte:
		*t = ParseTags(string(s))
	case nil:
		*t = nil
	default:
		return fmt.Errorf("cannot scan %T into TagList", v)
	}
	return nil
}

// ContentItem is the persisted entity behind announcements, press items,
// documents and long-form articles. Slug is unique within a content type and
// immutable after creation; the composite unique index is the backstop for
// concurrent creates that normalize to the same slug.
type ContentItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Type        string         `gorm:"size:32;not null;uniqueIndex:uniq_type_slug,priority:1" json:"type"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Slug        string         `gorm:"size:255;not null;uniqueIndex:uniq_type_slug,priority:2" json:"slug"`
	Excerpt     string         `gorm:"size:512" json:"excerpt"`
	Body        string         `gorm:"type:text;not null" json:"body"`
	Category    string         `gorm:"size:64" json:"category"`
	Tags        TagList        `gorm:"type:text" json:"tags"`
	Status      string         `gorm:"size:16;not null;default:'draft';index" json:"status"`
	Featured    bool           `gorm:"default:false" json:"featured"`
	PublishDate *time.Time     `json:"publishDate,omitempty"`
	Author      string         `gorm:"size:128" json:"author"`
	Cover       AssetReference `gorm:"embedded;embeddedPrefix:cover_" json:"cover"`
	Gallery     AssetList      `gorm:"type:text" json:"gallery"`
	Attachment  AssetReference `gorm:"embedded;embeddedPrefix:attachment_" json:"attachment"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// MarshalJSON omits the optional cover and attachment slots when they point
// at nothing, instead of rendering empty reference objects.
func (c ContentItem) MarshalJSON() ([]byte, error) {
	type plain ContentItem
	out := struct {
		plain
		Cover      *AssetReference `json:"cover,omitempty"`
		Attachment *AssetReference `json:"attachment,omitempty"`
	}{plain: plain(c)}
	if !c.Cover.IsZero() {
		out.Cover = &c.Cover
	}
	if !c.Attachment.IsZero() {
		out.Attachment = &c.Attachment
	}
	return json.Marshal(out)
}

// ExcerptFallbackLen bounds the excerpt derived from the body when the
// submitter left the excerpt field empty.
const ExcerptFallbackLen = 200

// DeriveExcerpt truncates plain text to the fallback excerpt length on a
// rune boundary.
func DeriveExcerpt(body string) string {
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= ExcerptFallbackLen {
		return string(runes)
	}
	return string(runes[:ExcerptFallbackLen])
}

// BeforeCreate ensures timestamps and the status default are set even when
// the record is built outside the HTTP layer.
func (c *ContentItem) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = StatusDraft
	}
	return nil
}

// BeforeUpdate refreshes the UpdatedAt timestamp.
func (c *ContentItem) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	return nil
}

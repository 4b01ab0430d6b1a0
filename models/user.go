package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a staff account on the admin surface. Passwords are stored
// as bcrypt hashes only; the role gates every mutating endpoint.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	DisplayName  string    `gorm:"size:128" json:"display_name"`
	Role         Role      `gorm:"type:varchar(16);default:'viewer'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// AuthorName is the value recorded on content records created by this user.
func (u *User) AuthorName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

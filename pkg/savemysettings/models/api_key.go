package models

import "time"

// APIKey grants read access to one user's settings via the public
// get-settings endpoint. The secret itself is never stored: only its
// SHA-256 hash plus a short prefix for identification in listings.
// A nil ProjectName means the key is valid for all of the user's
// projects. ProjectName is a soft reference by name; it is not checked
// against the projects table.
type APIKey struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	KeyName     string     `gorm:"not null" json:"key_name"`
	KeyHash     string     `gorm:"not null;uniqueIndex" json:"-"`
	KeyPrefix   string     `gorm:"not null" json:"key_prefix"`
	ProjectName *string    `json:"project_name"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	LastUsedAt  *time.Time `json:"last_used_at"`
}

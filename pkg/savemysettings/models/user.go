package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated account. The user's ID is the owner
// identifier every project, setting, and API key is scoped by.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `json:"-"`
	Name         string         `gorm:"not null" json:"name"`

	// Relationships
	Projects []Project `gorm:"foreignKey:UserID" json:"projects,omitempty"`
	APIKeys  []APIKey  `gorm:"foreignKey:UserID" json:"api_keys,omitempty"`
}

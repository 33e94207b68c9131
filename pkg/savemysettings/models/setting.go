package models

import "time"

// Setting is a single key/value pair scoped to (user, project name).
// Values are opaque strings; the store applies no typing or coercion.
// The project is referenced by name to match the upsert conflict target
// (user_id, project_name, key).
type Setting struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_settings_owner_project_key" json:"user_id"`
	ProjectName string    `gorm:"not null;uniqueIndex:idx_settings_owner_project_key" json:"project_name"`
	Key         string    `gorm:"not null;uniqueIndex:idx_settings_owner_project_key" json:"key"`
	Value       string    `gorm:"not null" json:"value"`
}

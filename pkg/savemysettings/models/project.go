package models

import "time"

// Project is a named grouping of settings belonging to one user.
// Projects are hard-deleted so a name can be reused after deletion
// without tripping the unique index.
type Project struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_projects_owner_name" json:"user_id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_projects_owner_name" json:"name"`
}

// DefaultProjectName is the project created for every new account and by
// the ensure-default operation when a user has no projects left.
const DefaultProjectName = "Default Project"

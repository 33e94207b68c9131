package projects

import (
	"errors"

	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/models"
	"gorm.io/gorm"
)

var (
	ErrAlreadyExists = errors.New("project already exists")
	ErrNotFound      = errors.New("project not found")
)

// List returns the names of all projects owned by the user, alphabetically.
func List(db *gorm.DB, userID uint) ([]string, error) {
	var names []string
	err := db.Model(&models.Project{}).
		Where("user_id = ?", userID).
		Order("name ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Create creates a new project for the user. Returns ErrAlreadyExists if
// the user already has a project with that name.
func Create(db *gorm.DB, userID uint, name string) (*models.Project, error) {
	var existing models.Project
	if err := db.Where("user_id = ? AND name = ?", userID, name).First(&existing).Error; err == nil {
		return nil, ErrAlreadyExists
	}

	project := models.Project{
		UserID: userID,
		Name:   name,
	}
	if err := db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes the project and every setting under it in one
// transaction, so a concurrent reader never sees the project without its
// settings half-removed. Returns ErrNotFound if the user has no project
// with that name.
func Delete(db *gorm.DB, userID uint, name string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND project_name = ?", userID, name).
			Delete(&models.Setting{}).Error; err != nil {
			return err
		}

		result := tx.Where("user_id = ? AND name = ?", userID, name).
			Delete(&models.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// EnsureDefault creates the default project if the user has no projects
// at all, and returns the name of the user's first project. This is the
// explicit "at least one project exists" step the application shell runs
// after sign-in.
func EnsureDefault(db *gorm.DB, userID uint) (string, error) {
	names, err := List(db, userID)
	if err != nil {
		return "", err
	}
	if len(names) > 0 {
		return names[0], nil
	}

	project, err := Create(db, userID, models.DefaultProjectName)
	if err != nil {
		return "", err
	}
	return project.Name, nil
}

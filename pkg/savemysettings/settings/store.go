package settings

import (
	"errors"

	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound    = errors.New("setting not found")
	ErrKeyConflict = errors.New("setting key already exists")
)

// List returns every setting under (user, project) as a key -> value map.
// A project with no settings yields an empty map, not an error.
func List(db *gorm.DB, userID uint, project string) (map[string]string, error) {
	var rows []models.Setting
	err := db.Where("user_id = ? AND project_name = ?", userID, project).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(rows))
	for _, row := range rows {
		result[row.Key] = row.Value
	}
	return result, nil
}

// Get returns the value of one setting, or ErrNotFound.
func Get(db *gorm.DB, userID uint, project, key string) (string, error) {
	var row models.Setting
	err := db.Where("user_id = ? AND project_name = ? AND key = ?", userID, project, key).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return row.Value, nil
}

// Upsert inserts the setting or replaces its value if the key already
// exists. Repeated identical calls are no-ops; a key is never duplicated.
func Upsert(db *gorm.DB, userID uint, project, key, value string) error {
	row := models.Setting{
		UserID:      userID,
		ProjectName: project,
		Key:         key,
		Value:       value,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "project_name"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

// Delete removes one setting. Returns ErrNotFound if it does not exist.
func Delete(db *gorm.DB, userID uint, project, key string) error {
	result := db.Where("user_id = ? AND project_name = ? AND key = ?", userID, project, key).
		Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceAll atomically replaces every setting under (user, project) with
// the given map. Runs in a transaction: readers observe either the old
// full set or the new one, never a mix. An empty map clears the project.
func ReplaceAll(db *gorm.DB, userID uint, project string, newSettings map[string]string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND project_name = ?", userID, project).
			Delete(&models.Setting{}).Error; err != nil {
			return err
		}

		if len(newSettings) == 0 {
			return nil
		}

		rows := make([]models.Setting, 0, len(newSettings))
		for key, value := range newSettings {
			rows = append(rows, models.Setting{
				UserID:      userID,
				ProjectName: project,
				Key:         key,
				Value:       value,
			})
		}
		return tx.Create(&rows).Error
	})
}

// Rename atomically changes a setting's key (and value) in a single
// transaction, closing the delete-then-insert window a caller-side
// two-step edit would have. Returns ErrNotFound if oldKey is absent and
// ErrKeyConflict if newKey already exists under the project.
func Rename(db *gorm.DB, userID uint, project, oldKey, newKey, value string) error {
	if oldKey == newKey {
		return Upsert(db, userID, project, oldKey, value)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.Setting
		err := tx.Where("user_id = ? AND project_name = ? AND key = ?", userID, project, newKey).
			First(&existing).Error
		if err == nil {
			return ErrKeyConflict
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		result := tx.Where("user_id = ? AND project_name = ? AND key = ?", userID, project, oldKey).
			Delete(&models.Setting{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		row := models.Setting{
			UserID:      userID,
			ProjectName: project,
			Key:         newKey,
			Value:       value,
		}
		return tx.Create(&row).Error
	})
}

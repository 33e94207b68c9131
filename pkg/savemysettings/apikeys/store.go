package apikeys

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/models"
	"gorm.io/gorm"
)

const (
	// SecretLength is the length of the generated secret in bytes.
	// 32 bytes of crypto/rand through RawURLEncoding gives a 43-char
	// URL-safe string with no '+', '/', or '='.
	SecretLength = 32
	// KeyPrefixLength is the number of characters stored as prefix for
	// identification in listings
	KeyPrefixLength = 8
)

// ErrInvalidKey is returned when a presented secret matches no active
// API key. A deactivated key and a key that never existed fail the same
// way, so the error does not leak whether a secret was ever valid.
var ErrInvalidKey = errors.New("invalid or inactive API key")

// GenerateSecret generates a new random API key secret
func GenerateSecret() (string, error) {
	bytes := make([]byte, SecretLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// HashSecret creates a SHA-256 hash of the secret. Only the hash is
// persisted; the secret itself is shown once at creation and never again.
func HashSecret(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(hash[:])
}

// Create generates a secret and stores a new API key for the user. The
// returned secret is the only copy that will ever exist. projectName may
// be nil, meaning the key is valid for all of the user's projects.
func Create(db *gorm.DB, userID uint, keyName string, projectName *string) (*models.APIKey, string, error) {
	secret, err := GenerateSecret()
	if err != nil {
		return nil, "", err
	}

	apiKey := models.APIKey{
		UserID:      userID,
		KeyName:     keyName,
		KeyHash:     HashSecret(secret),
		KeyPrefix:   secret[:KeyPrefixLength],
		ProjectName: projectName,
		IsActive:    true,
	}
	if err := db.Create(&apiKey).Error; err != nil {
		return nil, "", err
	}
	return &apiKey, secret, nil
}

// List returns the user's API keys, newest first. Secrets and hashes are
// on the model's json:"-" fields and never serialized.
func List(db *gorm.DB, userID uint) ([]models.APIKey, error) {
	var apiKeys []models.APIKey
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apiKeys).Error
	if err != nil {
		return nil, err
	}
	return apiKeys, nil
}

// SetActive toggles a key's active flag. The query is scoped by userID
// so a bare key ID from another account matches nothing.
func SetActive(db *gorm.DB, userID, keyID uint, active bool) error {
	result := db.Model(&models.APIKey{}).
		Where("id = ? AND user_id = ?", keyID, userID).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a key owned by the user.
func Delete(db *gorm.DB, userID, keyID uint) error {
	result := db.Where("id = ? AND user_id = ?", keyID, userID).
		Delete(&models.APIKey{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Resolve looks up an active API key by secret in a single query against
// the hash, and returns ErrInvalidKey when nothing matches. On success
// the last-used timestamp is updated in the background; resolution never
// waits on it.
func Resolve(db *gorm.DB, secret string) (*models.APIKey, error) {
	var apiKey models.APIKey
	err := db.Where("key_hash = ? AND is_active = ?", HashSecret(secret), true).
		First(&apiKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidKey
		}
		return nil, err
	}

	go UpdateLastUsed(db, apiKey.ID)

	return &apiKey, nil
}

// UpdateLastUsed updates the last_used_at timestamp for an API key.
// Best effort: failures are logged, never propagated.
func UpdateLastUsed(db *gorm.DB, apiKeyID uint) {
	now := time.Now()
	err := db.Model(&models.APIKey{}).
		Where("id = ?", apiKeyID).
		Update("last_used_at", now).Error
	if err != nil {
		log.Printf("Failed to update last_used_at for API key %d: %v", apiKeyID, err)
	}
}

package apikeys

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/auth"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles API key requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new API keys handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// APIKeyResponse represents an API key in responses
type APIKeyResponse struct {
	ID          uint       `json:"id"`
	KeyName     string     `json:"key_name"`
	KeyPrefix   string     `json:"key_prefix"`
	ProjectName *string    `json:"project_name"`
	IsActive    bool       `json:"is_active"`
	LastUsedAt  *time.Time `json:"last_used_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateAPIKeyRequest represents a request to create an API key
type CreateAPIKeyRequest struct {
	KeyName     string  `json:"key_name" binding:"required"`
	ProjectName *string `json:"project_name"`
}

// CreateAPIKeyResponse includes the full secret (only shown once)
type CreateAPIKeyResponse struct {
	ID          uint      `json:"id"`
	KeyName     string    `json:"key_name"`
	APIKey      string    `json:"api_key"`
	KeyPrefix   string    `json:"key_prefix"`
	ProjectName *string   `json:"project_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// SetActiveRequest represents a request to toggle a key's active flag
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// Create creates a new API key for the authenticated user
// @Summary Create an API key
// @Description Create an API key. The secret is returned once and cannot be retrieved again.
// @Tags api-keys
// @Accept json
// @Produce json
// @Param request body CreateAPIKeyRequest true "Key name and optional project binding"
// @Success 201 {object} CreateAPIKeyResponse
// @Failure 400 {object} map[string]string "Invalid key name"
// @Security BearerAuth
// @Router /api-keys [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	keyName := strings.TrimSpace(req.KeyName)
	if keyName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Key name is required"})
		return
	}

	// Normalize an empty project binding to "all projects"
	projectName := req.ProjectName
	if projectName != nil && strings.TrimSpace(*projectName) == "" {
		projectName = nil
	}

	apiKey, secret, err := Create(h.db, userID, keyName, projectName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create API key"})
		return
	}

	// Return the full secret - this is the only time it's visible
	c.JSON(http.StatusCreated, CreateAPIKeyResponse{
		ID:          apiKey.ID,
		KeyName:     apiKey.KeyName,
		APIKey:      secret,
		KeyPrefix:   apiKey.KeyPrefix,
		ProjectName: apiKey.ProjectName,
		CreatedAt:   apiKey.CreatedAt,
	})
}

// List returns all API keys for the authenticated user, newest first
// @Summary List API keys
// @Description List API key metadata. Secrets are never included.
// @Tags api-keys
// @Produce json
// @Success 200 {array} APIKeyResponse
// @Security BearerAuth
// @Router /api-keys [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	apiKeys, err := List(h.db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch API keys"})
		return
	}

	responses := make([]APIKeyResponse, len(apiKeys))
	for i, key := range apiKeys {
		responses[i] = APIKeyResponse{
			ID:          key.ID,
			KeyName:     key.KeyName,
			KeyPrefix:   key.KeyPrefix,
			ProjectName: key.ProjectName,
			IsActive:    key.IsActive,
			LastUsedAt:  key.LastUsedAt,
			CreatedAt:   key.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, responses)
}

// SetActive toggles an API key's active flag
// @Summary Activate or deactivate an API key
// @Tags api-keys
// @Accept json
// @Produce json
// @Param id path int true "API key ID"
// @Param request body SetActiveRequest true "New active state"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "API key not found"
// @Security BearerAuth
// @Router /api-keys/{id} [patch]
func (h *Handler) SetActive(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	keyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid API key ID"})
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := SetActive(h.db, userID, uint(keyID), *req.IsActive); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update API key"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "API key updated"})
}

// Delete deletes an API key
// @Summary Delete an API key
// @Tags api-keys
// @Produce json
// @Param id path int true "API key ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "API key not found"
// @Security BearerAuth
// @Router /api-keys/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	keyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid API key ID"})
		return
	}

	if err := Delete(h.db, userID, uint(keyID)); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete API key"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "API key deleted"})
}

// RegisterRoutes registers API key routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/api-keys", h.Create)
	rg.GET("/api-keys", h.List)
	rg.PATCH("/api-keys/:id", h.SetActive)
	rg.DELETE("/api-keys/:id", h.Delete)
}

package resolve

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/apikeys"
	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/projects"
	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/settings"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves the public read-only settings endpoint. It is the only
// surface authenticated by API key rather than session token.
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new resolution handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// setCORSHeaders allows any origin. The endpoint is read-only and bearer
// authenticated, so there is nothing to protect from cross-origin reads
// beyond the key itself.
func setCORSHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "X-API-Key, Content-Type")
}

// GetSettings resolves an API key to its owner and returns the owner's
// settings, shaped by the optional project and key query parameters.
// @Summary Fetch settings by API key
// @Description Read settings with an API key passed via the X-API-Key header or api_key query parameter. The project parameter overrides the key's bound project; with neither, the owner's project list is returned.
// @Tags public
// @Produce json
// @Param project query string false "Project name"
// @Param key query string false "Setting key"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Missing, invalid, or inactive API key"
// @Failure 404 {object} map[string]string "Setting key not found"
// @Failure 405 {object} map[string]string "Method not allowed"
// @Router /get-settings [get]
func (h *Handler) GetSettings(c *gin.Context) {
	setCORSHeaders(c)

	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
		return
	case http.MethodGet:
		// fall through
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	secret := c.GetHeader("X-API-Key")
	if secret == "" {
		secret = c.Query("api_key")
	}
	if secret == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "API key required. Provide it via X-API-Key header or api_key query parameter.",
		})
		return
	}

	apiKey, err := apikeys.Resolve(h.db, secret)
	if err != nil {
		if errors.Is(err, apikeys.ErrInvalidKey) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or inactive API key"})
			return
		}
		log.Printf("API key resolution failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// An explicit project parameter overrides the key's bound project
	targetProject := c.Query("project")
	if targetProject == "" && apiKey.ProjectName != nil {
		targetProject = *apiKey.ProjectName
	}

	if targetProject == "" {
		names, err := projects.List(h.db, apiKey.UserID)
		if err != nil {
			log.Printf("Failed to fetch projects for user %d: %v", apiKey.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"projects": names,
			"message":  "Specify a project name to get settings. Use ?project=ProjectName",
		})
		return
	}

	if settingKey := c.Query("key"); settingKey != "" {
		value, err := settings.Get(h.db, apiKey.UserID, targetProject, settingKey)
		if err != nil {
			if errors.Is(err, settings.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{
					"error": fmt.Sprintf("Setting key %q not found in project %q", settingKey, targetProject),
				})
				return
			}
			log.Printf("Failed to fetch setting for user %d: %v", apiKey.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"project": targetProject,
			"key":     settingKey,
			"value":   value,
		})
		return
	}

	result, err := settings.List(h.db, apiKey.UserID, targetProject)
	if err != nil {
		log.Printf("Failed to fetch settings for user %d: %v", apiKey.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project":  targetProject,
		"settings": result,
	})
}

// RegisterRoutes registers the public endpoint. All methods are routed to
// the handler so non-GET requests get a 405 with CORS headers instead of
// the router's default 404.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Any("/api/get-settings", h.GetSettings)
}

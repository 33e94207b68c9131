package settings

import (
	"errors"
	"net/http"
	"strings"

	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/auth"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles settings-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new settings handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// UpsertSettingRequest represents the request to set a single setting
type UpsertSettingRequest struct {
	Value string `json:"value"`
}

// ReplaceAllRequest represents the request to replace every setting in a
// project. An empty map is valid and clears the project; a missing
// settings field is rejected so a malformed body cannot wipe anything.
type ReplaceAllRequest struct {
	Settings map[string]string `json:"settings"`
}

// RenameSettingRequest represents the request to rename a setting key
type RenameSettingRequest struct {
	OldKey string `json:"old_key" binding:"required"`
	NewKey string `json:"new_key" binding:"required"`
	Value  string `json:"value"`
}

// List returns all settings for a project
// @Summary List settings in a project
// @Tags settings
// @Produce json
// @Param name path string true "Project name"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /projects/{name}/settings [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	project := c.Param("name")

	result, err := List(h.db, userID, project)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project, "settings": result})
}

// Get returns a single setting value
// @Summary Get one setting
// @Tags settings
// @Produce json
// @Param name path string true "Project name"
// @Param key path string true "Setting key"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Setting not found"
// @Security BearerAuth
// @Router /projects/{name}/settings/{key} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	project := c.Param("name")
	key := c.Param("key")

	value, err := Get(h.db, userID, project, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Setting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch setting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project, "key": key, "value": value})
}

// Upsert inserts or replaces a single setting
// @Summary Set one setting
// @Tags settings
// @Accept json
// @Produce json
// @Param name path string true "Project name"
// @Param key path string true "Setting key"
// @Param request body UpsertSettingRequest true "Setting value"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid key"
// @Security BearerAuth
// @Router /projects/{name}/settings/{key} [put]
func (h *Handler) Upsert(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	project := c.Param("name")
	key := strings.TrimSpace(c.Param("key"))

	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Setting key is required"})
		return
	}

	var req UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := Upsert(h.db, userID, project, key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save setting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project, "key": key, "value": req.Value})
}

// Delete removes a single setting
// @Summary Delete one setting
// @Tags settings
// @Produce json
// @Param name path string true "Project name"
// @Param key path string true "Setting key"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Setting not found"
// @Security BearerAuth
// @Router /projects/{name}/settings/{key} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	project := c.Param("name")
	key := c.Param("key")

	if err := Delete(h.db, userID, project, key); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Setting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete setting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Setting deleted"})
}

// ReplaceAll replaces every setting in a project with the given map
// @Summary Replace all settings in a project
// @Tags settings
// @Accept json
// @Produce json
// @Param name path string true "Project name"
// @Param request body ReplaceAllRequest true "New settings map"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /projects/{name}/settings [put]
func (h *Handler) ReplaceAll(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	project := c.Param("name")

	var req ReplaceAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Settings == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A settings object is required"})
		return
	}

	if err := ReplaceAll(h.db, userID, project, req.Settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project, "settings": req.Settings})
}

// Rename atomically changes a setting's key and value
// @Summary Rename a setting key
// @Tags settings
// @Accept json
// @Produce json
// @Param name path string true "Project name"
// @Param request body RenameSettingRequest true "Old key, new key, and value"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Setting not found"
// @Failure 409 {object} map[string]string "New key already exists"
// @Security BearerAuth
// @Router /projects/{name}/settings [patch]
func (h *Handler) Rename(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	project := c.Param("name")

	var req RenameSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newKey := strings.TrimSpace(req.NewKey)
	if newKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Setting key is required"})
		return
	}

	if err := Rename(h.db, userID, project, req.OldKey, newKey, req.Value); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Setting not found"})
		case errors.Is(err, ErrKeyConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "A setting with the new key already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rename setting"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project, "key": newKey, "value": req.Value})
}

// RegisterRoutes registers settings routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/projects/:name/settings", h.List)
	rg.PUT("/projects/:name/settings", h.ReplaceAll)
	rg.PATCH("/projects/:name/settings", h.Rename)
	rg.GET("/projects/:name/settings/:key", h.Get)
	rg.PUT("/projects/:name/settings/:key", h.Upsert)
	rg.DELETE("/projects/:name/settings/:key", h.Delete)
}

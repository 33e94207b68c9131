package projects

import (
	"errors"
	"net/http"
	"strings"

	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/auth"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles project-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new projects handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateProjectRequest represents the request to create a project
type CreateProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

// List returns the names of the authenticated user's projects
// @Summary List projects
// @Tags projects
// @Produce json
// @Success 200 {object} map[string][]string
// @Security BearerAuth
// @Router /projects [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	names, err := List(h.db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": names})
}

// Create creates a new project
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Param request body CreateProjectRequest true "Project name"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid name"
// @Failure 409 {object} map[string]string "Project already exists"
// @Security BearerAuth
// @Router /projects [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project name is required"})
		return
	}

	project, err := Create(h.db, userID, name)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "A project with this name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project.Name})
}

// EnsureDefault creates the default project if the user has none
// @Summary Ensure at least one project exists
// @Tags projects
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /projects/ensure-default [post]
func (h *Handler) EnsureDefault(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	name, err := EnsureDefault(h.db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ensure default project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": name})
}

// Delete removes a project and all its settings
// @Summary Delete a project
// @Tags projects
// @Produce json
// @Param name path string true "Project name"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Project not found"
// @Security BearerAuth
// @Router /projects/{name} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	name := c.Param("name")

	if err := Delete(h.db, userID, name); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// RegisterRoutes registers project routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/projects", h.List)
	rg.POST("/projects", h.Create)
	rg.POST("/projects/ensure-default", h.EnsureDefault)
	rg.DELETE("/projects/:name", h.Delete)
}

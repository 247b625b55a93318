package api

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/elijahbrown/collabhub/internal/models"
	"github.com/elijahbrown/collabhub/internal/service"
)

// slugPattern is the only place slug shape is enforced — lowercase
// alphanumeric plus hyphens, the characters safe in a path segment.
var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// reservedSlugs can never be claimed: they would shadow service routes.
var reservedSlugs = map[string]bool{
	"api":     true,
	"healthz": true,
	"assets":  true,
	"login":   true,
}

type CollaboratorHandler struct {
	svc    *service.CollaboratorService
	logger *zap.Logger
}

func NewCollaboratorHandler(svc *service.CollaboratorService, logger *zap.Logger) *CollaboratorHandler {
	return &CollaboratorHandler{svc: svc, logger: logger}
}

type createCollaboratorRequest struct {
	Name               string   `json:"name" binding:"required"`
	Email              string   `json:"email"`
	Slug               string   `json:"slug" binding:"required"`
	Password           string   `json:"password" binding:"required"`
	ProjectName        string   `json:"project_name" binding:"required"`
	Subdomain          string   `json:"subdomain"`
	ProjectDescription string   `json:"project_description"`
	FathomShareURLs    []string `json:"fathom_share_urls"`
	GenerateEmail      bool     `json:"generate_email"`
}

type updateCollaboratorRequest struct {
	Name               *string                         `json:"name"`
	Email              *string                         `json:"email"`
	Password           *string                         `json:"password"`
	Subdomain          *string                         `json:"subdomain"`
	ProjectName        *string                         `json:"project_name"`
	ProjectDescription *string                         `json:"project_description"`
	Status             *models.Status                  `json:"status"`
	CustomContent      *[]models.ContentSection        `json:"custom_content"`
	Notifications      *models.NotificationPreferences `json:"notification_preferences"`
}

// collaboratorSummary is the list-view shape: no hash, no content, just
// enough to drive a dashboard table.
type collaboratorSummary struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Slug         string        `json:"slug"`
	Subdomain    string        `json:"subdomain,omitempty"`
	ProjectName  string        `json:"project_name"`
	Status       models.Status `json:"status"`
	MeetingCount int           `json:"meeting_count"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func summarize(c models.Collaborator) collaboratorSummary {
	return collaboratorSummary{
		ID:           c.ID.String(),
		Name:         c.Name,
		Slug:         c.Slug,
		Subdomain:    c.Subdomain,
		ProjectName:  c.ProjectName,
		Status:       c.Status,
		MeetingCount: len(c.Meetings),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// List handles GET /api/collaborators.
func (h *CollaboratorHandler) List(c *gin.Context) {
	collaborators, err := h.svc.ListCollaborators(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list collaborators", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list collaborators"})
		return
	}

	summaries := make([]collaboratorSummary, 0, len(collaborators))
	for _, collab := range collaborators {
		summaries = append(summaries, summarize(collab))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"collaborators": summaries,
		"total":         len(summaries),
	})
}

// Create handles POST /api/collaborators.
func (h *CollaboratorHandler) Create(c *gin.Context) {
	var req createCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !slugPattern.MatchString(req.Slug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug must contain only lowercase letters, numbers, and hyphens"})
		return
	}
	if reservedSlugs[req.Slug] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug is reserved"})
		return
	}
	if req.Subdomain != "" && !slugPattern.MatchString(req.Subdomain) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subdomain must contain only lowercase letters, numbers, and hyphens"})
		return
	}

	collab, welcome, err := h.svc.CreateCollaborator(c.Request.Context(), service.CreateInput{
		Name:               req.Name,
		Email:              req.Email,
		Slug:               req.Slug,
		Password:           req.Password,
		ProjectName:        req.ProjectName,
		Subdomain:          req.Subdomain,
		ProjectDescription: req.ProjectDescription,
		FathomShareURLs:    req.FathomShareURLs,
		GenerateEmail:      req.GenerateEmail,
	})
	if err != nil {
		if errors.Is(err, service.ErrSlugTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Slug already exists"})
			return
		}
		h.logger.Error("failed to create collaborator", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create collaborator"})
		return
	}

	resp := gin.H{"success": true, "collaborator": collab}
	if welcome != nil {
		resp["email"] = welcome
	}
	c.JSON(http.StatusCreated, resp)
}

// GetByID handles GET /api/collaborators/:id (id or slug).
func (h *CollaboratorHandler) GetByID(c *gin.Context) {
	collab, err := h.svc.GetCollaborator(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "collaborator not found"})
			return
		}
		h.logger.Error("failed to get collaborator", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get collaborator"})
		return
	}
	c.JSON(http.StatusOK, collab)
}

// Update handles PUT /api/collaborators/:id.
func (h *CollaboratorHandler) Update(c *gin.Context) {
	var req updateCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active, inactive, or pending"})
		return
	}
	if req.Subdomain != nil && *req.Subdomain != "" && !slugPattern.MatchString(*req.Subdomain) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subdomain must contain only lowercase letters, numbers, and hyphens"})
		return
	}

	collab, err := h.svc.GetCollaborator(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "collaborator not found"})
			return
		}
		h.logger.Error("failed to resolve collaborator", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update collaborator"})
		return
	}

	updated, err := h.svc.UpdateCollaborator(c.Request.Context(), collab.ID, service.UpdateInput{
		Name:               req.Name,
		Email:              req.Email,
		Password:           req.Password,
		Subdomain:          req.Subdomain,
		ProjectName:        req.ProjectName,
		ProjectDescription: req.ProjectDescription,
		Status:             req.Status,
		CustomContent:      req.CustomContent,
		Notifications:      req.Notifications,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "collaborator not found"})
		case errors.Is(err, service.ErrSlugTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Slug already exists"})
		default:
			h.logger.Error("failed to update collaborator", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update collaborator"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/collaborators/:id.
func (h *CollaboratorHandler) Delete(c *gin.Context) {
	collab, err := h.svc.GetCollaborator(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "collaborator not found"})
			return
		}
		h.logger.Error("failed to resolve collaborator", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete collaborator"})
		return
	}

	if err := h.svc.DeleteCollaborator(c.Request.Context(), collab.ID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "collaborator not found"})
			return
		}
		h.logger.Error("failed to delete collaborator", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete collaborator"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

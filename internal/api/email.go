package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/elijahbrown/collabhub/internal/service"
)

type EmailHandler struct {
	svc    *service.CollaboratorService
	logger *zap.Logger
}

func NewEmailHandler(svc *service.CollaboratorService, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{svc: svc, logger: logger}
}

// Generate handles GET /api/collaborators/:id/email?type=welcome|meeting.
//
// type=welcome additionally requires password= — only the bcrypt hash is
// stored, so the credential the email discloses has to come from the
// caller. type=meeting requires meetingTitle= and shareUrl=.
func (h *EmailHandler) Generate(c *gin.Context) {
	id := c.Param("id")

	switch c.Query("type") {
	case "welcome":
		password := c.Query("password")
		if password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password query parameter is required for welcome emails"})
			return
		}
		email, err := h.svc.WelcomeEmail(c.Request.Context(), id, password, c.Query("baseUrl"))
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, email)

	case "meeting":
		title := c.Query("meetingTitle")
		shareURL := c.Query("shareUrl")
		if title == "" || shareURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "meetingTitle and shareUrl query parameters are required"})
			return
		}
		email, err := h.svc.MeetingEmail(c.Request.Context(), id, title, shareURL)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, email)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be welcome or meeting"})
	}
}

func (h *EmailHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "collaborator not found"})
		return
	}
	h.logger.Error("failed to generate email", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate email"})
}

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elijahbrown/collabhub/internal/service"
)

type MeetingHandler struct {
	svc    *service.CollaboratorService
	logger *zap.Logger
}

func NewMeetingHandler(svc *service.CollaboratorService, logger *zap.Logger) *MeetingHandler {
	return &MeetingHandler{svc: svc, logger: logger}
}

type addMeetingRequest struct {
	ShareURL         string `json:"share_url" binding:"required"`
	Title            string `json:"title" binding:"required"`
	RecordedAt       string `json:"recorded_at"`
	SendNotification bool   `json:"send_notification"`
}

// Add handles POST /api/collaborators/:id/meetings.
func (h *MeetingHandler) Add(c *gin.Context) {
	var req addMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var recordedAt *time.Time
	if req.RecordedAt != "" {
		t, err := time.Parse(time.RFC3339, req.RecordedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recorded_at must be an RFC 3339 timestamp"})
			return
		}
		recordedAt = &t
	}

	collab, notification, err := h.svc.AddMeeting(c.Request.Context(), c.Param("id"), service.AddMeetingInput{
		ShareURL:         req.ShareURL,
		Title:            req.Title,
		RecordedAt:       recordedAt,
		SendNotification: req.SendNotification,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "collaborator not found"})
			return
		}
		h.logger.Error("failed to add meeting", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add meeting"})
		return
	}

	resp := gin.H{"success": true, "collaborator": collab}
	if notification != nil {
		resp["email"] = notification
	}
	c.JSON(http.StatusCreated, resp)
}

// Remove handles DELETE /api/collaborators/:id/meetings?meetingId=...
// Removing a meeting id the collaborator doesn't have is a success with
// an unchanged list; only an unknown collaborator is a 404.
func (h *MeetingHandler) Remove(c *gin.Context) {
	raw := c.Query("meetingId")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meetingId query parameter is required"})
		return
	}
	meetingID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meetingId"})
		return
	}

	collab, err := h.svc.RemoveMeeting(c.Request.Context(), c.Param("id"), meetingID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "collaborator not found"})
			return
		}
		h.logger.Error("failed to remove meeting", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove meeting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "collaborator": collab})
}

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/tally/internal/domain/models"
)

// Account manages notifications, the owner profile and manual alerts.
type Account interface {
	Notifications() []models.Notification
	ClearNotifications(ctx context.Context) error
	MarkNotificationsRead(ctx context.Context) error
	Profile() models.UserProfile
	UpdateProfile(ctx context.Context, in models.ProfileInput) (models.UserProfile, error)
	SendAlert(ctx context.Context, msg models.OutboundMessage) (string, error)
}

// AccountHandler serves notifications, the profile and owner alerts.
type AccountHandler struct {
	svc    Account
	logger *zap.Logger
}

// NewAccountHandler constructs the HTTP handler adapter.
func NewAccountHandler(svc Account, logger *zap.Logger) *AccountHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountHandler{svc: svc, logger: logger}
}

// Notifications lists notifications, newest first.
func (h *AccountHandler) Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Notifications())
}

// ClearNotifications empties the notification list.
func (h *AccountHandler) ClearNotifications(c *gin.Context) {
	if err := h.svc.ClearNotifications(c.Request.Context()); err != nil {
		respondError(c, h.logger, "failed to clear notifications", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkNotificationsRead flags every notification as read.
func (h *AccountHandler) MarkNotificationsRead(c *gin.Context) {
	if err := h.svc.MarkNotificationsRead(c.Request.Context()); err != nil {
		respondError(c, h.logger, "failed to mark notifications read", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Profile returns the owner profile.
func (h *AccountHandler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Profile())
}

// UpdateProfile saves the owner profile.
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var in models.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	profile, err := h.svc.UpdateProfile(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "failed to update profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SendAlert sends a manual WhatsApp message, to the owner by default.
func (h *AccountHandler) SendAlert(c *gin.Context) {
	var msg models.OutboundMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	id, err := h.svc.SendAlert(c.Request.Context(), msg)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("failed sending alert", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
			return
		}
		respondError(c, h.logger, "failed sending alert", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"messageId": id})
}

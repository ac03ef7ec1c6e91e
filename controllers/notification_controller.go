package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moniquedpoliveira/licito3/services"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// List returns the notifications visible to the authenticated user, unread
// first, then most recent first.
func (ctl *NotificationController) List(c *gin.Context) {
	email := c.GetString("email")
	role := c.GetString("role")

	visible := ctl.notifications.NotificationsForUser(email, role)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    visible,
		"count":   len(visible),
	})
}

// UnreadCount returns how many visible notifications the user has not read.
func (ctl *NotificationController) UnreadCount(c *gin.Context) {
	count := ctl.notifications.UnreadCount(c.GetString("email"), c.GetString("role"))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"unread": count},
	})
}

// MarkAsRead records the user's read receipt on one notification.
func (ctl *NotificationController) MarkAsRead(c *gin.Context) {
	ctl.notifications.MarkAsRead(c.Param("id"), c.GetString("email"))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Notificação marcada como lida",
	})
}

// MarkAllAsRead records the user's read receipt on every notification.
func (ctl *NotificationController) MarkAllAsRead(c *gin.Context) {
	ctl.notifications.MarkAllAsRead(c.GetString("email"))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Todas as notificações marcadas como lidas",
	})
}

// Delete removes a notification entirely.
func (ctl *NotificationController) Delete(c *gin.Context) {
	ctl.notifications.DeleteNotification(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Notificação removida",
	})
}

type systemAlertRequest struct {
	Title       string   `json:"title" binding:"required"`
	Message     string   `json:"message" binding:"required"`
	TargetRoles []string `json:"targetRoles"`
	Priority    string   `json:"priority"`
}

// CreateSystemAlert broadcasts an alert to the given roles.
func (ctl *NotificationController) CreateSystemAlert(c *gin.Context) {
	var req systemAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Título e mensagem são obrigatórios"})
		return
	}

	id := ctl.notifications.CreateSystemAlert(req.Title, req.Message, req.TargetRoles, req.Priority)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"id": id},
	})
}

// Cleanup removes expired notifications and reports how many went away.
func (ctl *NotificationController) Cleanup(c *gin.Context) {
	removed := ctl.notifications.CleanupExpiredNotifications()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"removed": removed},
	})
}

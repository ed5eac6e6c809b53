package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MyNotificationsHandler lists the caller's notifications. Pass
// ?unread=true to see only unread ones.
func (hb *HandlerBundle) MyNotificationsHandler(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	notifications, err := hb.Notifier.UserNotifications(c.Request.Context(), c.GetString("userID"), unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationReadHandler flags one notification as read.
func (hb *HandlerBundle) MarkNotificationReadHandler(c *gin.Context) {
	if err := hb.Notifier.MarkRead(c.Request.Context(), c.Param("id"), c.GetString("userID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"corpbank-portal-api/config"
	"corpbank-portal-api/models"
)

// GetNotifications lists the caller's in-app notifications, newest first.
// ?unread=1 narrows to unread ones.
func GetNotifications(c *gin.Context) {
	profileID, _, ok := currentActor(c)
	if !ok {
		return
	}

	query := config.DB.Where("profile_id = ?", profileID)
	if c.Query("unread") == "1" {
		query = query.Where("is_read = ?", false)
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	var notifications []models.Notification
	if err := query.Order("create_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	var unread int64
	config.DB.Model(&models.Notification{}).
		Where("profile_id = ? AND is_read = ?", profileID, false).
		Count(&unread)

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         len(notifications),
		"unread":        unread,
	})
}

// MarkNotificationRead marks one notification as read.
func MarkNotificationRead(c *gin.Context) {
	profileID, _, ok := currentActor(c)
	if !ok {
		return
	}

	now := time.Now()
	res := config.DB.Model(&models.Notification{}).
		Where("notification_id = ? AND profile_id = ?", c.Param("id"), profileID).
		Updates(map[string]interface{}{"is_read": true, "update_at": now})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead marks every unread notification of the caller.
func MarkAllNotificationsRead(c *gin.Context) {
	profileID, _, ok := currentActor(c)
	if !ok {
		return
	}

	now := time.Now()
	res := config.DB.Model(&models.Notification{}).
		Where("profile_id = ? AND is_read = ?", profileID, false).
		Updates(map[string]interface{}{"is_read": true, "update_at": now})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notifications marked as read",
		"updated": res.RowsAffected,
	})
}

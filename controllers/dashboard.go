package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"corpbank-portal-api/config"
	"corpbank-portal-api/models"
)

// GetDashboardStats returns dashboard statistics. Admins get the full
// per-role per-status breakdown; everyone else gets their own slice.
func GetDashboardStats(c *gin.Context) {
	profileID, role, ok := currentActor(c)
	if !ok {
		return
	}

	actor := models.Profile{ProfileID: profileID, Role: role, IsActive: true}

	counts, err := reporting.StatusCountsFor(&actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}

	stats := gin.H{
		"status_counts": counts,
		"total":         counts.Total(),
		"current_date":  time.Now().Format("2006-01-02"),
	}

	if role == models.RoleAdmin {
		breakdown, err := reporting.RoleBreakdownAll()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
			return
		}
		stats["by_role"] = breakdown

		var pendingReview int64
		config.DB.Model(&models.Application{}).
			Where("status = ? AND delete_at IS NULL", models.StatusSubmit).
			Count(&pendingReview)
		stats["pending_review"] = pendingReview
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

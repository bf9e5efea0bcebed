package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"corpbank-portal-api/config"
	"corpbank-portal-api/models"
	"corpbank-portal-api/services"
)

// GetApplications returns the applications visible to the caller, optionally
// filtered by status or customer.
func GetApplications(c *gin.Context) {
	profileID, role, ok := currentActor(c)
	if !ok {
		return
	}

	var applications []models.Application
	query := config.DB.Preload("Customer").
		Where("applications.delete_at IS NULL")

	// Role scoping mirrors the services role gate: admins see everything,
	// managers their created-or-assigned slice, everyone else their own.
	switch role {
	case models.RoleAdmin:
	case models.RoleManager:
		query = query.Where("created_by = ? OR assigned_manager = ?", profileID, profileID)
	default:
		query = query.Where("created_by = ?", profileID)
	}

	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query = query.Where("status = ?", status)
	}

	if customerID := c.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	if err := query.Order("create_at DESC").Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"total":        len(applications),
	})
}

// GetApplication returns single application by ID
func GetApplication(c *gin.Context) {
	id := c.Param("id")
	profileID, role, ok := currentActor(c)
	if !ok {
		return
	}

	var application models.Application
	if err := config.DB.Preload("Customer").Preload("Creator").
		Where("application_id = ? AND applications.delete_at IS NULL", id).
		First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	actor := models.Profile{ProfileID: profileID, Role: role, IsActive: true}
	if !services.CanView(&actor, &application) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application":   application,
		"next_statuses": services.SuccessorsOf(application.Status),
	})
}

// CreateApplication opens a new draft application for a customer.
func CreateApplication(c *gin.Context) {
	type CreateApplicationRequest struct {
		CustomerID      string         `json:"customer_id" binding:"required"`
		ApplicationData models.JSONMap `json:"application_data" binding:"required"`
	}

	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profileID, role, ok := currentActor(c)
	if !ok {
		return
	}

	var customer models.Customer
	if err := config.DB.Where("customer_id = ? AND delete_at IS NULL", req.CustomerID).
		First(&customer).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer"})
		return
	}

	// Non-staff may only open applications for customers they registered.
	if role != models.RoleAdmin && role != models.RoleManager && customer.CreatedBy != profileID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Customer belongs to another account"})
		return
	}

	now := time.Now()
	application := models.Application{
		ApplicationID:   uuid.NewString(),
		CustomerID:      req.CustomerID,
		Status:          models.StatusDraft,
		CreatedBy:       profileID,
		CreatedByRole:   role,
		ApplicationData: req.ApplicationData,
		CreateAt:        &now,
		UpdateAt:        &now,
	}

	if err := config.DB.Create(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create application"})
		return
	}

	config.DB.Preload("Customer").First(&application, "application_id = ?", application.ApplicationID)

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application created successfully",
		"application": application,
	})
}

// UpdateApplication updates the free-form payload. Only drafts are editable;
// everything after draft changes exclusively through transitions.
func UpdateApplication(c *gin.Context) {
	id := c.Param("id")
	profileID, role, ok := currentActor(c)
	if !ok {
		return
	}

	type UpdateApplicationRequest struct {
		ApplicationData models.JSONMap `json:"application_data" binding:"required"`
	}

	var req UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var application models.Application
	query := config.DB.Where("application_id = ? AND delete_at IS NULL", id)
	if role != models.RoleAdmin {
		query = query.Where("created_by = ?", profileID)
	}
	if err := query.First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	if application.Status != models.StatusDraft {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only draft applications can be edited"})
		return
	}

	now := time.Now()
	application.ApplicationData = req.ApplicationData
	application.UpdateAt = &now

	if err := config.DB.Save(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application updated successfully",
		"application": application,
	})
}

// TransitionApplication moves an application to a new status through the
// workflow executor.
func TransitionApplication(c *gin.Context) {
	id := c.Param("id")
	profileID, _, ok := currentActor(c)
	if !ok {
		return
	}

	type TransitionRequest struct {
		TargetStatus string  `json:"target_status" binding:"required"`
		Comment      *string `json:"comment"`
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := models.ParseStatus(req.TargetStatus)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	application, err := workflow.Transition(id, target, profileID, req.Comment)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Status updated successfully",
		"application": application,
	})
}

// GetApplicationHistory returns the status-change audit trail, newest first.
func GetApplicationHistory(c *gin.Context) {
	id := c.Param("id")
	profileID, role, ok := currentActor(c)
	if !ok {
		return
	}

	var application models.Application
	if err := config.DB.Where("application_id = ? AND delete_at IS NULL", id).
		First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	actor := models.Profile{ProfileID: profileID, Role: role, IsActive: true}
	if !services.CanView(&actor, &application) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	var history []models.StatusChange
	if err := config.DB.Where("application_id = ?", id).
		Order("created_at DESC").
		Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch status history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": history,
		"total":   len(history),
	})
}

// AssignManager sets the assigned manager on an application (admin only).
func AssignManager(c *gin.Context) {
	id := c.Param("id")
	profileID, _, ok := currentActor(c)
	if !ok {
		return
	}

	type AssignRequest struct {
		ManagerID string `json:"manager_id" binding:"required"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	application, err := workflow.AssignManager(id, req.ManagerID, profileID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Manager assigned successfully",
		"application": application,
	})
}

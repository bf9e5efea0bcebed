package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"corpbank-portal-api/config"
	"corpbank-portal-api/models"
	"corpbank-portal-api/utils"
)

// GetUsers lists portal accounts (admin only), optionally filtered by role.
func GetUsers(c *gin.Context) {
	var profiles []models.Profile
	query := config.DB.Where("delete_at IS NULL")

	if raw := c.Query("role"); raw != "" {
		role := models.Role(raw)
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
			return
		}
		query = query.Where("role = ?", role)
	}

	if err := query.Order("email ASC").Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": profiles,
		"total": len(profiles),
	})
}

// CreateUser provisions a new account with a fixed role (admin only). The
// role is immutable afterwards; a mis-assigned account is deactivated and
// re-created rather than re-roled.
func CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
		Role      string `json:"role" binding:"required"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var existing models.Profile
	if err := config.DB.Where("email = ? AND delete_at IS NULL", req.Email).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	now := time.Now()
	profile := models.Profile{
		ProfileID: uuid.NewString(),
		Email:     req.Email,
		Password:  hashed,
		FirstName: utils.SanitizeInput(req.FirstName),
		LastName:  utils.SanitizeInput(req.LastName),
		Role:      role,
		IsActive:  true,
		CreateAt:  &now,
		UpdateAt:  &now,
	}

	if err := config.DB.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    profile,
	})
}

// SetUserActive toggles the active flag on an account (admin only).
func SetUserActive(c *gin.Context) {
	type ActiveRequest struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}

	var req ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profileID, _, ok := currentActor(c)
	if !ok {
		return
	}
	targetID := c.Param("id")
	if targetID == profileID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot deactivate your own account"})
		return
	}

	now := time.Now()
	res := config.DB.Model(&models.Profile{}).
		Where("profile_id = ? AND delete_at IS NULL", targetID).
		Updates(map[string]interface{}{"is_active": *req.IsActive, "update_at": now})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

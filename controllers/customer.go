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

// GetCustomers returns the customers visible to the caller.
func GetCustomers(c *gin.Context) {
	profileID, role, ok := currentActor(c)
	if !ok {
		return
	}

	var customers []models.Customer
	query := config.DB.Where("delete_at IS NULL")
	if role != models.RoleAdmin && role != models.RoleManager {
		query = query.Where("created_by = ?", profileID)
	}

	if err := query.Order("company_name ASC").Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
		"total":     len(customers),
	})
}

// GetCustomer returns a single customer with its applications.
func GetCustomer(c *gin.Context) {
	id := c.Param("id")
	profileID, role, ok := currentActor(c)
	if !ok {
		return
	}

	var customer models.Customer
	query := config.DB.Preload("Applications", "delete_at IS NULL").
		Where("customer_id = ? AND customers.delete_at IS NULL", id)
	if role != models.RoleAdmin && role != models.RoleManager {
		query = query.Where("created_by = ?", profileID)
	}

	if err := query.First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// CreateCustomer registers a new customer record.
func CreateCustomer(c *gin.Context) {
	type CreateCustomerRequest struct {
		CompanyName  string  `json:"company_name" binding:"required"`
		ContactName  string  `json:"contact_name" binding:"required"`
		ContactEmail string  `json:"contact_email" binding:"required,email"`
		ContactPhone string  `json:"contact_phone"`
		LicenseType  string  `json:"license_type" binding:"required"`
		BankName     *string `json:"bank_name"`
	}

	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profileID, _, ok := currentActor(c)
	if !ok {
		return
	}

	now := time.Now()
	customer := models.Customer{
		CustomerID:   uuid.NewString(),
		CompanyName:  utils.SanitizeInput(req.CompanyName),
		ContactName:  utils.SanitizeInput(req.ContactName),
		ContactEmail: req.ContactEmail,
		ContactPhone: utils.SanitizeInput(req.ContactPhone),
		LicenseType:  utils.SanitizeInput(req.LicenseType),
		BankName:     req.BankName,
		CreatedBy:    profileID,
		CreateAt:     &now,
		UpdateAt:     &now,
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Customer created successfully",
		"customer": customer,
	})
}

// UpdateCustomer updates contact and preference fields.
func UpdateCustomer(c *gin.Context) {
	id := c.Param("id")
	profileID, role, ok := currentActor(c)
	if !ok {
		return
	}

	type UpdateCustomerRequest struct {
		CompanyName  string  `json:"company_name"`
		ContactName  string  `json:"contact_name"`
		ContactEmail string  `json:"contact_email"`
		ContactPhone string  `json:"contact_phone"`
		LicenseType  string  `json:"license_type"`
		BankName     *string `json:"bank_name"`
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var customer models.Customer
	query := config.DB.Where("customer_id = ? AND delete_at IS NULL", id)
	if role != models.RoleAdmin && role != models.RoleManager {
		query = query.Where("created_by = ?", profileID)
	}
	if err := query.First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	if req.ContactEmail != "" && !utils.ValidateEmail(req.ContactEmail) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact email"})
		return
	}

	now := time.Now()
	if req.CompanyName != "" {
		customer.CompanyName = utils.SanitizeInput(req.CompanyName)
	}
	if req.ContactName != "" {
		customer.ContactName = utils.SanitizeInput(req.ContactName)
	}
	if req.ContactEmail != "" {
		customer.ContactEmail = req.ContactEmail
	}
	if req.ContactPhone != "" {
		customer.ContactPhone = utils.SanitizeInput(req.ContactPhone)
	}
	if req.LicenseType != "" {
		customer.LicenseType = utils.SanitizeInput(req.LicenseType)
	}
	if req.BankName != nil {
		customer.BankName = req.BankName
	}
	customer.UpdateAt = &now

	if err := config.DB.Save(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Customer updated successfully",
		"customer": customer,
	})
}

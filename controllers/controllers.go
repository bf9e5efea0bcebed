package controllers

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"corpbank-portal-api/models"
	"corpbank-portal-api/services"
)

// Package-wide service handles, wired once at startup.
var (
	workflow  *services.WorkflowService
	reporting *services.ReportingService
	sessions  *services.SessionService
	logger    = zap.NewNop()
)

// Init wires the controller layer to its services. Called once from main.
func Init(db *gorm.DB, notifier services.Notifier, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	logger = log
	workflow = services.NewWorkflowService(db, notifier, log)
	reporting = services.NewReportingService(db)
	sessions = services.NewSessionService(db, refreshTTL())
}

func refreshTTL() time.Duration {
	days, err := strconv.Atoi(os.Getenv("REFRESH_TOKEN_DAYS"))
	if err != nil || days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

// currentActor pulls the authenticated identity set by the auth middleware.
func currentActor(c *gin.Context) (string, models.Role, bool) {
	idVal, okID := c.Get("profileID")
	roleVal, okRole := c.Get("role")
	if !okID || !okRole {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication context missing"})
		return "", "", false
	}
	return idVal.(string), roleVal.(models.Role), true
}

// respondWorkflowError maps the service error taxonomy onto HTTP statuses.
// Every rejection carries its specific reason so staff can correct the
// action instead of guessing.
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrApplicationNotFound),
		errors.Is(err, services.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrApplicationConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("unexpected workflow error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

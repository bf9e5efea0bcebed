package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"corpbank-portal-api/config"
	"corpbank-portal-api/models"
)

// StatusChangeEvent carries everything a notifier needs to describe a
// completed transition to the affected parties.
type StatusChangeEvent struct {
	Application    *models.Application
	PreviousStatus models.Status
	NewStatus      models.Status
	Actor          *models.Profile
	Comment        *string
}

// Notifier delivers a message about a committed status change. Delivery is
// fire-and-forget from the executor's point of view: an error is logged by
// the caller and never rolls back the transition.
type Notifier interface {
	NotifyStatusChange(event StatusChangeEvent) error
}

// NoopNotifier discards every event. Used in tests and in deployments
// without a configured mailer.
type NoopNotifier struct{}

func (NoopNotifier) NotifyStatusChange(StatusChangeEvent) error { return nil }

// PortalNotifier writes an in-app notification row for the application
// creator (and the assigned manager, when one exists) and emails the creator
// through the shared mailer.
type PortalNotifier struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPortalNotifier(db *gorm.DB, log *zap.Logger) *PortalNotifier {
	return &PortalNotifier{db: db, log: log}
}

func (n *PortalNotifier) NotifyStatusChange(event StatusChangeEvent) error {
	app := event.Application

	title := fmt.Sprintf("Application status changed to %s", event.NewStatus.Label())
	message := fmt.Sprintf("Application %s for %s moved from %s to %s.",
		app.ApplicationID, app.Customer.CompanyName,
		event.PreviousStatus.Label(), event.NewStatus.Label())
	if event.Comment != nil && *event.Comment != "" {
		message += " Comment: " + *event.Comment
	}

	recipients := []string{app.CreatedBy}
	if app.AssignedManager != nil && *app.AssignedManager != app.CreatedBy {
		recipients = append(recipients, *app.AssignedManager)
	}

	now := time.Now()
	for _, profileID := range recipients {
		row := models.Notification{
			NotificationID:       uuid.NewString(),
			ProfileID:            profileID,
			Title:                title,
			Message:              message,
			Type:                 notificationType(event.NewStatus),
			RelatedApplicationID: &app.ApplicationID,
			CreateAt:             now,
		}
		if err := n.db.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to store notification for %s: %w", profileID, err)
		}
	}

	if err := n.sendEmail(event, title); err != nil {
		// In-app rows are already written; email alone failing is still a
		// delivery failure for the caller to log.
		return err
	}
	return nil
}

func (n *PortalNotifier) sendEmail(event StatusChangeEvent, subject string) error {
	var creator models.Profile
	if err := n.db.Where("profile_id = ? AND delete_at IS NULL", event.Application.CreatedBy).
		First(&creator).Error; err != nil {
		return fmt.Errorf("failed to resolve notification recipient: %w", err)
	}
	if creator.Email == "" {
		return nil
	}

	html := fmt.Sprintf(
		`<p>Dear %s,</p>
<p>Your corporate account application <strong>%s</strong> has moved from
<strong>%s</strong> to <strong>%s</strong>.</p>
<p>Please sign in to the portal for details.</p>`,
		creator.FullName(),
		event.Application.ApplicationID,
		event.PreviousStatus.Label(),
		event.NewStatus.Label(),
	)

	return config.SendMail([]string{creator.Email}, subject, html)
}

func notificationType(status models.Status) string {
	switch status {
	case models.StatusCompleted, models.StatusPaid:
		return "success"
	case models.StatusRejected:
		return "error"
	case models.StatusNeedMoreInfo, models.StatusReturn:
		return "warning"
	}
	return "info"
}

package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"corpbank-portal-api/models"
)

// WorkflowService is the transition executor: it validates a requested
// status change against the transition table and the role gate, applies it
// atomically together with its audit row, and fans out notifications.
type WorkflowService struct {
	db       *gorm.DB
	notifier Notifier
	log      *zap.Logger
}

func NewWorkflowService(db *gorm.DB, notifier Notifier, log *zap.Logger) *WorkflowService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &WorkflowService{db: db, notifier: notifier, log: log}
}

// Transition moves the application to the target status on behalf of actorID.
//
// The status write and the StatusChange insert happen in one transaction.
// The status write is guarded on the previously read status, so a concurrent
// transition that got there first surfaces as ErrApplicationConflict instead
// of being silently clobbered. Notification delivery runs after commit and
// never fails the transition.
func (s *WorkflowService) Transition(applicationID string, target models.Status, actorID string, comment *string) (*models.Application, error) {
	if strings.TrimSpace(applicationID) == "" {
		return nil, fmt.Errorf("%w: application id is required", ErrValidation)
	}
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown target status %q", ErrValidation, target)
	}

	actor, err := s.loadActor(actorID)
	if err != nil {
		return nil, err
	}

	var app models.Application
	if err := s.db.Preload("Customer").
		Where("application_id = ? AND delete_at IS NULL", applicationID).
		First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	previous := app.Status
	if !CanTransition(previous, target) {
		return nil, invalidTransitionError(previous, target)
	}
	if err := Authorize(actor, &app, previous, target); err != nil {
		return nil, err
	}

	now := time.Now()
	change := models.StatusChange{
		StatusChangeID: uuid.NewString(),
		ApplicationID:  app.ApplicationID,
		PreviousStatus: previous,
		NewStatus:      target,
		ChangedBy:      actor.ProfileID,
		ChangedByRole:  actor.Role,
		Comment:        comment,
		CreatedAt:      now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Application{}).
			Where("application_id = ? AND status = ? AND delete_at IS NULL", app.ApplicationID, previous).
			Updates(map[string]interface{}{"status": target, "update_at": now})
		if res.Error != nil {
			return fmt.Errorf("failed to update application status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrApplicationConflict
		}
		if err := tx.Create(&change).Error; err != nil {
			return fmt.Errorf("failed to record status change: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	app.Status = target
	app.UpdateAt = &now

	if err := s.notifier.NotifyStatusChange(StatusChangeEvent{
		Application:    &app,
		PreviousStatus: previous,
		NewStatus:      target,
		Actor:          actor,
		Comment:        comment,
	}); err != nil {
		s.log.Warn("status change notification failed",
			zap.String("application_id", app.ApplicationID),
			zap.String("new_status", string(target)),
			zap.Error(err))
	}

	return &app, nil
}

// AssignManager sets or replaces the application's assigned manager. Only
// admins may assign; the target must be an active manager profile.
func (s *WorkflowService) AssignManager(applicationID, managerID, actorID string) (*models.Application, error) {
	actor, err := s.loadActor(actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may assign managers", ErrPermissionDenied)
	}

	var manager models.Profile
	if err := s.db.Where("profile_id = ? AND delete_at IS NULL", managerID).
		First(&manager).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: manager %s", ErrProfileNotFound, managerID)
		}
		return nil, fmt.Errorf("failed to load manager profile: %w", err)
	}
	if manager.Role != models.RoleManager || !manager.IsActive {
		return nil, fmt.Errorf("%w: assigned manager must be an active manager profile", ErrValidation)
	}

	var app models.Application
	if err := s.db.Where("application_id = ? AND delete_at IS NULL", applicationID).
		First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	now := time.Now()
	res := s.db.Model(&models.Application{}).
		Where("application_id = ? AND delete_at IS NULL", app.ApplicationID).
		Updates(map[string]interface{}{"assigned_manager": managerID, "update_at": now})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to assign manager: %w", res.Error)
	}

	app.AssignedManager = &managerID
	app.UpdateAt = &now
	return &app, nil
}

func (s *WorkflowService) loadActor(actorID string) (*models.Profile, error) {
	var actor models.Profile
	if err := s.db.Where("profile_id = ? AND delete_at IS NULL", actorID).
		First(&actor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: actor %s", ErrProfileNotFound, actorID)
		}
		return nil, fmt.Errorf("failed to load actor profile: %w", err)
	}
	return &actor, nil
}

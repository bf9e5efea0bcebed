package services

import (
	"fmt"

	"corpbank-portal-api/models"
)

// submitterTransitions is the subset of transitions a partner or user may
// trigger on their own applications: the first submission and the
// resubmission paths.
var submitterTransitions = map[[2]models.Status]bool{
	{models.StatusDraft, models.StatusSubmit}:        true,
	{models.StatusNeedMoreInfo, models.StatusSubmit}: true,
	{models.StatusReturn, models.StatusSubmit}:       true,
}

// Authorize decides whether the actor may move the application from one
// status to another. It is the single authority on transition permissions;
// route-level role checks only pre-filter and never re-derive these rules.
//
// The transition itself is assumed legal - the executor checks the
// transition table first so callers can distinguish "not a valid state
// change" from "not allowed".
func Authorize(actor *models.Profile, app *models.Application, from, to models.Status) error {
	if actor == nil {
		return fmt.Errorf("%w: missing actor", ErrPermissionDenied)
	}
	if !actor.IsActive {
		return fmt.Errorf("%w: account is inactive", ErrPermissionDenied)
	}

	switch actor.Role {
	case models.RoleAdmin:
		return nil

	case models.RoleManager:
		if app.CreatedBy == actor.ProfileID {
			return nil
		}
		if app.AssignedManager != nil && *app.AssignedManager == actor.ProfileID {
			return nil
		}
		return fmt.Errorf("%w: application is not created by or assigned to this manager", ErrPermissionDenied)

	case models.RolePartner, models.RoleUser:
		if app.CreatedBy != actor.ProfileID {
			return fmt.Errorf("%w: application belongs to another account", ErrPermissionDenied)
		}
		if !submitterTransitions[[2]models.Status{from, to}] {
			return fmt.Errorf("%w: role %s may only submit or resubmit", ErrPermissionDenied, actor.Role)
		}
		return nil
	}

	return fmt.Errorf("%w: unknown role %q", ErrPermissionDenied, actor.Role)
}

// CanView reports whether the actor may read the application at all. Admins
// see everything, managers their created or assigned applications, partners
// and users their own.
func CanView(actor *models.Profile, app *models.Application) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		return app.CreatedBy == actor.ProfileID ||
			(app.AssignedManager != nil && *app.AssignedManager == actor.ProfileID)
	default:
		return app.CreatedBy == actor.ProfileID
	}
}

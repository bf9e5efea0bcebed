package services

import (
	"errors"
	"testing"

	"corpbank-portal-api/models"
)

func profileOf(id string, role models.Role) *models.Profile {
	return &models.Profile{ProfileID: id, Role: role, IsActive: true}
}

func appOf(createdBy string, role models.Role, manager *string) *models.Application {
	return &models.Application{
		ApplicationID:   "app-1",
		CreatedBy:       createdBy,
		CreatedByRole:   role,
		AssignedManager: manager,
	}
}

func TestAuthorizeAdminAnyTransition(t *testing.T) {
	admin := profileOf("adm-1", models.RoleAdmin)
	app := appOf("usr-1", models.RoleUser, nil)

	for _, from := range models.AllStatuses {
		for _, to := range SuccessorsOf(from) {
			if err := Authorize(admin, app, from, to); err != nil {
				t.Errorf("admin denied %s -> %s: %v", from, to, err)
			}
		}
	}
}

func TestAuthorizeManagerScope(t *testing.T) {
	managerID := "mgr-1"

	tests := []struct {
		name    string
		app     *models.Application
		wantErr bool
	}{
		{"own application", appOf(managerID, models.RoleManager, nil), false},
		{"assigned application", appOf("usr-1", models.RoleUser, &managerID), false},
		{"unrelated application", appOf("usr-1", models.RoleUser, nil), true},
	}

	manager := profileOf(managerID, models.RoleManager)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(manager, tt.app, models.StatusSubmit, models.StatusCompleted)
			if tt.wantErr {
				if !errors.Is(err, ErrPermissionDenied) {
					t.Fatalf("expected ErrPermissionDenied, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAuthorizeSubmitterRoles(t *testing.T) {
	for _, role := range []models.Role{models.RolePartner, models.RoleUser} {
		actor := profileOf("acc-1", role)
		own := appOf("acc-1", role, nil)
		foreign := appOf("acc-2", role, nil)

		// Submission and resubmission on own applications are allowed.
		allowed := [][2]models.Status{
			{models.StatusDraft, models.StatusSubmit},
			{models.StatusNeedMoreInfo, models.StatusSubmit},
			{models.StatusReturn, models.StatusSubmit},
		}
		for _, pair := range allowed {
			if err := Authorize(actor, own, pair[0], pair[1]); err != nil {
				t.Errorf("%s denied %s -> %s on own application: %v", role, pair[0], pair[1], err)
			}
		}

		// Review transitions are staff-only regardless of ownership.
		if err := Authorize(actor, own, models.StatusSubmit, models.StatusCompleted); !errors.Is(err, ErrPermissionDenied) {
			t.Errorf("%s must not complete applications, got %v", role, err)
		}

		// Any transition on someone else's application is denied, even a
		// legal submission.
		if err := Authorize(actor, foreign, models.StatusDraft, models.StatusSubmit); !errors.Is(err, ErrPermissionDenied) {
			t.Errorf("%s must not act on foreign applications, got %v", role, err)
		}
	}
}

func TestAuthorizeInactiveActor(t *testing.T) {
	actor := &models.Profile{ProfileID: "adm-1", Role: models.RoleAdmin, IsActive: false}
	app := appOf("usr-1", models.RoleUser, nil)

	if err := Authorize(actor, app, models.StatusDraft, models.StatusSubmit); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("inactive account must be denied, got %v", err)
	}
}

func TestAuthorizeUnknownRole(t *testing.T) {
	actor := &models.Profile{ProfileID: "x-1", Role: "auditor", IsActive: true}
	app := appOf("x-1", models.RoleUser, nil)

	if err := Authorize(actor, app, models.StatusDraft, models.StatusSubmit); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("unknown role must be denied, got %v", err)
	}
}

func TestCanView(t *testing.T) {
	managerID := "mgr-1"

	tests := []struct {
		name  string
		actor *models.Profile
		app   *models.Application
		want  bool
	}{
		{"admin sees all", profileOf("adm-1", models.RoleAdmin), appOf("usr-1", models.RoleUser, nil), true},
		{"manager sees assigned", profileOf(managerID, models.RoleManager), appOf("usr-1", models.RoleUser, &managerID), true},
		{"manager blind to unrelated", profileOf(managerID, models.RoleManager), appOf("usr-1", models.RoleUser, nil), false},
		{"user sees own", profileOf("usr-1", models.RoleUser), appOf("usr-1", models.RoleUser, nil), true},
		{"user blind to others", profileOf("usr-1", models.RoleUser), appOf("usr-2", models.RoleUser, nil), false},
		{"nil actor", nil, appOf("usr-1", models.RoleUser, nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanView(tt.actor, tt.app); got != tt.want {
				t.Errorf("CanView = %v, want %v", got, tt.want)
			}
		})
	}
}

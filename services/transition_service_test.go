package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"corpbank-portal-api/models"
)

type fakeNotifier struct {
	events []StatusChangeEvent
	err    error
}

func (f *fakeNotifier) NotifyStatusChange(event StatusChangeEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gdb, mock
}

func profileRows(id string, role models.Role, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"profile_id", "email", "first_name", "last_name", "role", "is_active"}).
		AddRow(id, id+"@bank.example", "Test", "Account", string(role), active)
}

func applicationRows(id, createdBy string, role models.Role, status models.Status, manager *string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"application_id", "customer_id", "status", "created_by", "created_by_role",
		"assigned_manager", "create_at", "update_at",
	}).AddRow(id, "cus-1", string(status), createdBy, string(role), manager, now, now)
}

func customerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"customer_id", "company_name"}).
		AddRow("cus-1", "Acme Trading LLC")
}

// expectLoad queues the actor, application, and customer lookups that every
// Transition call performs first.
func expectLoad(mock sqlmock.Sqlmock, actorID string, actorRole models.Role, appStatus models.Status, createdBy string, manager *string) {
	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(profileRows(actorID, actorRole, true))
	mock.ExpectQuery(`SELECT \* FROM "applications"`).
		WillReturnRows(applicationRows("app-1", createdBy, models.RoleUser, appStatus, manager))
	mock.ExpectQuery(`SELECT \* FROM "customers"`).
		WillReturnRows(customerRows())
}

func TestTransitionDraftToSubmitByOwner(t *testing.T) {
	gdb, mock := newMockDB(t)
	notifier := &fakeNotifier{}
	svc := NewWorkflowService(gdb, notifier, nil)

	expectLoad(mock, "usr-1", models.RoleUser, models.StatusDraft, "usr-1", nil)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "status_changes"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	comment := "ready for review"
	app, err := svc.Transition("app-1", models.StatusSubmit, "usr-1", &comment)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmit, app.Status)

	// The customer relation must come back assigned; notification messages
	// render the company name from it.
	assert.Equal(t, "Acme Trading LLC", app.Customer.CompanyName)

	require.Len(t, notifier.events, 1)
	event := notifier.events[0]
	assert.Equal(t, models.StatusDraft, event.PreviousStatus)
	assert.Equal(t, models.StatusSubmit, event.NewStatus)
	assert.Equal(t, "usr-1", event.Actor.ProfileID)
	require.NotNil(t, event.Comment)
	assert.Equal(t, comment, *event.Comment)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionIllegalPairRejectedBeforeWrite(t *testing.T) {
	gdb, mock := newMockDB(t)
	notifier := &fakeNotifier{}
	svc := NewWorkflowService(gdb, notifier, nil)

	// Completed has a single outbound edge (paid); draft is unreachable.
	expectLoad(mock, "adm-1", models.RoleAdmin, models.StatusCompleted, "usr-1", nil)

	_, err := svc.Transition("app-1", models.StatusDraft, "adm-1", nil)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "cannot move from Completed to Draft")

	assert.Empty(t, notifier.events)
	// No BEGIN was queued: the stored status stays untouched.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionUnassignedManagerDenied(t *testing.T) {
	gdb, mock := newMockDB(t)
	notifier := &fakeNotifier{}
	svc := NewWorkflowService(gdb, notifier, nil)

	// Legal transition, wrong manager: permission failure must be distinct
	// from transition legality.
	expectLoad(mock, "mgr-2", models.RoleManager, models.StatusSubmit, "usr-1", strPtr("mgr-1"))

	_, err := svc.Transition("app-1", models.StatusCompleted, "mgr-2", nil)
	require.ErrorIs(t, err, ErrPermissionDenied)
	assert.NotErrorIs(t, err, ErrInvalidTransition)

	assert.Empty(t, notifier.events)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewWorkflowService(gdb, &fakeNotifier{}, nil)

	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(profileRows("adm-1", models.RoleAdmin, true))
	mock.ExpectQuery(`SELECT \* FROM "applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"application_id"}))

	_, err := svc.Transition("app-missing", models.StatusSubmit, "adm-1", nil)
	require.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestTransitionConcurrentUpdateConflict(t *testing.T) {
	gdb, mock := newMockDB(t)
	notifier := &fakeNotifier{}
	svc := NewWorkflowService(gdb, notifier, nil)

	expectLoad(mock, "adm-1", models.RoleAdmin, models.StatusSubmit, "usr-1", nil)
	mock.ExpectBegin()
	// Another transition won the race; the guarded update matches no row.
	mock.ExpectExec(`UPDATE "applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.Transition("app-1", models.StatusCompleted, "adm-1", nil)
	require.ErrorIs(t, err, ErrApplicationConflict)

	assert.Empty(t, notifier.events)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionSucceedsWhenNotifierFails(t *testing.T) {
	gdb, mock := newMockDB(t)
	notifier := &fakeNotifier{err: errors.New("smtp unreachable")}
	svc := NewWorkflowService(gdb, notifier, nil)

	expectLoad(mock, "adm-1", models.RoleAdmin, models.StatusSubmit, "usr-1", nil)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "status_changes"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	app, err := svc.Transition("app-1", models.StatusCompleted, "adm-1", nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, app.Status)
	assert.Len(t, notifier.events, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionRejectsUnknownTarget(t *testing.T) {
	gdb, _ := newMockDB(t)
	svc := NewWorkflowService(gdb, nil, nil)

	_, err := svc.Transition("app-1", models.Status("archived"), "adm-1", nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestAssignManagerValidatesRole(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewWorkflowService(gdb, nil, nil)

	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(profileRows("adm-1", models.RoleAdmin, true))
	// Target profile exists but is a partner, not a manager.
	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(profileRows("prt-1", models.RolePartner, true))

	_, err := svc.AssignManager("app-1", "prt-1", "adm-1")
	require.ErrorIs(t, err, ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignManagerAdminOnly(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewWorkflowService(gdb, nil, nil)

	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(profileRows("mgr-1", models.RoleManager, true))

	_, err := svc.AssignManager("app-1", "mgr-2", "mgr-1")
	require.ErrorIs(t, err, ErrPermissionDenied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignManagerSuccess(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewWorkflowService(gdb, nil, nil)

	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(profileRows("adm-1", models.RoleAdmin, true))
	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(profileRows("mgr-1", models.RoleManager, true))
	mock.ExpectQuery(`SELECT \* FROM "applications"`).
		WillReturnRows(applicationRows("app-1", "usr-1", models.RoleUser, models.StatusSubmit, nil))
	mock.ExpectExec(`UPDATE "applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	app, err := svc.AssignManager("app-1", "mgr-1", "adm-1")
	require.NoError(t, err)
	require.NotNil(t, app.AssignedManager)
	assert.Equal(t, "mgr-1", *app.AssignedManager)

	require.NoError(t, mock.ExpectationsWereMet())
}

func strPtr(s string) *string { return &s }

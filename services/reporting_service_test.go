package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpbank-portal-api/models"
)

func TestStatusCountsForBucketsLegacyStatuses(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewReportingService(gdb)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count FROM "applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("draft", 3).
			AddRow("submit", 2).
			AddRow("pending", 1)) // legacy value still present in old rows

	actor := &models.Profile{ProfileID: "adm-1", Role: models.RoleAdmin, IsActive: true}
	counts, err := svc.StatusCountsFor(actor)
	require.NoError(t, err)

	assert.Equal(t, int64(3), counts[string(models.StatusDraft)])
	assert.Equal(t, int64(2), counts[string(models.StatusSubmit)])
	assert.Equal(t, int64(1), counts[UnknownStatusBucket])
	assert.Equal(t, int64(6), counts.Total())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleBreakdownAll(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewReportingService(gdb)

	mock.ExpectQuery(`SELECT created_by_role, status, COUNT\(\*\) AS count FROM "applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"created_by_role", "status", "count"}).
			AddRow("user", "draft", 4).
			AddRow("user", "paid", 1).
			AddRow("partner", "submit", 2).
			AddRow("manager", "completed", 3))

	breakdown, err := svc.RoleBreakdownAll()
	require.NoError(t, err)

	require.Len(t, breakdown, 3)
	assert.Equal(t, int64(5), breakdown[models.RoleUser].Total())
	assert.Equal(t, int64(2), breakdown[models.RolePartner][string(models.StatusSubmit)])
	assert.Equal(t, int64(3), breakdown[models.RoleManager][string(models.StatusCompleted)])

	require.NoError(t, mock.ExpectationsWereMet())
}

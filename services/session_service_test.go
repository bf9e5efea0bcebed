package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpbank-portal-api/models"
)

func TestRevokeClosesOwnedSession(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewSessionService(gdb, time.Hour)

	mock.ExpectExec(`UPDATE "sessions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Revoke("ses-1", "usr-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeUnknownSessionReportsInvalid(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewSessionService(gdb, time.Hour)

	// Unknown id, foreign owner, or already-revoked: the guarded update
	// matches nothing, and the caller must not be told it succeeded.
	mock.ExpectExec(`UPDATE "sessions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.Revoke("ses-missing", "usr-1")
	require.ErrorIs(t, err, ErrSessionInvalid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateRejectsExpiredSession(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewSessionService(gdb, time.Hour)

	expired := time.Now().Add(-time.Minute)
	mock.ExpectQuery(`SELECT \* FROM "sessions"`).
		WillReturnRows(sqlmock.NewRows([]string{"session_id", "profile_id", "token_hash", "expires_at"}).
			AddRow("ses-1", "usr-1", "hash", expired))

	_, err := svc.Validate("some-token")
	require.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionActive(t *testing.T) {
	now := time.Now()
	revoked := now.Add(-time.Minute)

	tests := []struct {
		name    string
		session models.Session
		want    bool
	}{
		{"live", models.Session{ExpiresAt: now.Add(time.Hour)}, true},
		{"expired", models.Session{ExpiresAt: now.Add(-time.Hour)}, false},
		{"revoked", models.Session{ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.Active(now))
		})
	}
}

package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"corpbank-portal-api/models"
)

// ErrSessionInvalid means the refresh token is unknown, revoked or expired.
var ErrSessionInvalid = errors.New("session is invalid or expired")

// SessionService manages refresh-token login sessions. Tokens are random and
// stored only as SHA-256 hashes; possession of the raw token is the
// credential.
type SessionService struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewSessionService(db *gorm.DB, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &SessionService{db: db, ttl: ttl}
}

// Create opens a new session for the profile and returns the raw refresh
// token. The token is shown exactly once.
func (s *SessionService) Create(profileID, userAgent string) (string, *models.Session, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	token := hex.EncodeToString(raw)

	session := models.Session{
		SessionID: uuid.NewString(),
		ProfileID: profileID,
		TokenHash: hashToken(token),
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(s.ttl),
		CreateAt:  time.Now(),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}
	return token, &session, nil
}

// Validate resolves a raw refresh token to its active session.
func (s *SessionService) Validate(token string) (*models.Session, error) {
	var session models.Session
	if err := s.db.Where("token_hash = ?", hashToken(token)).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !session.Active(time.Now()) {
		return nil, ErrSessionInvalid
	}
	return &session, nil
}

// Revoke closes one session. A session id that is unknown, already revoked,
// or owned by another profile matches no row and reports ErrSessionInvalid
// so callers can tell a stale id from a successful revocation.
func (s *SessionService) Revoke(sessionID, profileID string) error {
	now := time.Now()
	res := s.db.Model(&models.Session{}).
		Where("session_id = ? AND profile_id = ? AND revoked_at IS NULL", sessionID, profileID).
		Update("revoked_at", now)
	if res.Error != nil {
		return fmt.Errorf("failed to revoke session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSessionInvalid
	}
	return nil
}

// RevokeAll closes every active session of the profile (logout everywhere).
func (s *SessionService) RevokeAll(profileID string) error {
	now := time.Now()
	res := s.db.Model(&models.Session{}).
		Where("profile_id = ? AND revoked_at IS NULL", profileID).
		Update("revoked_at", now)
	if res.Error != nil {
		return fmt.Errorf("failed to revoke sessions: %w", res.Error)
	}
	return nil
}

// ListActive returns the profile's live sessions, newest first.
func (s *SessionService) ListActive(profileID string) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.Where("profile_id = ? AND revoked_at IS NULL AND expires_at > ?", profileID, time.Now()).
		Order("create_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

package models

import "time"

// Session is one refresh-token login session. The refresh token itself is
// stored only as a SHA-256 hash.
type Session struct {
	SessionID string     `gorm:"primaryKey;column:session_id" json:"session_id"`
	ProfileID string     `gorm:"column:profile_id" json:"profile_id"`
	TokenHash string     `gorm:"column:token_hash" json:"-"`
	UserAgent string     `gorm:"column:user_agent" json:"user_agent"`
	ExpiresAt time.Time  `gorm:"column:expires_at" json:"expires_at"`
	RevokedAt *time.Time `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	CreateAt  time.Time  `gorm:"column:create_at" json:"create_at"`
}

func (Session) TableName() string { return "sessions" }

// Active reports whether the session can still be exchanged for a new access
// token at the given instant.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

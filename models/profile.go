package models

import (
	"time"
)

// Role is the single static role attached to a profile. Accounts never hold
// more than one role and the role never changes after creation.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RolePartner Role = "partner"
	RoleUser    Role = "user"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RolePartner, RoleUser:
		return true
	}
	return false
}

type Profile struct {
	ProfileID string     `gorm:"primaryKey;column:profile_id" json:"profile_id"`
	Email     string     `gorm:"column:email;unique" json:"email"`
	Password  string     `gorm:"column:password" json:"-"`
	FirstName string     `gorm:"column:first_name" json:"first_name"`
	LastName  string     `gorm:"column:last_name" json:"last_name"`
	Role      Role       `gorm:"column:role" json:"role"`
	IsActive  bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Profile) TableName() string {
	return "profiles"
}

// FullName joins first and last name for display and notification templates.
func (p *Profile) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

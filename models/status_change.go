package models

import "time"

// StatusChange is the immutable audit record written alongside every status
// transition. Rows are append-only and cascade with their application.
type StatusChange struct {
	StatusChangeID string    `gorm:"primaryKey;column:status_change_id" json:"status_change_id"`
	ApplicationID  string    `gorm:"column:application_id" json:"application_id"`
	PreviousStatus Status    `gorm:"column:previous_status" json:"previous_status"`
	NewStatus      Status    `gorm:"column:new_status" json:"new_status"`
	ChangedBy      string    `gorm:"column:changed_by" json:"changed_by"`
	ChangedByRole  Role      `gorm:"column:changed_by_role" json:"changed_by_role"`
	Comment        *string   `gorm:"column:comment" json:"comment,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

func (StatusChange) TableName() string {
	return "status_changes"
}

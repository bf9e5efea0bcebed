package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the canonical application status. Only the seven values below are
// ever stored; legacy display strings are normalized through ParseStatus at
// the boundary so nothing downstream compares raw text.
type Status string

const (
	StatusDraft        Status = "draft"
	StatusSubmit       Status = "submit"
	StatusNeedMoreInfo Status = "need_more_info"
	StatusReturn       Status = "return"
	StatusRejected     Status = "rejected"
	StatusCompleted    Status = "completed"
	StatusPaid         Status = "paid"
)

// AllStatuses lists every canonical status in name order.
var AllStatuses = []Status{
	StatusCompleted,
	StatusDraft,
	StatusNeedMoreInfo,
	StatusPaid,
	StatusRejected,
	StatusReturn,
	StatusSubmit,
}

// statusAliases maps the legacy spellings that accumulated in the old portal
// (mixed casing, camelCase, past tense) onto the canonical enum.
var statusAliases = map[string]Status{
	"draft":          StatusDraft,
	"submit":         StatusSubmit,
	"submitted":      StatusSubmit,
	"need_more_info": StatusNeedMoreInfo,
	"needmoreinfo":   StatusNeedMoreInfo,
	"need more info": StatusNeedMoreInfo,
	"return":         StatusReturn,
	"returned":       StatusReturn,
	"rejected":       StatusRejected,
	"reject":         StatusRejected,
	"completed":      StatusCompleted,
	"complete":       StatusCompleted,
	"paid":           StatusPaid,
}

// ParseStatus normalizes raw into a canonical Status.
func ParseStatus(raw string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if status, ok := statusAliases[key]; ok {
		return status, nil
	}
	return "", fmt.Errorf("unknown application status '%s'", raw)
}

// Valid reports whether s is one of the seven canonical statuses.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns the human-readable form used in messages and emails.
func (s Status) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusSubmit:
		return "Submitted"
	case StatusNeedMoreInfo:
		return "Need More Info"
	case StatusReturn:
		return "Returned"
	case StatusRejected:
		return "Rejected"
	case StatusCompleted:
		return "Completed"
	case StatusPaid:
		return "Paid"
	}
	return string(s)
}

// JSONMap stores the free-form application payload (business details, banking
// preferences) in a jsonb column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
	return json.Unmarshal(data, m)
}

// Application is one customer's request to open a corporate bank account,
// tracked through the status pipeline. Rows are never hard-deleted; terminal
// statuses keep the row for reporting.
type Application struct {
	ApplicationID   string     `gorm:"primaryKey;column:application_id" json:"application_id"`
	CustomerID      string     `gorm:"column:customer_id" json:"customer_id"`
	Status          Status     `gorm:"column:status" json:"status"`
	CreatedBy       string     `gorm:"column:created_by" json:"created_by"`
	CreatedByRole   Role       `gorm:"column:created_by_role" json:"created_by_role"`
	AssignedManager *string    `gorm:"column:assigned_manager" json:"assigned_manager,omitempty"`
	ApplicationData JSONMap    `gorm:"column:application_data;type:jsonb" json:"application_data"`
	CreateAt        *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations. Both sides carry a CustomerID field, so the references
	// clause must be explicit or GORM guesses the wrong owner.
	Customer Customer `gorm:"foreignKey:CustomerID;references:CustomerID" json:"customer,omitempty"`
	Creator  Profile  `gorm:"foreignKey:CreatedBy;references:ProfileID" json:"creator,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

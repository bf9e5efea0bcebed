package models

import "time"

// Customer is the business entity an application is about. One customer may
// accumulate multiple applications over time; most flows work with the
// customer's current application only.
type Customer struct {
	CustomerID   string     `gorm:"primaryKey;column:customer_id" json:"customer_id"`
	CompanyName  string     `gorm:"column:company_name" json:"company_name"`
	ContactName  string     `gorm:"column:contact_name" json:"contact_name"`
	ContactEmail string     `gorm:"column:contact_email" json:"contact_email"`
	ContactPhone string     `gorm:"column:contact_phone" json:"contact_phone"`
	LicenseType  string     `gorm:"column:license_type" json:"license_type"`
	BankName     *string    `gorm:"column:bank_name" json:"bank_name,omitempty"`
	CreatedBy    string     `gorm:"column:created_by" json:"created_by"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Applications []Application `gorm:"foreignKey:CustomerID;references:CustomerID" json:"applications,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}

package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	AuditActionEventApprove = "event_approve"
	AuditActionEventReject  = "event_reject"
)

// AdminAuditLog records event review decisions made by admins
type AdminAuditLog struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	AdminID     uint           `gorm:"not null;index" json:"admin_id"`
	Action      string         `gorm:"type:varchar(100);not null;index" json:"action"`
	Resource    string         `gorm:"type:varchar(100)" json:"resource"` // e.g., "events"
	ResourceID  uint           `json:"resource_id"`
	NewValue    datatypes.JSON `json:"new_value,omitempty"`
	IPAddress   string         `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent   string         `gorm:"type:text" json:"user_agent"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`

	Admin *UserProfile `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"admin,omitempty"`
}

// TableName specifies the table name for AdminAuditLog
func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}

package model

import "time"

// EventRegistration is the ledger entry that a student signed up for an event.
// At most one row exists per (student, event).
type EventRegistration struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StudentID    uint      `gorm:"not null;uniqueIndex:idx_student_event" json:"student_id"`
	EventID      uint      `gorm:"not null;uniqueIndex:idx_student_event;index" json:"event_id"`
	RegisteredAt time.Time `gorm:"autoCreateTime" json:"registered_at"`

	// Relationships
	Student *UserProfile `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Event   *Event       `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"event,omitempty"`
}

// TableName specifies the table name for EventRegistration
func (EventRegistration) TableName() string {
	return "event_registrations"
}

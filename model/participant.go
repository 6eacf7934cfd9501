package model

import "time"

// Participant is a roster row. Name and email are copied at registration time
// and are not updated when the profile changes.
type Participant struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	EventID          uint      `gorm:"not null;index" json:"event_id"`
	StudentID        *uint     `gorm:"index" json:"student_id,omitempty"`
	StudentName      string    `gorm:"type:varchar(300)" json:"student_name"`
	StudentEmail     string    `gorm:"type:varchar(254)" json:"student_email"`
	Attended         bool      `gorm:"not null;default:false" json:"attended"`
	RegistrationDate time.Time `gorm:"autoCreateTime" json:"registration_date"`

	// Relationships
	Event *Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Participant
func (Participant) TableName() string {
	return "participants"
}

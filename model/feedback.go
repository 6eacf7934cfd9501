package model

import "time"

type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;index" json:"event_id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	Rating    int       `gorm:"not null" json:"rating"` // 1..5
	Comment   string    `gorm:"column:feedback;type:text" json:"feedback"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Event   *Event       `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Student *UserProfile `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
}

// TableName specifies the table name for Feedback
func (Feedback) TableName() string {
	return "feedbacks"
}

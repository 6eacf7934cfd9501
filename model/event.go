package model

import (
	"time"

	"gorm.io/datatypes"
)

type EventStatus string

const (
	EventStatusPending  EventStatus = "pending"
	EventStatusApproved EventStatus = "approved"
	EventStatusRejected EventStatus = "rejected"
)

type EventType string

const (
	EventTypeWorkshop     EventType = "workshop"
	EventTypeSeminar      EventType = "seminar"
	EventTypeCulturalFest EventType = "cultural_fest"
	EventTypeSportsEvent  EventType = "sports_event"
	EventTypeClubEvent    EventType = "club_event"
	EventTypeExamRelated  EventType = "exam_related"
)

// Event is a proposed or published institution event.
// Status only moves through approve/reject.
type Event struct {
	ID                uint                        `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
	Title             string                      `gorm:"type:varchar(200);not null" json:"title"`
	Description       string                      `gorm:"type:text" json:"description"`
	EventType         EventType                   `gorm:"type:varchar(50);not null" json:"event_type"`
	Department        Department                  `gorm:"type:varchar(50)" json:"department"`
	Date              datatypes.Date              `gorm:"not null;index" json:"date"`
	StartTime         datatypes.Time              `json:"start_time"`
	EndTime           datatypes.Time              `json:"end_time"`
	Venue             string                      `gorm:"type:varchar(200)" json:"venue"`
	StaffCoordinators datatypes.JSONSlice[string] `json:"staff_coordinators"`
	EquipmentRequired datatypes.JSONSlice[string] `json:"equipment_required,omitempty"`
	Status            EventStatus                 `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedByID       uint                        `gorm:"not null;index" json:"created_by"`

	// Relationships
	CreatedBy     *UserProfile        `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"creator,omitempty"`
	Registrations []EventRegistration `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Participants  []Participant       `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Feedbacks     []Feedback          `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Event
func (Event) TableName() string {
	return "events"
}

// IsApproved reports whether the event is visible to students and parents
func (e Event) IsApproved() bool {
	return e.Status == EventStatusApproved
}

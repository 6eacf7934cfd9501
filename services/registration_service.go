package services

import (
	"context"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/campus-events/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegistrationOutcome tells a first-time registration apart from a repeat
type RegistrationOutcome string

const (
	Registered        RegistrationOutcome = "registered"
	AlreadyRegistered RegistrationOutcome = "already_registered"
)

// RegistrationResult is returned by RegisterForEvent.
// Participant is only set when a new roster row was written.
type RegistrationResult struct {
	Outcome      RegistrationOutcome      `json:"outcome"`
	Registration *model.EventRegistration `json:"registration,omitempty"`
	Participant  *model.Participant       `json:"participant,omitempty"`
}

// RegistrationService is the registration ledger
type RegistrationService struct {
	db *gorm.DB
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{db: db}
}

// Register records that a student signed up for an event. The insert is a
// single ON CONFLICT DO NOTHING so concurrent calls for the same pair cannot
// both succeed; only the winner writes a roster row.
func (s *RegistrationService) Register(ctx context.Context, studentID, eventID uint) (*RegistrationResult, error) {
	result := &RegistrationResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student model.UserProfile
		if err := tx.First(&student, studentID).Error; err != nil {
			return lookupError("student", err)
		}

		var event model.Event
		if err := tx.Select("id").First(&event, eventID).Error; err != nil {
			return lookupError("event", err)
		}

		reg := &model.EventRegistration{StudentID: student.ID, EventID: event.ID}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "event_id"}},
			DoNothing: true,
		}).Create(reg)
		if res.Error != nil {
			return storageError("failed to create registration", res.Error)
		}

		if res.RowsAffected == 0 {
			existing := &model.EventRegistration{}
			if err := tx.Where("student_id = ? AND event_id = ?", student.ID, event.ID).First(existing).Error; err != nil {
				return storageError("failed to load registration", err)
			}
			result.Outcome = AlreadyRegistered
			result.Registration = existing
			return nil
		}

		participant := &model.Participant{
			EventID:      event.ID,
			StudentID:    &student.ID,
			StudentName:  student.FullName(),
			StudentEmail: student.Email,
		}
		if err := tx.Create(participant).Error; err != nil {
			return storageError("failed to create participant", err)
		}

		result.Outcome = Registered
		result.Registration = reg
		result.Participant = participant
		return nil
	})
	if err != nil {
		return nil, storageError("registration failed", err)
	}

	if result.Outcome == Registered {
		log.Infof("student %d registered for event %d", studentID, eventID)
	}
	return result, nil
}

// Unregister removes the student's registration if there is one. The roster
// row stays so attendance history survives.
func (s *RegistrationService) Unregister(ctx context.Context, studentID, eventID uint) error {
	res := s.db.WithContext(ctx).
		Where("student_id = ? AND event_id = ?", studentID, eventID).
		Delete(&model.EventRegistration{})
	if res.Error != nil {
		return storageError("failed to delete registration", res.Error)
	}

	if res.RowsAffected > 0 {
		log.Infof("student %d unregistered from event %d", studentID, eventID)
	}
	return nil
}

// ListForStudent returns a student's registrations with their events, newest first
func (s *RegistrationService) ListForStudent(ctx context.Context, studentID uint) ([]model.EventRegistration, error) {
	var regs []model.EventRegistration
	err := s.db.WithContext(ctx).
		Preload("Event").
		Where("student_id = ?", studentID).
		Order("id DESC").
		Find(&regs).Error
	if err != nil {
		return nil, storageError("failed to list registrations", err)
	}
	return regs, nil
}

// IsRegistered reports whether a registration exists for the pair
func (s *RegistrationService) IsRegistered(ctx context.Context, studentID, eventID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.EventRegistration{}).
		Where("student_id = ? AND event_id = ?", studentID, eventID).
		Count(&count).Error
	if err != nil {
		return false, storageError("failed to check registration", err)
	}
	return count > 0, nil
}

package services

import (
	"context"

	"github.com/sahilchouksey/campus-events/model"
	"gorm.io/gorm"
)

// AttendanceService is the per-event participant roster
type AttendanceService struct {
	db *gorm.DB
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{db: db}
}

// ListParticipants returns every roster row of an event in insertion order
func (s *AttendanceService) ListParticipants(ctx context.Context, eventID uint) ([]model.Participant, error) {
	if err := requireEvent(ctx, s.db, eventID); err != nil {
		return nil, err
	}

	participants := []model.Participant{}
	if err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Order("id ASC").Find(&participants).Error; err != nil {
		return nil, storageError("failed to list participants", err)
	}
	return participants, nil
}

// SetAttended sets the attended flag. Setting the current value again is a no-op success.
func (s *AttendanceService) SetAttended(ctx context.Context, participantID uint, attended bool) (*model.Participant, error) {
	var participant model.Participant
	if err := s.db.WithContext(ctx).First(&participant, participantID).Error; err != nil {
		return nil, lookupError("participant", err)
	}

	if participant.Attended == attended {
		return &participant, nil
	}

	if err := s.db.WithContext(ctx).Model(&participant).Update("attended", attended).Error; err != nil {
		return nil, storageError("failed to update attendance", err)
	}

	participant.Attended = attended
	return &participant, nil
}

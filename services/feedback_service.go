package services

import (
	"context"
	"strings"

	"github.com/sahilchouksey/campus-events/model"
	"gorm.io/gorm"
)

const (
	minRating = 1
	maxRating = 5
)

// SubmitFeedbackInput is a student's rating of an event
type SubmitFeedbackInput struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// FeedbackService stores event ratings
type FeedbackService struct {
	db *gorm.DB
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

// Submit stores one rating. Rating must be within 1..5.
func (s *FeedbackService) Submit(ctx context.Context, studentID, eventID uint, in SubmitFeedbackInput) (*model.Feedback, error) {
	if in.Rating < minRating || in.Rating > maxRating {
		return nil, validationError("rating must be between 1 and 5")
	}

	if err := requireEvent(ctx, s.db, eventID); err != nil {
		return nil, err
	}

	fb := &model.Feedback{
		EventID:   eventID,
		StudentID: studentID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Feedback),
	}
	if err := s.db.WithContext(ctx).Create(fb).Error; err != nil {
		return nil, storageError("failed to save feedback", err)
	}
	return fb, nil
}

// ListForEvent returns an event's feedback, newest first
func (s *FeedbackService) ListForEvent(ctx context.Context, eventID uint) ([]model.Feedback, error) {
	if err := requireEvent(ctx, s.db, eventID); err != nil {
		return nil, err
	}

	feedback := []model.Feedback{}
	err := s.db.WithContext(ctx).
		Preload("Student").
		Where("event_id = ?", eventID).
		Order("id DESC").
		Find(&feedback).Error
	if err != nil {
		return nil, storageError("failed to list feedback", err)
	}
	return feedback, nil
}

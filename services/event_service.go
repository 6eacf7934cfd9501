package services

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/campus-events/model"
	"github.com/sahilchouksey/campus-events/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// recentEventsLimit is how many events the admin dashboard shows as recent
const recentEventsLimit = 5

// ProposeEventInput carries the fields of a new event.
// Date, StartTime and EndTime are already parsed by the caller.
type ProposeEventInput struct {
	Title             string           `json:"title" validate:"max=200"`
	Description       string           `json:"description"`
	EventType         model.EventType  `json:"event_type" validate:"required,oneof=workshop seminar cultural_fest sports_event club_event exam_related"`
	Department        model.Department `json:"department" validate:"omitempty,oneof=science mathematics arts commerce computer_science administration"`
	Date              time.Time        `json:"date" validate:"required"`
	StartTime         *datatypes.Time  `json:"start_time"`
	EndTime           *datatypes.Time  `json:"end_time"`
	Venue             string           `json:"venue" validate:"max=200"`
	StaffCoordinators []string         `json:"staff_coordinators" validate:"dive,max=150"`
	EquipmentRequired []string         `json:"equipment_required" validate:"dive,max=150"`
}

// Dashboard is the admin overview of the review queue
type Dashboard struct {
	PendingCount  int64         `json:"pending_count"`
	ApprovedCount int64         `json:"approved_count"`
	TodayCount    int64         `json:"today_count"`
	PendingEvents []model.Event `json:"pending_events"`
	RecentEvents  []model.Event `json:"recent_events"`
}

// EventService is the event record store
type EventService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewEventService creates a new event service
func NewEventService(db *gorm.DB) *EventService {
	return &EventService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// Create persists a new event. Admins publish directly, everyone else waits for review.
func (s *EventService) Create(ctx context.Context, creatorID uint, role model.Role, in ProposeEventInput) (*model.Event, error) {
	title := validation.SanitizeString(in.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	if err := s.validator.ValidateStruct(in); err != nil {
		return nil, validationError(validation.Describe(err))
	}

	status := model.EventStatusPending
	if role == model.RoleAdmin {
		status = model.EventStatusApproved
	}

	event := &model.Event{
		Title:             title,
		Description:       strings.TrimSpace(in.Description),
		EventType:         in.EventType,
		Department:        in.Department,
		Date:              datatypes.Date(in.Date),
		Venue:             validation.SanitizeString(in.Venue),
		StaffCoordinators: datatypes.NewJSONSlice(cleanList(in.StaffCoordinators)),
		EquipmentRequired: datatypes.NewJSONSlice(cleanList(in.EquipmentRequired)),
		Status:            status,
		CreatedByID:       creatorID,
	}
	if in.StartTime != nil {
		event.StartTime = *in.StartTime
	}
	switch {
	case in.EndTime != nil:
		event.EndTime = *in.EndTime
	case role == model.RoleAdmin:
		// Admin-created events without an end run to the end of the day
		event.EndTime = datatypes.NewTime(23, 59, 0, 0)
	}

	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, storageError("failed to create event", err)
	}

	log.Infof("event %d created by %s %d with status %s", event.ID, role, creatorID, status)
	return event, nil
}

// SetStatus overwrites the status of an event regardless of its current value
func (s *EventService) SetStatus(ctx context.Context, eventID uint, status model.EventStatus) (*model.Event, error) {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(event).Update("status", status).Error; err != nil {
		return nil, storageError("failed to update event status", err)
	}

	event.Status = status
	return event, nil
}

// Get loads an event by id
func (s *EventService) Get(ctx context.Context, eventID uint) (*model.Event, error) {
	var event model.Event
	if err := s.db.WithContext(ctx).First(&event, eventID).Error; err != nil {
		return nil, lookupError("event", err)
	}
	return &event, nil
}

// requireEvent returns NotFound unless the event id resolves
func requireEvent(ctx context.Context, db *gorm.DB, eventID uint) error {
	var count int64
	if err := db.WithContext(ctx).Model(&model.Event{}).Where("id = ?", eventID).Count(&count).Error; err != nil {
		return storageError("failed to load event", err)
	}
	if count == 0 {
		return notFound("event not found")
	}
	return nil
}

// ListAll returns every event, newest first
func (s *EventService) ListAll(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&events).Error; err != nil {
		return nil, storageError("failed to list events", err)
	}
	return events, nil
}

// ListApprovedByCreator returns the approved events a user created, newest first
func (s *EventService) ListApprovedByCreator(ctx context.Context, creatorID uint) ([]model.Event, error) {
	var events []model.Event
	err := s.db.WithContext(ctx).
		Where("created_by_id = ? AND status = ?", creatorID, model.EventStatusApproved).
		Order("id DESC").
		Find(&events).Error
	if err != nil {
		return nil, storageError("failed to list events", err)
	}
	return events, nil
}

// ListApproved returns every approved event, latest date first
func (s *EventService) ListApproved(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := s.db.WithContext(ctx).
		Where("status = ?", model.EventStatusApproved).
		Order("date DESC").
		Order("id DESC").
		Find(&events).Error
	if err != nil {
		return nil, storageError("failed to list events", err)
	}
	return events, nil
}

// ListPending returns the review queue, oldest first
func (s *EventService) ListPending(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := s.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("status = ?", model.EventStatusPending).
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, storageError("failed to list pending events", err)
	}
	return events, nil
}

// Dashboard counts the review queue and events happening on today
func (s *EventService) Dashboard(ctx context.Context, today time.Time) (*Dashboard, error) {
	db := s.db.WithContext(ctx)
	d := &Dashboard{}

	if err := db.Model(&model.Event{}).Where("status = ?", model.EventStatusPending).Count(&d.PendingCount).Error; err != nil {
		return nil, storageError("failed to count pending events", err)
	}
	if err := db.Model(&model.Event{}).Where("status = ?", model.EventStatusApproved).Count(&d.ApprovedCount).Error; err != nil {
		return nil, storageError("failed to count approved events", err)
	}
	if err := db.Model(&model.Event{}).Where("date = ?", datatypes.Date(today)).Count(&d.TodayCount).Error; err != nil {
		return nil, storageError("failed to count today's events", err)
	}

	pending, err := s.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	d.PendingEvents = pending

	if err := db.Order("id DESC").Limit(recentEventsLimit).Find(&d.RecentEvents).Error; err != nil {
		return nil, storageError("failed to list recent events", err)
	}

	return d, nil
}

// ListAuditLogs returns review decisions, newest first
func (s *EventService) ListAuditLogs(ctx context.Context, action string) ([]model.AdminAuditLog, error) {
	query := s.db.WithContext(ctx).Model(&model.AdminAuditLog{}).Preload("Admin")
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var logs []model.AdminAuditLog
	if err := query.Order("id DESC").Find(&logs).Error; err != nil {
		return nil, storageError("failed to list audit logs", err)
	}
	return logs, nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = validation.SanitizeString(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

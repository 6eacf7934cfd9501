package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/campus-events/model"
	"gorm.io/gorm"
)

// ObjectStore receives roster archives
type ObjectStore interface {
	UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// EventDetail is a single event as seen by the caller
type EventDetail struct {
	model.Event
	// Registered is only reported to students
	Registered *bool `json:"registered,omitempty"`
}

// RosterExport is a rendered CSV roster
type RosterExport struct {
	FileName string
	Data     []byte
}

// Workflow is the single entry point for request handlers. Every method takes
// the caller's RequestContext and runs one capability check before touching a store.
type Workflow struct {
	identity      *IdentityService
	events        *EventService
	registrations *RegistrationService
	attendance    *AttendanceService
	feedback      *FeedbackService
	cache         *EventCache
	archive       ObjectStore
	now           func() time.Time
}

// WorkflowOption configures optional collaborators
type WorkflowOption func(*Workflow)

// WithEventCache enables caching of the approved-event listing
func WithEventCache(c *EventCache) WorkflowOption {
	return func(w *Workflow) { w.cache = c }
}

// WithArchive enables roster archiving to object storage
func WithArchive(store ObjectStore) WorkflowOption {
	return func(w *Workflow) { w.archive = store }
}

// WithClock overrides the clock used for the dashboard and file names
func WithClock(now func() time.Time) WorkflowOption {
	return func(w *Workflow) { w.now = now }
}

// NewWorkflow wires every store onto one database handle
func NewWorkflow(db *gorm.DB, opts ...WorkflowOption) *Workflow {
	w := &Workflow{
		identity:      NewIdentityService(db),
		events:        NewEventService(db),
		registrations: NewRegistrationService(db),
		attendance:    NewAttendanceService(db),
		feedback:      NewFeedbackService(db),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Identity exposes the identity store for session handling
func (w *Workflow) Identity() *IdentityService {
	return w.identity
}

// Authorize reports Forbidden when rc may not run op. Handlers call it before
// decoding a payload so a role violation is never reported as bad input.
func (w *Workflow) Authorize(rc RequestContext, op Operation) error {
	return rc.authorize(op)
}

// Authenticate resolves credentials to {user_id, role}
func (w *Workflow) Authenticate(ctx context.Context, email, password string) (*Identity, *model.UserProfile, error) {
	return w.identity.Authenticate(ctx, email, password)
}

// GetProfile returns the caller's own profile
func (w *Workflow) GetProfile(ctx context.Context, rc RequestContext) (*model.UserProfile, error) {
	return w.identity.GetProfile(ctx, rc.UserID)
}

// UpdateProfile edits the caller's own names and designation
func (w *Workflow) UpdateProfile(ctx context.Context, rc RequestContext, in UpdateProfileInput) (*model.UserProfile, error) {
	return w.identity.UpdateProfile(ctx, rc.UserID, in)
}

// ProposeEvent creates an event. Admin proposals are published immediately.
func (w *Workflow) ProposeEvent(ctx context.Context, rc RequestContext, in ProposeEventInput) (*model.Event, error) {
	if err := rc.authorize(OpProposeEvent); err != nil {
		return nil, err
	}

	event, err := w.events.Create(ctx, rc.UserID, rc.Role, in)
	if err != nil {
		return nil, err
	}
	if event.IsApproved() {
		w.cache.Invalidate(ctx)
	}
	return event, nil
}

// ApproveEvent sets status=approved regardless of the current status
func (w *Workflow) ApproveEvent(ctx context.Context, rc RequestContext, eventID uint) (*model.Event, error) {
	return w.review(ctx, rc, OpApproveEvent, eventID, model.EventStatusApproved)
}

// RejectEvent sets status=rejected regardless of the current status
func (w *Workflow) RejectEvent(ctx context.Context, rc RequestContext, eventID uint) (*model.Event, error) {
	return w.review(ctx, rc, OpRejectEvent, eventID, model.EventStatusRejected)
}

func (w *Workflow) review(ctx context.Context, rc RequestContext, op Operation, eventID uint, status model.EventStatus) (*model.Event, error) {
	if err := rc.authorize(op); err != nil {
		return nil, err
	}

	event, err := w.events.SetStatus(ctx, eventID, status)
	if err != nil {
		return nil, err
	}

	w.cache.Invalidate(ctx)
	log.Infof("admin %d set event %d to %s", rc.UserID, eventID, status)
	return event, nil
}

// ListEventsForRole returns the events the caller's role may browse.
// Admins see everything and teachers their own approved events, both newest
// first. Students and parents see every approved event, latest date first.
func (w *Workflow) ListEventsForRole(ctx context.Context, rc RequestContext) ([]model.Event, error) {
	if err := rc.authorize(OpListEvents); err != nil {
		return nil, err
	}

	switch rc.Role {
	case model.RoleAdmin:
		return w.events.ListAll(ctx)
	case model.RoleTeacher:
		return w.events.ListApprovedByCreator(ctx, rc.UserID)
	default:
		if events, ok := w.cache.Approved(ctx); ok {
			return events, nil
		}
		events, err := w.events.ListApproved(ctx)
		if err != nil {
			return nil, err
		}
		w.cache.StoreApproved(ctx, events)
		return events, nil
	}
}

// GetEvent returns one event if the caller may see it. Events outside the
// caller's view are reported as NotFound.
func (w *Workflow) GetEvent(ctx context.Context, rc RequestContext, eventID uint) (*EventDetail, error) {
	if err := rc.authorize(OpGetEvent); err != nil {
		return nil, err
	}

	event, err := w.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	visible := event.IsApproved()
	switch rc.Role {
	case model.RoleAdmin:
		visible = true
	case model.RoleTeacher:
		visible = visible || event.CreatedByID == rc.UserID
	}
	if !visible {
		return nil, notFound("event not found")
	}

	detail := &EventDetail{Event: *event}
	if rc.Role == model.RoleStudent {
		registered, err := w.registrations.IsRegistered(ctx, rc.UserID, eventID)
		if err != nil {
			return nil, err
		}
		detail.Registered = &registered
	}
	return detail, nil
}

// Dashboard returns the admin review overview
func (w *Workflow) Dashboard(ctx context.Context, rc RequestContext) (*Dashboard, error) {
	if err := rc.authorize(OpViewDashboard); err != nil {
		return nil, err
	}
	return w.events.Dashboard(ctx, w.now())
}

// ListAuditLogs returns review decisions, optionally filtered by action
func (w *Workflow) ListAuditLogs(ctx context.Context, rc RequestContext, action string) ([]model.AdminAuditLog, error) {
	if err := rc.authorize(OpViewAuditLog); err != nil {
		return nil, err
	}
	return w.events.ListAuditLogs(ctx, action)
}

// RegisterForEvent signs the calling student up. A repeat call reports AlreadyRegistered.
func (w *Workflow) RegisterForEvent(ctx context.Context, rc RequestContext, eventID uint) (*RegistrationResult, error) {
	if err := rc.authorize(OpRegister); err != nil {
		return nil, err
	}
	return w.registrations.Register(ctx, rc.UserID, eventID)
}

// UnregisterEvent withdraws the calling student's registration. Absent registrations are a no-op.
func (w *Workflow) UnregisterEvent(ctx context.Context, rc RequestContext, eventID uint) error {
	if err := rc.authorize(OpUnregister); err != nil {
		return err
	}
	return w.registrations.Unregister(ctx, rc.UserID, eventID)
}

// ListMyRegistrations returns the calling student's registrations
func (w *Workflow) ListMyRegistrations(ctx context.Context, rc RequestContext) ([]model.EventRegistration, error) {
	if err := rc.authorize(OpListMyRegistrations); err != nil {
		return nil, err
	}
	return w.registrations.ListForStudent(ctx, rc.UserID)
}

// ListParticipants returns an event's roster
func (w *Workflow) ListParticipants(ctx context.Context, rc RequestContext, eventID uint) ([]model.Participant, error) {
	if err := rc.authorize(OpListParticipants); err != nil {
		return nil, err
	}
	return w.attendance.ListParticipants(ctx, eventID)
}

// MarkAttendance sets attended=true
func (w *Workflow) MarkAttendance(ctx context.Context, rc RequestContext, participantID uint) (*model.Participant, error) {
	if err := rc.authorize(OpMarkAttendance); err != nil {
		return nil, err
	}
	return w.attendance.SetAttended(ctx, participantID, true)
}

// UnmarkAttendance sets attended=false
func (w *Workflow) UnmarkAttendance(ctx context.Context, rc RequestContext, participantID uint) (*model.Participant, error) {
	if err := rc.authorize(OpUnmarkAttendance); err != nil {
		return nil, err
	}
	return w.attendance.SetAttended(ctx, participantID, false)
}

// ExportRoster renders an event's roster as CSV
func (w *Workflow) ExportRoster(ctx context.Context, rc RequestContext, eventID uint) (*RosterExport, error) {
	if err := rc.authorize(OpExportRoster); err != nil {
		return nil, err
	}
	return w.renderRoster(ctx, eventID)
}

// ArchiveRoster uploads an event's roster CSV to object storage and returns its key
func (w *Workflow) ArchiveRoster(ctx context.Context, rc RequestContext, eventID uint) (string, error) {
	if err := rc.authorize(OpExportRoster); err != nil {
		return "", err
	}
	if w.archive == nil {
		return "", newError(KindUnavailable, "roster archive storage is not configured")
	}

	export, err := w.renderRoster(ctx, eventID)
	if err != nil {
		return "", err
	}
	return ArchiveRosterCSV(ctx, w.archive, eventID, export)
}

func (w *Workflow) renderRoster(ctx context.Context, eventID uint) (*RosterExport, error) {
	participants, err := w.attendance.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, err
	}

	data, err := EncodeRoster(participants)
	if err != nil {
		return nil, storageError("failed to encode roster", err)
	}
	return &RosterExport{FileName: RosterFileName(eventID, w.now()), Data: data}, nil
}

// ArchiveRosterCSV writes a rendered roster under rosters/<event id>/
func ArchiveRosterCSV(ctx context.Context, store ObjectStore, eventID uint, export *RosterExport) (string, error) {
	key := fmt.Sprintf("rosters/%d/%s", eventID, export.FileName)
	stored, err := store.UploadBytes(ctx, key, export.Data, "text/csv")
	if err != nil {
		return "", storageError("failed to archive roster", err)
	}
	return stored, nil
}

// SubmitFeedback stores the calling student's rating of an event
func (w *Workflow) SubmitFeedback(ctx context.Context, rc RequestContext, eventID uint, in SubmitFeedbackInput) (*model.Feedback, error) {
	if err := rc.authorize(OpSubmitFeedback); err != nil {
		return nil, err
	}
	return w.feedback.Submit(ctx, rc.UserID, eventID, in)
}

// ListFeedback returns an event's feedback
func (w *Workflow) ListFeedback(ctx context.Context, rc RequestContext, eventID uint) ([]model.Feedback, error) {
	if err := rc.authorize(OpListFeedback); err != nil {
		return nil, err
	}
	return w.feedback.ListForEvent(ctx, eventID)
}

// RegisterUser creates a profile. It needs no session.
func (w *Workflow) RegisterUser(ctx context.Context, in RegisterUserInput) (*model.UserProfile, error) {
	return w.identity.RegisterUser(ctx, in)
}

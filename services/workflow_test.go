package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sahilchouksey/campus-events/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRegisterTwiceProducesOneRegistrationAndOneParticipant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event := f.approvedEvent(t, "Go Workshop")

	first, err := f.workflow.RegisterForEvent(ctx, rcFor(f.student), event.ID)
	require.NoError(t, err)
	assert.Equal(t, Registered, first.Outcome)
	require.NotNil(t, first.Participant)

	second, err := f.workflow.RegisterForEvent(ctx, rcFor(f.student), event.ID)
	require.NoError(t, err)
	assert.Equal(t, AlreadyRegistered, second.Outcome)
	assert.Nil(t, second.Participant)
	assert.Equal(t, first.Registration.ID, second.Registration.ID)

	var regs, participants int64
	f.db.Model(&model.EventRegistration{}).Where("student_id = ? AND event_id = ?", f.student.ID, event.ID).Count(&regs)
	f.db.Model(&model.Participant{}).Where("student_id = ? AND event_id = ?", f.student.ID, event.ID).Count(&participants)
	assert.EqualValues(t, 1, regs)
	assert.EqualValues(t, 1, participants)
}

func TestConcurrentRegistrationHasOneWinner(t *testing.T) {
	f := newFixture(t)
	event := f.approvedEvent(t, "Hackathon")

	const callers = 8
	outcomes := make(chan RegistrationOutcome, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.workflow.RegisterForEvent(context.Background(), rcFor(f.student), event.ID)
			if assert.NoError(t, err) {
				outcomes <- res.Outcome
			}
		}()
	}
	wg.Wait()
	close(outcomes)

	registered := 0
	for o := range outcomes {
		if o == Registered {
			registered++
		}
	}
	assert.Equal(t, 1, registered)

	var participants int64
	f.db.Model(&model.Participant{}).Where("event_id = ?", event.ID).Count(&participants)
	assert.EqualValues(t, 1, participants)
}

func TestRegisterUnknownEventOrStudent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.workflow.RegisterForEvent(ctx, rcFor(f.student), 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	event := f.approvedEvent(t, "Seminar")
	ghost := RequestContext{UserID: 9999, Role: model.RoleStudent}
	_, err = f.workflow.RegisterForEvent(ctx, ghost, event.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApproveRejectAreUnconditionalOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event := f.pendingEvent(t, "Debate")

	_, err := f.workflow.ApproveEvent(ctx, rcFor(f.admin), event.ID)
	require.NoError(t, err)
	rejected, err := f.workflow.RejectEvent(ctx, rcFor(f.admin), event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusRejected, rejected.Status)

	approved, err := f.workflow.ApproveEvent(ctx, rcFor(f.admin), event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusApproved, approved.Status)

	var stored model.Event
	require.NoError(t, f.db.First(&stored, event.ID).Error)
	assert.Equal(t, model.EventStatusApproved, stored.Status)
}

func TestApproveUnknownEvent(t *testing.T) {
	f := newFixture(t)
	_, err := f.workflow.ApproveEvent(context.Background(), rcFor(f.admin), 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnregisterIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event := f.approvedEvent(t, "Quiz")

	assert.NoError(t, f.workflow.UnregisterEvent(ctx, rcFor(f.student), event.ID))
	assert.NoError(t, f.workflow.UnregisterEvent(ctx, rcFor(f.student), 31337))
}

func TestMarkUnmarkMark(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event := f.approvedEvent(t, "Sports Day")

	res, err := f.workflow.RegisterForEvent(ctx, rcFor(f.student), event.ID)
	require.NoError(t, err)
	pid := res.Participant.ID

	p, err := f.workflow.MarkAttendance(ctx, rcFor(f.teacher), pid)
	require.NoError(t, err)
	assert.True(t, p.Attended)

	p, err = f.workflow.MarkAttendance(ctx, rcFor(f.teacher), pid)
	require.NoError(t, err)
	assert.True(t, p.Attended)

	p, err = f.workflow.UnmarkAttendance(ctx, rcFor(f.admin), pid)
	require.NoError(t, err)
	assert.False(t, p.Attended)

	p, err = f.workflow.UnmarkAttendance(ctx, rcFor(f.admin), pid)
	require.NoError(t, err)
	assert.False(t, p.Attended)

	_, err = f.workflow.MarkAttendance(ctx, rcFor(f.teacher), pid)
	require.NoError(t, err)

	var stored model.Participant
	require.NoError(t, f.db.First(&stored, pid).Error)
	assert.True(t, stored.Attended)
}

func TestMarkUnknownParticipant(t *testing.T) {
	f := newFixture(t)
	_, err := f.workflow.MarkAttendance(context.Background(), rcFor(f.teacher), 777)
	assert.ErrorIs(t, err, ErrNotFound)
}

// A rival insert lands between the existence checks and the ledger insert,
// inside the same transaction. Only the conflict clause can absorb it.
func TestRegisterAbsorbsRowWrittenBeforeInsert(t *testing.T) {
	f := newFixture(t)
	event := f.approvedEvent(t, "Robotics Meetup")

	injected := false
	err := f.db.Callback().Create().Before("gorm:create").Register("test:rival_registration", func(db *gorm.DB) {
		reg, ok := db.Statement.Dest.(*model.EventRegistration)
		if !ok || injected {
			return
		}
		injected = true
		_, execErr := db.Statement.ConnPool.ExecContext(db.Statement.Context,
			"INSERT INTO event_registrations (student_id, event_id, registered_at) VALUES (?, ?, ?)",
			reg.StudentID, reg.EventID, time.Now())
		if execErr != nil {
			db.AddError(execErr)
		}
	})
	require.NoError(t, err)

	res, err := f.workflow.RegisterForEvent(context.Background(), rcFor(f.student), event.ID)
	require.NoError(t, err)
	require.True(t, injected)
	assert.Equal(t, AlreadyRegistered, res.Outcome)
	assert.Nil(t, res.Participant)
	require.NotNil(t, res.Registration)
	assert.NotZero(t, res.Registration.ID)

	var regs, participants int64
	f.db.Model(&model.EventRegistration{}).Where("event_id = ?", event.ID).Count(&regs)
	f.db.Model(&model.Participant{}).Where("event_id = ?", event.ID).Count(&participants)
	assert.EqualValues(t, 1, regs)
	assert.EqualValues(t, 0, participants)
}

func TestAdminEventIsApprovedAndVisibleToStudents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	event := f.approvedEvent(t, "Orientation")
	assert.Equal(t, model.EventStatusApproved, event.Status)

	events, err := f.workflow.ListEventsForRole(ctx, rcFor(f.student))
	require.NoError(t, err)
	assert.Contains(t, eventIDs(events), event.ID)
}

func TestAdminEventWithoutEndTimeRunsToEndOfDay(t *testing.T) {
	f := newFixture(t)
	event := f.approvedEvent(t, "Open Day")
	assert.Equal(t, "23:59:00", event.EndTime.String())
}

func TestTeacherProposalNeedsApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	event := f.pendingEvent(t, "Robotics Club")
	assert.Equal(t, model.EventStatusPending, event.Status)

	events, err := f.workflow.ListEventsForRole(ctx, rcFor(f.student))
	require.NoError(t, err)
	assert.NotContains(t, eventIDs(events), event.ID)

	teacherView, err := f.workflow.ListEventsForRole(ctx, rcFor(f.teacher))
	require.NoError(t, err)
	assert.NotContains(t, eventIDs(teacherView), event.ID)

	_, err = f.workflow.ApproveEvent(ctx, rcFor(f.admin), event.ID)
	require.NoError(t, err)

	events, err = f.workflow.ListEventsForRole(ctx, rcFor(f.student))
	require.NoError(t, err)
	assert.Contains(t, eventIDs(events), event.ID)

	teacherView, err = f.workflow.ListEventsForRole(ctx, rcFor(f.teacher))
	require.NoError(t, err)
	assert.Equal(t, []uint{event.ID}, eventIDs(teacherView))
}

func TestListEventsOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := rcFor(f.admin)

	soon, err := f.workflow.ProposeEvent(ctx, admin, eventInput("Soon", time.Now().AddDate(0, 0, 1)))
	require.NoError(t, err)
	later, err := f.workflow.ProposeEvent(ctx, admin, eventInput("Later", time.Now().AddDate(0, 1, 0)))
	require.NoError(t, err)
	middle, err := f.workflow.ProposeEvent(ctx, admin, eventInput("Middle", time.Now().AddDate(0, 0, 10)))
	require.NoError(t, err)
	pending := f.pendingEvent(t, "Pending")

	all, err := f.workflow.ListEventsForRole(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, []uint{pending.ID, middle.ID, later.ID, soon.ID}, eventIDs(all))

	parentView, err := f.workflow.ListEventsForRole(ctx, rcFor(f.parent))
	require.NoError(t, err)
	assert.Equal(t, []uint{later.ID, middle.ID, soon.ID}, eventIDs(parentView))
}

func TestProposeEventValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.workflow.ProposeEvent(ctx, rcFor(f.teacher), eventInput("   ", time.Now()))
	assert.ErrorIs(t, err, ErrValidation)

	in := eventInput("Bad type", time.Now())
	in.EventType = "party"
	_, err = f.workflow.ProposeEvent(ctx, rcFor(f.teacher), in)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.workflow.ProposeEvent(ctx, rcFor(f.student), eventInput("Student idea", time.Now()))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestParticipantSnapshotSurvivesProfileRename(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event := f.approvedEvent(t, "Poetry Night")

	res, err := f.workflow.RegisterForEvent(ctx, rcFor(f.student), event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sam Tester", res.Participant.StudentName)
	assert.Equal(t, f.student.Email, res.Participant.StudentEmail)

	renamed := "Samuel"
	_, err = f.workflow.UpdateProfile(ctx, rcFor(f.student), UpdateProfileInput{FirstName: &renamed})
	require.NoError(t, err)

	roster, err := f.workflow.ListParticipants(ctx, rcFor(f.teacher), event.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "Sam Tester", roster[0].StudentName)
}

func TestUnregisterKeepsRosterRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event := f.approvedEvent(t, "Chess")

	res, err := f.workflow.RegisterForEvent(ctx, rcFor(f.student), event.ID)
	require.NoError(t, err)
	require.NoError(t, f.workflow.UnregisterEvent(ctx, rcFor(f.student), event.ID))

	var regs int64
	f.db.Model(&model.EventRegistration{}).Where("event_id = ?", event.ID).Count(&regs)
	assert.EqualValues(t, 0, regs)

	roster, err := f.workflow.ListParticipants(ctx, rcFor(f.admin), event.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)

	p, err := f.workflow.MarkAttendance(ctx, rcFor(f.teacher), res.Participant.ID)
	require.NoError(t, err)
	assert.True(t, p.Attended)
}

func TestReRegisterAfterUnregisterAddsSecondRosterRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event := f.approvedEvent(t, "Film Club")

	_, err := f.workflow.RegisterForEvent(ctx, rcFor(f.student), event.ID)
	require.NoError(t, err)
	require.NoError(t, f.workflow.UnregisterEvent(ctx, rcFor(f.student), event.ID))

	res, err := f.workflow.RegisterForEvent(ctx, rcFor(f.student), event.ID)
	require.NoError(t, err)
	assert.Equal(t, Registered, res.Outcome)

	roster, err := f.workflow.ListParticipants(ctx, rcFor(f.admin), event.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 2)
}

func TestListParticipantsUnknownEvent(t *testing.T) {
	f := newFixture(t)
	_, err := f.workflow.ListParticipants(context.Background(), rcFor(f.teacher), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListParticipantsEmptyRosterIsNotNil(t *testing.T) {
	f := newFixture(t)
	event := f.approvedEvent(t, "Empty")
	roster, err := f.workflow.ListParticipants(context.Background(), rcFor(f.teacher), event.ID)
	require.NoError(t, err)
	assert.NotNil(t, roster)
	assert.Empty(t, roster)
}

func TestGetEventVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pending := f.pendingEvent(t, "Draft")
	approved := f.approvedEvent(t, "Published")

	_, err := f.workflow.GetEvent(ctx, rcFor(f.student), pending.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.workflow.GetEvent(ctx, rcFor(f.parent), pending.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	detail, err := f.workflow.GetEvent(ctx, rcFor(f.teacher), pending.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Registered)

	_, err = f.workflow.GetEvent(ctx, rcFor(f.admin), pending.ID)
	require.NoError(t, err)

	detail, err = f.workflow.GetEvent(ctx, rcFor(f.student), approved.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Registered)
	assert.False(t, *detail.Registered)

	_, err = f.workflow.RegisterForEvent(ctx, rcFor(f.student), approved.ID)
	require.NoError(t, err)
	detail, err = f.workflow.GetEvent(ctx, rcFor(f.student), approved.ID)
	require.NoError(t, err)
	assert.True(t, *detail.Registered)
}

func TestCapabilityChecksGuardWorkflow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event := f.approvedEvent(t, "Guarded")

	_, err := f.workflow.ApproveEvent(ctx, rcFor(f.teacher), event.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.workflow.RegisterForEvent(ctx, rcFor(f.parent), event.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.workflow.ListParticipants(ctx, rcFor(f.student), event.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.workflow.Dashboard(ctx, rcFor(f.teacher))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.workflow.ListEventsForRole(ctx, RequestContext{Role: model.RoleAdmin})
	assert.ErrorIs(t, err, ErrForbidden)

	var svcErr *Error
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, 403, svcErr.HTTPStatus())
}

func TestListMyRegistrations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.approvedEvent(t, "First")
	second := f.approvedEvent(t, "Second")

	_, err := f.workflow.RegisterForEvent(ctx, rcFor(f.student), first.ID)
	require.NoError(t, err)
	_, err = f.workflow.RegisterForEvent(ctx, rcFor(f.student), second.ID)
	require.NoError(t, err)

	regs, err := f.workflow.ListMyRegistrations(ctx, rcFor(f.student))
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, second.ID, regs[0].EventID)
	require.NotNil(t, regs[0].Event)
	assert.Equal(t, "Second", regs[0].Event.Title)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.approvedEvent(t, "A")
	f.approvedEvent(t, "B")
	pending := f.pendingEvent(t, "C")

	d, err := f.workflow.Dashboard(ctx, rcFor(f.admin))
	require.NoError(t, err)
	assert.EqualValues(t, 1, d.PendingCount)
	assert.EqualValues(t, 2, d.ApprovedCount)
	require.Len(t, d.PendingEvents, 1)
	assert.Equal(t, pending.ID, d.PendingEvents[0].ID)
	require.NotNil(t, d.PendingEvents[0].CreatedBy)
	assert.Equal(t, f.teacher.ID, d.PendingEvents[0].CreatedBy.ID)
	assert.Len(t, d.RecentEvents, 3)
	assert.Equal(t, pending.ID, d.RecentEvents[0].ID)
}

func TestDashboardRecentIsCapped(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < recentEventsLimit+2; i++ {
		f.approvedEvent(t, "Event")
	}
	d, err := f.workflow.Dashboard(context.Background(), rcFor(f.admin))
	require.NoError(t, err)
	assert.Len(t, d.RecentEvents, recentEventsLimit)
}

func TestArchiveRosterWithoutStorage(t *testing.T) {
	f := newFixture(t)
	event := f.approvedEvent(t, "Archive")
	_, err := f.workflow.ArchiveRoster(context.Background(), rcFor(f.admin), event.ID)

	var svcErr *Error
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, KindUnavailable, svcErr.Kind)
	assert.Equal(t, 503, svcErr.HTTPStatus())
}

type memoryStore struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStore) UploadBytes(_ context.Context, key string, data []byte, contentType string) (string, error) {
	m.objects[key] = data
	m.types[key] = contentType
	return key, nil
}

func TestArchiveRosterUploadsCSV(t *testing.T) {
	db := newTestDB(t)
	store := newMemoryStore()
	fixed := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	w := NewWorkflow(db, WithArchive(store), WithClock(func() time.Time { return fixed }))

	admin := createUser(t, db, model.RoleAdmin, "Ada", "ada@campus.test")
	student := createUser(t, db, model.RoleStudent, "Sam", "sam@campus.test")
	ctx := context.Background()

	event, err := w.ProposeEvent(ctx, rcFor(admin), eventInput("Archived", fixed))
	require.NoError(t, err)
	_, err = w.RegisterForEvent(ctx, rcFor(student), event.ID)
	require.NoError(t, err)

	key, err := w.ArchiveRoster(ctx, rcFor(admin), event.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("rosters/%d/event-%d-roster-20240309.csv", event.ID, event.ID), key)
	assert.Equal(t, "text/csv", store.types[key])
	assert.Contains(t, string(store.objects[key]), "sam@campus.test")
}

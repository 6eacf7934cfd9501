package services

import (
	"context"
	"testing"
	"time"

	"github.com/sahilchouksey/campus-events/model"
	"github.com/sahilchouksey/campus-events/utils/auth"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	auth.HashCost = bcrypt.MinCost
}

var testModels = []interface{}{
	&model.UserProfile{},
	&model.Event{},
	&model.EventRegistration{},
	&model.Participant{},
	&model.Feedback{},
	&model.JWTTokenBlacklist{},
	&model.AdminAuditLog{},
	&model.CronJobLog{},
}

// newTestDB opens a private in-memory database. A single connection keeps
// every query on the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(testModels...))
	return db
}

func createUser(t *testing.T, db *gorm.DB, role model.Role, first, email string) *model.UserProfile {
	t.Helper()
	u := &model.UserProfile{
		FirstName:    first,
		LastName:     "Tester",
		Email:        email,
		Role:         role,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func rcFor(u *model.UserProfile) RequestContext {
	return RequestContext{UserID: u.ID, Role: u.Role}
}

func eventInput(title string, date time.Time) ProposeEventInput {
	return ProposeEventInput{
		Title:     title,
		EventType: model.EventTypeWorkshop,
		Date:      date,
		Venue:     "Hall A",
	}
}

type fixture struct {
	db       *gorm.DB
	workflow *Workflow
	admin    *model.UserProfile
	teacher  *model.UserProfile
	student  *model.UserProfile
	parent   *model.UserProfile
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	return &fixture{
		db:       db,
		workflow: NewWorkflow(db),
		admin:    createUser(t, db, model.RoleAdmin, "Ada", "admin@campus.test"),
		teacher:  createUser(t, db, model.RoleTeacher, "Tom", "teacher@campus.test"),
		student:  createUser(t, db, model.RoleStudent, "Sam", "student@campus.test"),
		parent:   createUser(t, db, model.RoleParent, "Pat", "parent@campus.test"),
	}
}

// approvedEvent creates an event as admin, which publishes it immediately
func (f *fixture) approvedEvent(t *testing.T, title string) *model.Event {
	t.Helper()
	e, err := f.workflow.ProposeEvent(context.Background(), rcFor(f.admin), eventInput(title, time.Now().AddDate(0, 0, 3)))
	require.NoError(t, err)
	return e
}

func (f *fixture) pendingEvent(t *testing.T, title string) *model.Event {
	t.Helper()
	e, err := f.workflow.ProposeEvent(context.Background(), rcFor(f.teacher), eventInput(title, time.Now().AddDate(0, 0, 5)))
	require.NoError(t, err)
	return e
}

func eventIDs(events []model.Event) []uint {
	ids := make([]uint, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}

package database

import (
	"testing"

	"github.com/sahilchouksey/campus-events/model"
	"github.com/sahilchouksey/campus-events/utils/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedStore(t *testing.T) *GORMStore {
	t.Helper()
	auth.HashCost = bcrypt.MinCost

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := NewGORMStore(db)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Init())
	require.NoError(t, store.HealthCheck())
	return store
}

func TestSeedAllIsRepeatable(t *testing.T) {
	store := newSeedStore(t)
	db := store.GetDB()

	require.NoError(t, RunSeeds(db, "Admin@Campus.test", "admin-password"))
	require.NoError(t, RunSeeds(db, "Admin@Campus.test", "admin-password"))

	var admins, users, events, pending int64
	db.Model(&model.UserProfile{}).Where("role = ?", model.RoleAdmin).Count(&admins)
	db.Model(&model.UserProfile{}).Count(&users)
	db.Model(&model.Event{}).Count(&events)
	db.Model(&model.Event{}).Where("status = ?", model.EventStatusPending).Count(&pending)

	assert.EqualValues(t, 1, admins)
	assert.EqualValues(t, 5, users)
	assert.EqualValues(t, 2, events)
	assert.EqualValues(t, 1, pending)

	var admin model.UserProfile
	require.NoError(t, db.Where("role = ?", model.RoleAdmin).First(&admin).Error)
	assert.Equal(t, "admin@campus.test", admin.Email)
	assert.NoError(t, auth.VerifyPassword(admin.PasswordHash, "admin-password"))
}

func TestSeedAdminSkippedWithoutCredentials(t *testing.T) {
	store := newSeedStore(t)
	require.NoError(t, NewSeeder(store.GetDB(), "", "").SeedAdminUser())

	var admins int64
	store.GetDB().Model(&model.UserProfile{}).Where("role = ?", model.RoleAdmin).Count(&admins)
	assert.EqualValues(t, 0, admins)
}

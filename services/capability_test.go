package services

import (
	"testing"

	"github.com/sahilchouksey/campus-events/model"
	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	const (
		A = model.RoleAdmin
		T = model.RoleTeacher
		S = model.RoleStudent
		P = model.RoleParent
	)

	tests := []struct {
		op      Operation
		allowed []model.Role
	}{
		{OpProposeEvent, []model.Role{A, T}},
		{OpApproveEvent, []model.Role{A}},
		{OpRejectEvent, []model.Role{A}},
		{OpListEvents, []model.Role{A, T, S, P}},
		{OpGetEvent, []model.Role{A, T, S, P}},
		{OpViewDashboard, []model.Role{A}},
		{OpRegister, []model.Role{S}},
		{OpUnregister, []model.Role{S}},
		{OpListMyRegistrations, []model.Role{S}},
		{OpListParticipants, []model.Role{A, T}},
		{OpMarkAttendance, []model.Role{A, T}},
		{OpUnmarkAttendance, []model.Role{A, T}},
		{OpExportRoster, []model.Role{A, T}},
		{OpSubmitFeedback, []model.Role{S}},
		{OpListFeedback, []model.Role{A, T}},
		{OpViewAuditLog, []model.Role{A}},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			for _, role := range []model.Role{A, T, S, P} {
				assert.Equal(t, contains(tt.allowed, role), Allowed(role, tt.op), "role %s", role)
			}
		})
	}
}

func TestAllowedDeniesUnknown(t *testing.T) {
	assert.False(t, Allowed("janitor", OpListEvents))
	assert.False(t, Allowed(model.RoleAdmin, Operation("drop_tables")))
}

func TestAuthorizeRequiresUser(t *testing.T) {
	rc := RequestContext{Role: model.RoleAdmin}
	assert.ErrorIs(t, rc.authorize(OpListEvents), ErrForbidden)

	rc.UserID = 1
	assert.NoError(t, rc.authorize(OpListEvents))
}

func contains(roles []model.Role, role model.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

package services

import "github.com/sahilchouksey/campus-events/model"

// Operation names a guarded workflow entry point
type Operation string

const (
	OpProposeEvent        Operation = "propose_event"
	OpApproveEvent        Operation = "approve_event"
	OpRejectEvent         Operation = "reject_event"
	OpListEvents          Operation = "list_events"
	OpGetEvent            Operation = "get_event"
	OpViewDashboard       Operation = "view_dashboard"
	OpRegister            Operation = "register"
	OpUnregister          Operation = "unregister"
	OpListMyRegistrations Operation = "list_my_registrations"
	OpListParticipants    Operation = "list_participants"
	OpMarkAttendance      Operation = "mark_attendance"
	OpUnmarkAttendance    Operation = "unmark_attendance"
	OpExportRoster        Operation = "export_roster"
	OpSubmitFeedback      Operation = "submit_feedback"
	OpListFeedback        Operation = "list_feedback"
	OpViewAuditLog        Operation = "view_audit_log"
)

var (
	everyone    = []model.Role{model.RoleAdmin, model.RoleTeacher, model.RoleStudent, model.RoleParent}
	staff       = []model.Role{model.RoleAdmin, model.RoleTeacher}
	adminOnly   = []model.Role{model.RoleAdmin}
	studentOnly = []model.Role{model.RoleStudent}
)

var capabilities = map[Operation][]model.Role{
	OpProposeEvent:        staff,
	OpApproveEvent:        adminOnly,
	OpRejectEvent:         adminOnly,
	OpListEvents:          everyone,
	OpGetEvent:            everyone,
	OpViewDashboard:       adminOnly,
	OpRegister:            studentOnly,
	OpUnregister:          studentOnly,
	OpListMyRegistrations: studentOnly,
	OpListParticipants:    staff,
	OpMarkAttendance:      staff,
	OpUnmarkAttendance:    staff,
	OpExportRoster:        staff,
	OpSubmitFeedback:      studentOnly,
	OpListFeedback:        staff,
	OpViewAuditLog:        adminOnly,
}

// Allowed is the single authorization decision for the workflow.
// Unknown operations and roles are denied.
func Allowed(role model.Role, op Operation) bool {
	for _, r := range capabilities[op] {
		if r == role {
			return true
		}
	}
	return false
}

// RequestContext identifies the caller of a workflow operation.
// It is built once per request from the verified session and never mutated.
type RequestContext struct {
	UserID uint
	Role   model.Role
}

// authorize runs the capability check for op
func (rc RequestContext) authorize(op Operation) error {
	if rc.UserID == 0 || !Allowed(rc.Role, op) {
		return forbidden(op)
	}
	return nil
}

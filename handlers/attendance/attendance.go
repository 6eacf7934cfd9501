package attendance

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-events/services"
	"github.com/sahilchouksey/campus-events/utils"
	"github.com/sahilchouksey/campus-events/utils/middleware"
	"github.com/sahilchouksey/campus-events/utils/response"
)

// AttendanceHandler handles the per-event participant roster
type AttendanceHandler struct {
	workflow *services.Workflow
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(workflow *services.Workflow) *AttendanceHandler {
	return &AttendanceHandler{workflow: workflow}
}

// ListParticipants handles GET /api/v1/events/:id/participants
func (h *AttendanceHandler) ListParticipants(c *fiber.Ctx) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	eventID, err := utils.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	participants, err := h.workflow.ListParticipants(c.UserContext(), rc, eventID)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, participants)
}

// ExportRoster handles GET /api/v1/events/:id/participants/export
func (h *AttendanceHandler) ExportRoster(c *fiber.Ctx) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	eventID, err := utils.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	export, err := h.workflow.ExportRoster(c.UserContext(), rc, eventID)
	if err != nil {
		return response.Fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, export.FileName))
	return c.Status(fiber.StatusOK).Send(export.Data)
}

// ArchiveRoster handles POST /api/v1/events/:id/participants/archive
func (h *AttendanceHandler) ArchiveRoster(c *fiber.Ctx) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	eventID, err := utils.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	key, err := h.workflow.ArchiveRoster(c.UserContext(), rc, eventID)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.SuccessWithMessage(c, "Roster archived", fiber.Map{"key": key})
}

// MarkAttendance handles POST /api/v1/participants/:id/attendance
func (h *AttendanceHandler) MarkAttendance(c *fiber.Ctx) error {
	return h.setAttended(c, true)
}

// UnmarkAttendance handles DELETE /api/v1/participants/:id/attendance
func (h *AttendanceHandler) UnmarkAttendance(c *fiber.Ctx) error {
	return h.setAttended(c, false)
}

func (h *AttendanceHandler) setAttended(c *fiber.Ctx, attended bool) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	participantID, err := utils.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid participant ID")
	}

	mark := h.workflow.MarkAttendance
	if !attended {
		mark = h.workflow.UnmarkAttendance
	}

	participant, err := mark(c.UserContext(), rc, participantID)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, participant)
}

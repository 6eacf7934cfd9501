package event

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-events/model"
	"github.com/sahilchouksey/campus-events/utils"
	"github.com/sahilchouksey/campus-events/utils/middleware"
	"github.com/sahilchouksey/campus-events/utils/response"
)

// ApproveEvent handles POST /api/v1/events/:id/approve
func (h *EventHandler) ApproveEvent(c *fiber.Ctx) error {
	return h.review(c, model.EventStatusApproved)
}

// RejectEvent handles POST /api/v1/events/:id/reject
func (h *EventHandler) RejectEvent(c *fiber.Ctx) error {
	return h.review(c, model.EventStatusRejected)
}

func (h *EventHandler) review(c *fiber.Ctx, status model.EventStatus) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	eventID, err := utils.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	var event *model.Event
	if status == model.EventStatusApproved {
		event, err = h.workflow.ApproveEvent(c.UserContext(), rc, eventID)
	} else {
		event, err = h.workflow.RejectEvent(c.UserContext(), rc, eventID)
	}
	if err != nil {
		return response.Fail(c, err)
	}

	return response.SuccessWithMessage(c, "Event "+string(event.Status), event)
}

// Dashboard handles GET /api/v1/admin/dashboard
func (h *EventHandler) Dashboard(c *fiber.Ctx) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	dashboard, err := h.workflow.Dashboard(c.UserContext(), rc)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, dashboard)
}

// AuditLogs handles GET /api/v1/admin/audit?action=event_approve
func (h *EventHandler) AuditLogs(c *fiber.Ctx) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	logs, err := h.workflow.ListAuditLogs(c.UserContext(), rc, c.Query("action"))
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, logs)
}

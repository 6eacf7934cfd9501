package event

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-events/model"
	"github.com/sahilchouksey/campus-events/services"
	"github.com/sahilchouksey/campus-events/utils"
	"github.com/sahilchouksey/campus-events/utils/middleware"
	"github.com/sahilchouksey/campus-events/utils/response"
)

// EventHandler handles event proposal, review and listing
type EventHandler struct {
	workflow *services.Workflow
}

// NewEventHandler creates a new event handler
func NewEventHandler(workflow *services.Workflow) *EventHandler {
	return &EventHandler{workflow: workflow}
}

// ProposeEventRequest is the request body for POST /events.
// Date is YYYY-MM-DD, times are HH:MM or HH:MM:SS.
type ProposeEventRequest struct {
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	EventType         model.EventType  `json:"event_type"`
	Department        model.Department `json:"department"`
	Date              string           `json:"date"`
	StartTime         string           `json:"start_time"`
	EndTime           string           `json:"end_time"`
	Venue             string           `json:"venue"`
	StaffCoordinators []string         `json:"staff_coordinators"`
	EquipmentRequired []string         `json:"equipment_required"`
}

func (r ProposeEventRequest) toInput() (services.ProposeEventInput, error) {
	in := services.ProposeEventInput{
		Title:             r.Title,
		Description:       r.Description,
		EventType:         r.EventType,
		Department:        r.Department,
		Venue:             r.Venue,
		StaffCoordinators: r.StaffCoordinators,
		EquipmentRequired: r.EquipmentRequired,
	}

	date, err := utils.ParseDate(r.Date)
	if err != nil {
		return in, err
	}
	in.Date = date

	if in.StartTime, err = utils.ParseClock(r.StartTime); err != nil {
		return in, err
	}
	if in.EndTime, err = utils.ParseClock(r.EndTime); err != nil {
		return in, err
	}
	return in, nil
}

// ProposeEvent handles POST /api/v1/events
func (h *EventHandler) ProposeEvent(c *fiber.Ctx) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	if err := h.workflow.Authorize(rc, services.OpProposeEvent); err != nil {
		return response.Fail(c, err)
	}

	var req ProposeEventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	in, err := req.toInput()
	if err != nil {
		return response.ValidationError(c, err)
	}

	event, err := h.workflow.ProposeEvent(c.UserContext(), rc, in)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Created(c, event)
}

// ListEvents handles GET /api/v1/events.
// What is listed depends on the caller's role.
func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	events, err := h.workflow.ListEventsForRole(c.UserContext(), rc)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, events)
}

// GetEvent handles GET /api/v1/events/:id
func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	eventID, err := utils.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	event, err := h.workflow.GetEvent(c.UserContext(), rc, eventID)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, event)
}

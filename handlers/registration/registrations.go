package registration

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-events/services"
	"github.com/sahilchouksey/campus-events/utils"
	"github.com/sahilchouksey/campus-events/utils/middleware"
	"github.com/sahilchouksey/campus-events/utils/response"
)

// RegistrationHandler handles student sign-ups
type RegistrationHandler struct {
	workflow *services.Workflow
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(workflow *services.Workflow) *RegistrationHandler {
	return &RegistrationHandler{workflow: workflow}
}

// Register handles POST /api/v1/events/:id/register.
// A first registration answers 201, a repeat answers 200 with the existing record.
func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	eventID, err := utils.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	result, err := h.workflow.RegisterForEvent(c.UserContext(), rc, eventID)
	if err != nil {
		return response.Fail(c, err)
	}

	if result.Outcome == services.AlreadyRegistered {
		return response.SuccessWithMessage(c, "Already registered for this event", result)
	}

	return c.Status(fiber.StatusCreated).JSON(response.Response{
		Success: true,
		Message: "Registered for event",
		Data:    result,
	})
}

// Unregister handles DELETE /api/v1/events/:id/register
func (h *RegistrationHandler) Unregister(c *fiber.Ctx) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	eventID, err := utils.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	if err := h.workflow.UnregisterEvent(c.UserContext(), rc, eventID); err != nil {
		return response.Fail(c, err)
	}

	return response.SuccessWithMessage(c, "Unregistered from event", nil)
}

// Mine handles GET /api/v1/registrations/me
func (h *RegistrationHandler) Mine(c *fiber.Ctx) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	registrations, err := h.workflow.ListMyRegistrations(c.UserContext(), rc)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, registrations)
}

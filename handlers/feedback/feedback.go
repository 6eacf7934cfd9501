package feedback

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-events/services"
	"github.com/sahilchouksey/campus-events/utils"
	"github.com/sahilchouksey/campus-events/utils/middleware"
	"github.com/sahilchouksey/campus-events/utils/response"
)

// FeedbackHandler handles event ratings
type FeedbackHandler struct {
	workflow *services.Workflow
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(workflow *services.Workflow) *FeedbackHandler {
	return &FeedbackHandler{workflow: workflow}
}

// SubmitFeedback handles POST /api/v1/events/:id/feedback
func (h *FeedbackHandler) SubmitFeedback(c *fiber.Ctx) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	eventID, err := utils.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	var req services.SubmitFeedbackInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	fb, err := h.workflow.SubmitFeedback(c.UserContext(), rc, eventID, req)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Created(c, fb)
}

// ListFeedback handles GET /api/v1/events/:id/feedback
func (h *FeedbackHandler) ListFeedback(c *fiber.Ctx) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	eventID, err := utils.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	feedback, err := h.workflow.ListFeedback(c.UserContext(), rc, eventID)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, feedback)
}

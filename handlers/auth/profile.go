package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-events/services"
	"github.com/sahilchouksey/campus-events/utils/middleware"
	"github.com/sahilchouksey/campus-events/utils/response"
)

// GetProfile returns the caller's profile
// GET /api/v1/profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	user, err := h.workflow.GetProfile(c.UserContext(), rc)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, toUserResponse(user))
}

// UpdateProfile edits the caller's names and designation
// PUT /api/v1/profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.workflow.UpdateProfile(c.UserContext(), rc, req)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.SuccessWithMessage(c, "Profile updated", toUserResponse(user))
}

package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/campus-events/services"
	"github.com/sahilchouksey/campus-events/utils/response"
)

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	ip := c.IP()

	_, user, err := h.workflow.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			if _, guardErr := h.loginGuard.RecordFailure(c.UserContext(), ip, req.Email); guardErr != nil {
				log.Warnf("failed to record login failure: %v", guardErr)
			}
		}
		return response.Fail(c, err)
	}

	// Clear failed attempts on successful login
	if err := h.loginGuard.Reset(c.UserContext(), ip, req.Email); err != nil {
		log.Warnf("failed to reset login failures: %v", err)
	}

	res, err := h.issue(user)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}

	return response.Success(c, res)
}

package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-events/model"
	"github.com/sahilchouksey/campus-events/services"
	authutil "github.com/sahilchouksey/campus-events/utils/auth"
	"github.com/sahilchouksey/campus-events/utils/middleware"
	"github.com/sahilchouksey/campus-events/utils/response"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	workflow         *services.Workflow
	jwtManager       *authutil.JWTManager
	blacklistService *authutil.BlacklistService
	loginGuard       *middleware.LoginGuard
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, workflow *services.Workflow, jwtManager *authutil.JWTManager, loginGuard *middleware.LoginGuard) *AuthHandler {
	return &AuthHandler{
		workflow:         workflow,
		jwtManager:       jwtManager,
		blacklistService: authutil.NewBlacklistService(db),
		loginGuard:       loginGuard,
	}
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID          uint             `json:"id"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Email       string           `json:"email"`
	Department  model.Department `json:"department"`
	Designation string           `json:"designation"`
	Role        model.Role       `json:"role"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

func toUserResponse(u *model.UserProfile) UserResponse {
	return UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Department:  u.Department,
		Designation: u.Designation,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (h *AuthHandler) issue(user *model.UserProfile) (*AuthResponse, error) {
	pair, err := h.jwtManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(h.jwtManager.AccessExpiry().Seconds()),
	}, nil
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterUserInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.workflow.RegisterUser(c.UserContext(), req)
	if err != nil {
		return response.Fail(c, err)
	}

	res, err := h.issue(user)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}

	return response.Created(c, res)
}

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/campus-events/model"
	"github.com/sahilchouksey/campus-events/utils/auth"
	"github.com/sahilchouksey/campus-events/utils/validation"
	"gorm.io/gorm"
)

// Identity is the result of a successful credential check
type Identity struct {
	UserID uint       `json:"user_id"`
	Role   model.Role `json:"role"`
}

// RegisterUserInput carries the fields of a new profile
type RegisterUserInput struct {
	FirstName   string           `json:"first_name" validate:"notblank,max=150"`
	LastName    string           `json:"last_name" validate:"max=150"`
	Email       string           `json:"email" validate:"required,email,max=254"`
	Password    string           `json:"password" validate:"required,min=8,max=72"`
	Department  model.Department `json:"department" validate:"omitempty,oneof=science mathematics arts commerce computer_science administration"`
	Designation string           `json:"designation" validate:"max=100"`
	Role        model.Role       `json:"role" validate:"required,oneof=student teacher parent admin"`
}

// UpdateProfileInput only covers descriptive fields. Role and email never change here.
type UpdateProfileInput struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=150"`
	LastName    *string `json:"last_name" validate:"omitempty,max=150"`
	Designation *string `json:"designation" validate:"omitempty,max=100"`
}

// IdentityService resolves credentials and manages user profiles
type IdentityService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewIdentityService creates a new identity service
func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// Authenticate resolves an email/password pair to exactly one profile.
// Unknown email and wrong password are reported identically.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*Identity, *model.UserProfile, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	var user model.UserProfile
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, storageError("failed to load user", err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			log.Warnf("password verification failed for user %d: %v", user.ID, err)
		}
		return nil, nil, ErrInvalidCredentials
	}

	return &Identity{UserID: user.ID, Role: user.Role}, &user, nil
}

// RegisterUser creates a new profile. A duplicate email is a Conflict.
func (s *IdentityService) RegisterUser(ctx context.Context, in RegisterUserInput) (*model.UserProfile, error) {
	in.FirstName = validation.SanitizeString(in.FirstName)
	in.LastName = validation.SanitizeString(in.LastName)
	in.Designation = validation.SanitizeString(in.Designation)
	in.Email = normalizeEmail(in.Email)

	if err := s.validator.ValidateStruct(in); err != nil {
		return nil, validationError(validation.Describe(err))
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.UserProfile{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, storageError("failed to check email", err)
	}
	if count > 0 {
		return nil, newError(KindConflict, "email is already registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, validationError(err.Error())
		}
		return nil, storageError("failed to hash password", err)
	}

	user := &model.UserProfile{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Department:   in.Department,
		Designation:  in.Designation,
		Role:         in.Role,
		PasswordHash: hash,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newError(KindConflict, "email is already registered")
		}
		return nil, storageError("failed to create user", err)
	}

	log.Infof("registered %s profile %d", user.Role, user.ID)
	return user, nil
}

// GetProfile loads a profile by id
func (s *IdentityService) GetProfile(ctx context.Context, userID uint) (*model.UserProfile, error) {
	var user model.UserProfile
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, lookupError("user", err)
	}
	return &user, nil
}

// UpdateProfile edits names and designation. Roster snapshots are left as they were.
func (s *IdentityService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*model.UserProfile, error) {
	if err := s.validator.ValidateStruct(in); err != nil {
		return nil, validationError(validation.Describe(err))
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.FirstName != nil {
		first := validation.SanitizeString(*in.FirstName)
		if first == "" {
			return nil, validationError("first_name is required")
		}
		updates["first_name"] = first
	}
	if in.LastName != nil {
		updates["last_name"] = validation.SanitizeString(*in.LastName)
	}
	if in.Designation != nil {
		updates["designation"] = validation.SanitizeString(*in.Designation)
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, storageError("failed to update profile", err)
	}

	return s.GetProfile(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Entelsac/ENTEL-SAC/internal/constants"
	"github.com/Entelsac/ENTEL-SAC/internal/models"
	"github.com/Entelsac/ENTEL-SAC/internal/notifier"
	"github.com/Entelsac/ENTEL-SAC/internal/policy"
	"github.com/Entelsac/ENTEL-SAC/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrRoleNotAllowed       = errors.New("role not allowed for this actor")
	ErrProtectedUser        = errors.New("user cannot be deleted")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// UserService handles administrative account management.
type UserService struct {
	userRepo repository.UserRepository
	notify   notifier.Notifier
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, notify notifier.Notifier) *UserService {
	return &UserService{
		userRepo: userRepo,
		notify:   notify,
	}
}

// CreateUserInput represents the required information to create an account.
type CreateUserInput struct {
	Username string
	Password string
	Role     models.Role
}

// CreateUser creates an account on behalf of an admin or superadmin. The
// role the new account may carry depends on the actor: admins create
// clients only, superadmins anything below superadmin.
func (s *UserService) CreateUser(actor *models.User, input CreateUserInput) (*models.User, error) {
	if !policy.Allowed(actor.Role, policy.ActionCreateUser) {
		return nil, ErrPermissionDenied
	}

	role := models.Role(strings.ToLower(strings.TrimSpace(string(input.Role))))
	if !policy.AllowedNewRole(actor.Role, role) {
		return nil, ErrRoleNotAllowed
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         role,
		Credits:      0,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.notify.UserCreated(user, actor)

	return user, nil
}

// AddCredits grants credits to a user. Only superadmins pass the policy
// gate. A zero or negative amount is a silent no-op, not an error: the
// request succeeds and the balance stays put.
func (s *UserService) AddCredits(actor *models.User, userID uint64, amount int64) error {
	if !policy.Allowed(actor.Role, policy.ActionAddCredits) {
		return ErrPermissionDenied
	}

	if amount <= 0 {
		return nil
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.AddCredits(userID, amount); err != nil {
		return fmt.Errorf("failed to add credits: %w", err)
	}

	return nil
}

// DeleteUser removes an account. The bootstrap identities are refused.
func (s *UserService) DeleteUser(actor *models.User, userID uint64) error {
	if !policy.Allowed(actor.Role, policy.ActionDeleteUser) {
		return ErrPermissionDenied
	}

	target, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if policy.IsProtectedUser(target.Username) {
		return ErrProtectedUser
	}

	if err := s.userRepo.Delete(target.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// ListUsers returns every account for the admin panel, most recent first.
func (s *UserService) ListUsers(actor *models.User) ([]models.User, error) {
	if !policy.Allowed(actor.Role, policy.ActionViewAdminPanel) {
		return nil, ErrPermissionDenied
	}

	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

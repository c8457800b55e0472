package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Entelsac/ENTEL-SAC/internal/dto"
	apierrors "github.com/Entelsac/ENTEL-SAC/internal/errors"
	"github.com/Entelsac/ENTEL-SAC/internal/middleware"
	"github.com/Entelsac/ENTEL-SAC/internal/models"
	"github.com/Entelsac/ENTEL-SAC/internal/services"
)

// AdminHandler coordinates the admin panel HTTP handlers.
type AdminHandler struct {
	userService *services.UserService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userService *services.UserService) *AdminHandler {
	return &AdminHandler{
		userService: userService,
	}
}

// ListUsers returns all accounts, most recent first.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c)
		return
	}

	users, err := h.userService.ListUsers(actor)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserDTOs(users),
	})
}

// CreateUser creates an account. Which roles are permitted depends on the
// actor's own role.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c)
		return
	}

	type CreateUserRequest struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(actor, services.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// AddCredits grants credits to an account.
func (h *AdminHandler) AddCredits(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c)
		return
	}

	userID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type AddCreditsRequest struct {
		Amount int64 `json:"amount"`
	}

	var req AddCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.AddCredits(actor, userID, req.Amount); err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Credits processed",
	})
}

// DeleteUser removes an account. Bootstrap identities are refused.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c)
		return
	}

	userID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(actor, userID); err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted",
	})
}

func respondAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPermissionDenied),
		errors.Is(err, services.ErrRoleNotAllowed),
		errors.Is(err, services.ErrProtectedUser):
		apierrors.Forbidden(c)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c)
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

package handlers

import (
	"net/http"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-service/internal/api/dto"
	"github.com/spec-kit/event-service/internal/auth"
	"github.com/spec-kit/event-service/internal/service"
	apperrors "github.com/spec-kit/event-service/pkg/util"
)

// UsersHandler exposes signup, signin and profile endpoints.
type UsersHandler struct {
	auth     *service.AuthService
	validate *validator.Validate
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService, validate: validator.New()}
}

// Signup handles POST /api/users/signup.
func (h *UsersHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.Register(c.UserContext(), req.Username, req.Fullname, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.FromUser(user),
	})
}

// Signin handles POST /api/users/signin.
func (h *UsersHandler) Signin(c *fiber.Ctx) error {
	var req dto.SigninRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.Login, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.FromUser(user),
	})
}

// Me handles GET /api/users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.FromUser(principal.User))
}

// UpdateProfile handles PATCH /api/users/me. A username change re-signs
// the token so the subject claim stays resolvable.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateProfileRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.UpdateProfile(c.UserContext(), principal.User.ID, req.Patch())
	if err != nil {
		return err
	}

	resp := dto.ProfileResponse{User: dto.FromUser(user)}
	if token != "" {
		resp.Token = token
		resp.ExpiresAt = &exp
	}
	return c.JSON(resp)
}

// LikeEvent handles POST /api/users/me/liked-events/:eventID.
func (h *UsersHandler) LikeEvent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	event, err := h.auth.LikeEvent(c.UserContext(), principal.User.ID, c.Params("eventID"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromEvent(event))
}

// UnlikeEvent handles DELETE /api/users/me/liked-events/:eventID.
func (h *UsersHandler) UnlikeEvent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if _, err := h.auth.UnlikeEvent(c.UserContext(), principal.User.ID, c.Params("eventID")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// LikedEvents handles GET /api/users/me/liked-events.
func (h *UsersHandler) LikedEvents(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	events, err := h.auth.LikedEvents(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromEvents(events))
}

// List handles GET /api/users (admin only).
func (h *UsersHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	users, err := h.auth.ListUsers(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUsers(users))
}

package dto

import (
	"time"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/service"
)

// SignupRequest payload.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Fullname string `json:"fullname" validate:"max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SigninRequest accepts either a username or an email as the login.
type SigninRequest struct {
	Login    string `json:"login"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest payload. Absent fields are left unchanged.
type UpdateProfileRequest struct {
	Username      *string `json:"username"        validate:"omitempty,min=3,max=50"`
	Fullname      *string `json:"fullname"        validate:"omitempty,max=100"`
	Email         *string `json:"email"           validate:"omitempty,email"`
	ProfilePicURL *string `json:"profile_pic_url" validate:"omitempty,url"`
}

// Patch converts the request into a service-level profile patch.
func (r UpdateProfileRequest) Patch() service.ProfilePatch {
	return service.ProfilePatch{
		Username:      r.Username,
		Fullname:      r.Fullname,
		Email:         r.Email,
		ProfilePicURL: r.ProfilePicURL,
	}
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID            string      `json:"id"`
	Username      string      `json:"username"`
	Fullname      string      `json:"fullname"`
	Email         string      `json:"email"`
	Role          domain.Role `json:"role"`
	LikedEventIDs []string    `json:"liked_event_ids"`
	ProfilePicURL *string     `json:"profile_pic_url,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// AuthResponse carries the signed token alongside the user.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ProfileResponse is the profile-update response; Token is set only when
// the username changed and the token subject had to be refreshed.
type ProfileResponse struct {
	Token     string       `json:"token,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	User      UserResponse `json:"user"`
}

// FromUser maps a domain user.
func FromUser(user *domain.User) UserResponse {
	liked := user.LikedEventIDs
	if liked == nil {
		liked = []string{}
	}
	return UserResponse{
		ID:            user.ID,
		Username:      user.Username,
		Fullname:      user.Fullname,
		Email:         user.Email,
		Role:          user.Role,
		LikedEventIDs: liked,
		ProfilePicURL: user.ProfilePicURL,
		CreatedAt:     user.CreatedAt,
	}
}

// FromUsers maps a slice of domain users.
func FromUsers(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, FromUser(&users[i]))
	}
	return out
}

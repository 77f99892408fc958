package dto

import (
	"time"

	"recruit-dash/internal/domain/user"

	"github.com/google/uuid"
)

type RecruiterResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func NewRecruiterResponse(u user.User) RecruiterResponse {
	return RecruiterResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role), CreatedAt: u.CreatedAt}
}

type TokenResponse struct {
	Recruiter    *RecruiterResponse `json:"recruiter,omitempty"`
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
}

package dto

import "time"

type AuthRequest struct {
	Email    string `json:"email" validate:"required,loose_email"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthResponse struct {
	UserId    string `json:"user_id"`
	UserEmail string `json:"user_email"`
	HasToken  bool   `json:"has_token"`
	Message   string `json:"message,omitempty"`
}

type SessionStatusResponse struct {
	Authenticated bool       `json:"authenticated"`
	UserId        string     `json:"user_id,omitempty"`
	UserEmail     string     `json:"user_email,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Expired       bool       `json:"expired"`
}

type ProfileResponse struct {
	Email string `json:"email"`
}

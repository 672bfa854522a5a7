package auth

import (
	"github.com/halisahar-connect/civic-portal/internal/users"
)

// GoogleLoginRequest carries the identity credential issued to the browser.
type GoogleLoginRequest struct {
	Credential string `json:"credential" validate:"required"`
}

// LoginResponse is returned by sign-in and refresh.
type LoginResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}

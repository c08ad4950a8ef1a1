package http

import "time"

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid username or password"`
}

// ValidationErrorResponse carries field-level validation messages.
type ValidationErrorResponse struct {
	Error  string            `json:"error" example:"validation failed"`
	Fields map[string]string `json:"fields"`
}

// AuthUser is the sanitized user representation returned by auth endpoints.
// The password digest never leaves the server.
type AuthUser struct {
	ID        string    `json:"id" example:"9fd13fd2-63c5-4f29-a210-4a1a8e285f74"`
	Username  string    `json:"username" example:"alice"`
	Email     string    `json:"email" example:"alice@example.com"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-01T12:00:00Z"`
}

// AuthUserResponse wraps a user object.
type AuthUserResponse struct {
	User AuthUser `json:"user"`
}

// AuthTokenResponse is returned on successful login. The same token is also
// set as the session cookie.
type AuthTokenResponse struct {
	Token     string    `json:"token" example:"6f1e0c35f6a84d0f..."`
	ExpiresAt time.Time `json:"expires_at" example:"2024-01-02T09:30:00Z"`
	User      AuthUser  `json:"user"`
}

// SuccessResponse denotes a simple success flag.
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// RegisterRequest carries the registration fields.
type RegisterRequest struct {
	Username        string `json:"username" example:"alice"`
	Email           string `json:"email" example:"alice@example.com"`
	Password        string `json:"password" example:"password123"`
	ConfirmPassword string `json:"confirm_password" example:"password123"`
}

// LoginRequest carries the login fields.
type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"password123"`
}

package models

import "github.com/golang-jwt/jwt/v5"

// RegisterStudentRequest is the registration payload. NIM doubles as the
// login username.
type RegisterStudentRequest struct {
	Name      string `json:"name" validate:"required"`
	NIM       string `json:"nim" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
	ClassName string `json:"class" validate:"required"`
}

// LoginRequest holds credentials for authenticating a student or admin.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	User        UserInfo `json:"user"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Name      string   `json:"name"`
	Role      UserRole `json:"role"`
	NIM       *string  `json:"nim,omitempty"`
	ClassName *string  `json:"class,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID int64    `json:"user_id"`
	Role   UserRole `json:"role"`
	Name   string   `json:"name"`
	jwt.RegisteredClaims
}

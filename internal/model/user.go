package model

import "time"

// User status constants
const (
	UserStatusPending = "pending"
	UserStatusActive  = "active"
)

// User is a registered account. Accounts stay pending until the email is confirmed.
type User struct {
	Base
	Email         string     `json:"email" db:"email"`
	PasswordHash  string     `json:"-" db:"password_hash"`
	Status        string     `json:"status" db:"status"`
	EmailVerified bool       `json:"email_verified" db:"email_verified"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty" db:"verified_at"`
}

// RegisterUserRequest is the user credential payload.
type RegisterUserRequest struct {
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,min=8,bcryptlen"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required,eqfield=Password"`
}

package models

import "time"

// Role is the closed set of account kinds. Anything else is rejected at the
// boundary.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
)

// ParseRole validates a raw role string. Empty defaults to STUDENT.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleTeacher:
		return Role(s), true
	case "":
		return RoleStudent, true
	}
	return "", false
}

type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsVerified   bool       `json:"is_verified"`
	OTP          *string    `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	ProfileImage *string    `json:"profile_image,omitempty"`
	PhoneNumber  *string    `json:"phone_number,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

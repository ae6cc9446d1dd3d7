package store

import (
	"context"
	"errors"
	"time"

	"edura/internal/models"
)

var (
	// ErrNotFound means no row matched the lookup.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicateEmail means the email unique constraint was hit on create.
	ErrDuplicateEmail = errors.New("store: duplicate email")
	// ErrConflict means a conditional update matched zero rows, i.e. the
	// record changed under us between read and write.
	ErrConflict = errors.New("store: conflict")
)

// NewUser carries the fields the caller supplies on registration. The store
// assigns the id and timestamps.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	Role         models.Role
	OTP          string
	OTPExpiresAt time.Time
}

// UserPatch is a partial update of the common user fields. Nil means "leave
// as is"; only present fields enter the UPDATE.
type UserPatch struct {
	Name         *string
	ProfileImage *string
	PhoneNumber  *string
}

// UserStore persists user records and their role profiles.
//
// RotateOTP and ConsumeOTP are conditional writes: the WHERE clause re-checks
// the precondition so that two concurrent verify/resend calls for the same
// record cannot both win. A lost race surfaces as ErrConflict.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, nu NewUser) (*models.User, error)

	RotateOTP(ctx context.Context, id int64, code string, expiresAt time.Time) error
	ConsumeOTP(ctx context.Context, id int64, code string) error

	UpdateUserFields(ctx context.Context, id int64, p UserPatch) (*models.User, error)

	UpsertStudentProfile(ctx context.Context, p models.StudentProfile) error
	UpsertTeacherProfile(ctx context.Context, p models.TeacherProfile) error
	GetStudentProfile(ctx context.Context, userID int64) (*models.StudentProfile, error)
	GetTeacherProfile(ctx context.Context, userID int64) (*models.TeacherProfile, error)
}

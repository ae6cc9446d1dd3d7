package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"edura/internal/models"
)

// MySQLStore implements UserStore over a *sql.DB from the mysql driver.
type MySQLStore struct {
	DB *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{DB: db}
}

const userColumns = `id, name, email, password_hash, role, is_verified, otp, otp_expires_at, profile_image, phone_number, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsVerified,
		&u.OTP, &u.OTPExpiresAt, &u.ProfileImage, &u.PhoneNumber,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *MySQLStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

func (s *MySQLStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

func (s *MySQLStore) Create(ctx context.Context, nu NewUser) (*models.User, error) {
	result, err := s.DB.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, role, is_verified, otp, otp_expires_at)
		 VALUES (?, ?, ?, ?, 0, ?, ?)`,
		nu.Name, nu.Email, nu.PasswordHash, nu.Role, nu.OTP, nu.OTPExpiresAt,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.FindByID(ctx, id)
}

// RotateOTP overwrites the pending code and its window. The is_verified guard
// keeps a concurrent verification from being silently undone.
func (s *MySQLStore) RotateOTP(ctx context.Context, id int64, code string, expiresAt time.Time) error {
	result, err := s.DB.ExecContext(ctx,
		"UPDATE users SET otp = ?, otp_expires_at = ? WHERE id = ? AND is_verified = 0",
		code, expiresAt, id,
	)
	if err != nil {
		return fmt.Errorf("rotate otp: %w", err)
	}
	return oneRowOrConflict(result)
}

// ConsumeOTP flips is_verified and clears both OTP fields in one statement,
// guarded on the code still matching an unverified record.
func (s *MySQLStore) ConsumeOTP(ctx context.Context, id int64, code string) error {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE users SET is_verified = 1, otp = NULL, otp_expires_at = NULL
		 WHERE id = ? AND is_verified = 0 AND otp = ?`,
		id, code,
	)
	if err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	return oneRowOrConflict(result)
}

func oneRowOrConflict(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

func (s *MySQLStore) UpdateUserFields(ctx context.Context, id int64, p UserPatch) (*models.User, error) {
	sets := []string{}
	args := []interface{}{}
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.ProfileImage != nil {
		sets = append(sets, "profile_image = ?")
		args = append(args, *p.ProfileImage)
	}
	if p.PhoneNumber != nil {
		sets = append(sets, "phone_number = ?")
		args = append(args, *p.PhoneNumber)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := s.DB.ExecContext(ctx,
			"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return s.FindByID(ctx, id)
}

func (s *MySQLStore) UpsertStudentProfile(ctx context.Context, p models.StudentProfile) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO student_profiles
		   (user_id, education_level, institution, guardian_name, guardian_phone, guardian_email, date_of_birth, address)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
		   education_level = VALUES(education_level),
		   institution     = VALUES(institution),
		   guardian_name   = VALUES(guardian_name),
		   guardian_phone  = VALUES(guardian_phone),
		   guardian_email  = VALUES(guardian_email),
		   date_of_birth   = VALUES(date_of_birth),
		   address         = VALUES(address)`,
		p.UserID, p.EducationLevel, p.Institution, p.GuardianName,
		p.GuardianPhone, p.GuardianEmail, p.DateOfBirth, p.Address,
	)
	if err != nil {
		return fmt.Errorf("upsert student profile: %w", err)
	}
	return nil
}

func (s *MySQLStore) UpsertTeacherProfile(ctx context.Context, p models.TeacherProfile) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO teacher_profiles
		   (user_id, education, specialization, experience, institution, certifications, bio)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
		   education      = VALUES(education),
		   specialization = VALUES(specialization),
		   experience     = VALUES(experience),
		   institution    = VALUES(institution),
		   certifications = VALUES(certifications),
		   bio            = VALUES(bio)`,
		p.UserID, p.Education, p.Specialization, p.Experience,
		p.Institution, p.Certifications, p.Bio,
	)
	if err != nil {
		return fmt.Errorf("upsert teacher profile: %w", err)
	}
	return nil
}

func (s *MySQLStore) GetStudentProfile(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	var p models.StudentProfile
	err := s.DB.QueryRowContext(ctx,
		`SELECT user_id, education_level, institution, guardian_name, guardian_phone, guardian_email, date_of_birth, address, updated_at
		 FROM student_profiles WHERE user_id = ?`, userID).Scan(
		&p.UserID, &p.EducationLevel, &p.Institution, &p.GuardianName,
		&p.GuardianPhone, &p.GuardianEmail, &p.DateOfBirth, &p.Address, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get student profile: %w", err)
	}
	return &p, nil
}

func (s *MySQLStore) GetTeacherProfile(ctx context.Context, userID int64) (*models.TeacherProfile, error) {
	var p models.TeacherProfile
	err := s.DB.QueryRowContext(ctx,
		`SELECT user_id, education, specialization, experience, institution, certifications, bio, updated_at
		 FROM teacher_profiles WHERE user_id = ?`, userID).Scan(
		&p.UserID, &p.Education, &p.Specialization, &p.Experience,
		&p.Institution, &p.Certifications, &p.Bio, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get teacher profile: %w", err)
	}
	return &p, nil
}

package models

import "time"

// StudentProfile holds the student-specific fields, one row per user.
type StudentProfile struct {
	UserID         int64      `json:"user_id"`
	EducationLevel *string    `json:"education_level,omitempty"`
	Institution    *string    `json:"institution,omitempty"`
	GuardianName   *string    `json:"guardian_name,omitempty"`
	GuardianPhone  *string    `json:"guardian_phone,omitempty"`
	GuardianEmail  *string    `json:"guardian_email,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Address        *string    `json:"address,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TeacherProfile holds the teacher-specific fields, one row per user.
type TeacherProfile struct {
	UserID         int64     `json:"user_id"`
	Education      *string   `json:"education,omitempty"`
	Specialization *string   `json:"specialization,omitempty"`
	Experience     *int      `json:"experience,omitempty"`
	Institution    *string   `json:"institution,omitempty"`
	Certifications *string   `json:"certifications,omitempty"`
	Bio            *string   `json:"bio,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

package models

import "time"

// Enrollment statuses. Revocation keeps the record for audit history; only an
// explicit delete removes it.
const (
	EnrollmentStatusActive  = "active"
	EnrollmentStatusRevoked = "revoked"
)

// Well-known payment statuses. Provider-specific values pass through unchanged.
const (
	PaymentStatusFree      = "free"
	PaymentStatusCompleted = "completed"
	PaymentStatusPending   = "pending"
)

// Enrollment links one user to one course. At most one row exists per
// (user, course) pair. Version backs optimistic locking for concurrent
// lifecycle transitions.
type Enrollment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	CourseID      uint      `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"course_id"`
	Status        string    `gorm:"size:32;not null;default:active;index" json:"status"`
	PaymentStatus string    `gorm:"size:32;not null;default:free" json:"payment_status"`
	Progress      float64   `gorm:"not null;default:0" json:"progress"`
	EnrolledAt    time.Time `gorm:"not null" json:"enrolled_at"`
	Version       int64     `gorm:"not null;default:1" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	User          User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
	Course        Course    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"course,omitempty"`
}

// IsActive reports whether the enrollment currently grants course access.
func (e Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusActive
}

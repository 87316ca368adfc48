package models

import "time"

// Submission statuses. Grading is repeatable: a graded submission may be
// re-graded with a new grade and feedback.
const (
	SubmissionStatusPending  = "pending"
	SubmissionStatusReviewed = "reviewed"
	SubmissionStatusGraded   = "graded"
)

// Submission is student work turned in against a course project or
// assignment. Grade and feedback are set together on grading.
type Submission struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CourseID      uint       `gorm:"not null;index" json:"course_id"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	ItemID        string     `gorm:"size:36;not null" json:"item_id"`
	SubmissionURL string     `gorm:"size:512;not null" json:"submission_url"`
	Notes         string     `gorm:"type:text" json:"notes"`
	Status        string     `gorm:"size:16;not null;default:pending;index" json:"status"`
	Grade         *float64   `json:"grade"`
	Feedback      string     `gorm:"type:text" json:"feedback"`
	GradedAt      *time.Time `json:"graded_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Course        Course     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"course,omitempty"`
	User          User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
}

// IsGraded reports whether the submission carries a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}

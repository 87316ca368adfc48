package models

import "time"

// Platform roles. Exactly one role is assigned per user.
const (
	RoleAdmin               = "admin"
	RoleCourseManager       = "course_manager"
	RoleJobInstructor       = "job_instructor"
	RoleHackathonInstructor = "hackathon_instructor"
	RoleStudent             = "student"
	RoleFaculty             = "faculty"
)

// User represents a platform account. For instructor-class roles the email
// doubles as the ownership key linking the user to the content they manage.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KnownRole reports whether the given role is one of the enumerated platform roles.
func KnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleCourseManager, RoleJobInstructor, RoleHackathonInstructor, RoleStudent, RoleFaculty:
		return true
	default:
		return false
	}
}

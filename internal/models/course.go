package models

import "time"

// Course statuses.
const (
	CourseStatusActive   = "active"
	CourseStatusDraft    = "draft"
	CourseStatusArchived = "archived"
)

// Course is the aggregate root for catalog content. Sub-collections are owned
// by the course and deleted with it. The Students counter is derived from
// active enrollments and recomputed on every enrollment mutation.
type Course struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	Title           string       `gorm:"size:255;not null" json:"title"`
	Description     string       `gorm:"type:text" json:"description"`
	Category        string       `gorm:"size:128;not null;index" json:"category"`
	Level           string       `gorm:"size:64;not null" json:"level"`
	Duration        string       `gorm:"size:64;not null" json:"duration"`
	Status          string       `gorm:"size:32;not null;default:draft;index" json:"status"`
	Price           float64      `json:"price"`
	InstructorName  string       `gorm:"size:255" json:"instructor_name"`
	InstructorEmail string       `gorm:"size:255;index" json:"instructor_email"`
	Students        int64        `gorm:"not null;default:0" json:"students"`
	Version         int64        `gorm:"not null;default:1" json:"-"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	Lessons         []Lesson     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"lessons,omitempty"`
	Assignments     []Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignments,omitempty"`
	Projects        []Project    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"projects,omitempty"`
	Resources       []Resource   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"resources,omitempty"`
}

// Lesson is an ordered course item. OrderIndex is contiguous per course and
// renumbered when a lesson is removed; PublicID stays stable across reorders.
type Lesson struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	PublicID    string    `gorm:"size:36;uniqueIndex;not null" json:"id"`
	CourseID    uint      `gorm:"not null;index" json:"course_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Duration    string    `gorm:"size:64" json:"duration"`
	URL         string    `gorm:"size:512" json:"url"`
	FreePreview bool      `gorm:"not null;default:false" json:"free_preview"`
	OrderIndex  int       `gorm:"not null" json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Assignment difficulties.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Assignment is an unordered course item describing graded practice work.
type Assignment struct {
	ID          uint       `gorm:"primaryKey" json:"-"`
	PublicID    string     `gorm:"size:36;uniqueIndex;not null" json:"id"`
	CourseID    uint       `gorm:"not null;index" json:"course_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Difficulty  string     `gorm:"size:16;not null" json:"difficulty"`
	Points      int        `gorm:"not null;default:0" json:"points"`
	Deadline    *time.Time `json:"deadline"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Project is an unordered course item with submission links.
type Project struct {
	ID             uint       `gorm:"primaryKey" json:"-"`
	PublicID       string     `gorm:"size:36;uniqueIndex;not null" json:"id"`
	CourseID       uint       `gorm:"not null;index" json:"course_id"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	Deadline       *time.Time `json:"deadline"`
	SubmissionLink string     `gorm:"size:512" json:"submission_link"`
	AskAdminLink   string     `gorm:"size:512" json:"ask_admin_link"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Resource types.
const (
	ResourceTypePDF   = "pdf"
	ResourceTypeDoc   = "doc"
	ResourceTypeLink  = "link"
	ResourceTypeOther = "other"
)

// Resource is an unordered reference attached to a course.
type Resource struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	PublicID  string    `gorm:"size:36;uniqueIndex;not null" json:"id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	Type      string    `gorm:"size:16;not null;default:link" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsArchived reports whether the course is no longer open for enrollment.
func (c Course) IsArchived() bool {
	return c.Status == CourseStatusArchived
}

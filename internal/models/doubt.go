package models

import "time"

// Doubt statuses. The transition is one-way: a resolved doubt cannot reopen.
const (
	DoubtStatusPending  = "pending"
	DoubtStatusResolved = "resolved"
)

// Doubt item kinds.
const (
	DoubtItemAssignment = "assignment"
	DoubtItemProject    = "project"
)

// Doubt is a student question raised against a course item. Resolving
// attaches the instructor reply and stamps the resolution time.
type Doubt struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CourseID   uint       `gorm:"not null;index" json:"course_id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	ItemType   string     `gorm:"size:16;not null" json:"item_type"`
	ItemID     string     `gorm:"size:36;not null" json:"item_id"`
	Question   string     `gorm:"type:text;not null" json:"question"`
	Reply      string     `gorm:"type:text" json:"reply"`
	Status     string     `gorm:"size:16;not null;default:pending;index" json:"status"`
	ResolvedAt *time.Time `json:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Course     Course     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"course,omitempty"`
	User       User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
}

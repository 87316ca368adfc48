package models

import "time"

// Job is a catalog listing posted by a job instructor. Plain CRUD resource,
// no lifecycle; ownership is by poster email.
type Job struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Company     string    `gorm:"size:255;not null" json:"company"`
	Location    string    `gorm:"size:255" json:"location"`
	Type        string    `gorm:"size:64" json:"type"`
	Description string    `gorm:"type:text" json:"description"`
	ApplyURL    string    `gorm:"size:512" json:"apply_url"`
	PostedBy    string    `gorm:"size:255;index" json:"posted_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Hackathon is a catalog listing posted by a hackathon instructor.
type Hackathon struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Organizer       string     `gorm:"size:255" json:"organizer"`
	Mode            string     `gorm:"size:64" json:"mode"`
	Description     string     `gorm:"type:text" json:"description"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	RegistrationURL string     `gorm:"size:512" json:"registration_url"`
	PostedBy        string     `gorm:"size:255;index" json:"posted_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

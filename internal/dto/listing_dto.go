package dto

import (
	"time"

	"github.com/edupress/academy-api/internal/models"
)

// JobCreateRequest describes the payload for posting a job listing.
type JobCreateRequest struct {
	Title       string `json:"title" validate:"required,min=2"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Description string `json:"description"`
	ApplyURL    string `json:"apply_url" validate:"omitempty,url"`
}

// JobUpdateRequest describes a partial job listing update.
type JobUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=2"`
	Company     *string `json:"company" validate:"omitempty,min=1"`
	Location    *string `json:"location"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	ApplyURL    *string `json:"apply_url" validate:"omitempty,url"`
}

// JobResponse is the serialized job listing.
type JobResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	ApplyURL    string    `json:"apply_url"`
	PostedBy    string    `json:"posted_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// JobListResponse is the paginated job listing payload.
type JobListResponse struct {
	Items []JobResponse `json:"items"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
	Total int64         `json:"total"`
}

// HackathonCreateRequest describes the payload for posting a hackathon.
type HackathonCreateRequest struct {
	Title           string     `json:"title" validate:"required,min=2"`
	Organizer       string     `json:"organizer"`
	Mode            string     `json:"mode"`
	Description     string     `json:"description"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	RegistrationURL string     `json:"registration_url" validate:"omitempty,url"`
}

// HackathonUpdateRequest describes a partial hackathon update.
type HackathonUpdateRequest struct {
	Title           *string    `json:"title" validate:"omitempty,min=2"`
	Organizer       *string    `json:"organizer"`
	Mode            *string    `json:"mode"`
	Description     *string    `json:"description"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	RegistrationURL *string    `json:"registration_url" validate:"omitempty,url"`
}

// HackathonResponse is the serialized hackathon listing.
type HackathonResponse struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	Organizer       string     `json:"organizer"`
	Mode            string     `json:"mode"`
	Description     string     `json:"description"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	RegistrationURL string     `json:"registration_url"`
	PostedBy        string     `json:"posted_by"`
	CreatedAt       time.Time  `json:"created_at"`
}

// HackathonListResponse is the paginated hackathon listing payload.
type HackathonListResponse struct {
	Items []HackathonResponse `json:"items"`
	Page  int                 `json:"page"`
	Pages int                 `json:"pages"`
	Total int64               `json:"total"`
}

// NewJobResponse converts a model into a DTO.
func NewJobResponse(model models.Job) JobResponse {
	return JobResponse{
		ID:          model.ID,
		Title:       model.Title,
		Company:     model.Company,
		Location:    model.Location,
		Type:        model.Type,
		Description: model.Description,
		ApplyURL:    model.ApplyURL,
		PostedBy:    model.PostedBy,
		CreatedAt:   model.CreatedAt,
	}
}

// NewJobResponseSlice converts a slice of models into DTOs.
func NewJobResponseSlice(jobs []models.Job) []JobResponse {
	responses := make([]JobResponse, 0, len(jobs))
	for _, job := range jobs {
		responses = append(responses, NewJobResponse(job))
	}

	return responses
}

// NewHackathonResponse converts a model into a DTO.
func NewHackathonResponse(model models.Hackathon) HackathonResponse {
	return HackathonResponse{
		ID:              model.ID,
		Title:           model.Title,
		Organizer:       model.Organizer,
		Mode:            model.Mode,
		Description:     model.Description,
		StartDate:       model.StartDate,
		EndDate:         model.EndDate,
		RegistrationURL: model.RegistrationURL,
		PostedBy:        model.PostedBy,
		CreatedAt:       model.CreatedAt,
	}
}

// NewHackathonResponseSlice converts a slice of models into DTOs.
func NewHackathonResponseSlice(hackathons []models.Hackathon) []HackathonResponse {
	responses := make([]HackathonResponse, 0, len(hackathons))
	for _, hackathon := range hackathons {
		responses = append(responses, NewHackathonResponse(hackathon))
	}

	return responses
}

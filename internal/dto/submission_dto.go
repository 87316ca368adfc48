package dto

import (
	"time"

	"github.com/edupress/academy-api/internal/models"
)

// GradeSubmissionRequest describes the payload for grading a submission.
// Grade and feedback are applied together; re-grading is legal.
type GradeSubmissionRequest struct {
	Grade    float64 `json:"grade" validate:"gte=0,lte=100"`
	Feedback string  `json:"feedback"`
}

// SubmissionResponse is the serialized submission returned to API clients.
type SubmissionResponse struct {
	ID            uint       `json:"id"`
	CourseID      uint       `json:"course_id"`
	CourseTitle   string     `json:"course_title,omitempty"`
	StudentName   string     `json:"student_name,omitempty"`
	ItemID        string     `json:"item_id"`
	SubmissionURL string     `json:"submission_url"`
	Notes         string     `json:"notes,omitempty"`
	Status        string     `json:"status"`
	Grade         *float64   `json:"grade"`
	Feedback      string     `json:"feedback,omitempty"`
	GradedAt      *time.Time `json:"graded_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// SubmissionListResponse is the paginated submission listing payload.
type SubmissionListResponse struct {
	Items []SubmissionResponse `json:"items"`
	Page  int                  `json:"page"`
	Pages int                  `json:"pages"`
	Total int64                `json:"total"`
}

// NewSubmissionResponse converts a model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:            model.ID,
		CourseID:      model.CourseID,
		CourseTitle:   model.Course.Title,
		StudentName:   model.User.Name,
		ItemID:        model.ItemID,
		SubmissionURL: model.SubmissionURL,
		Notes:         model.Notes,
		Status:        model.Status,
		Grade:         model.Grade,
		Feedback:      model.Feedback,
		GradedAt:      model.GradedAt,
		CreatedAt:     model.CreatedAt,
	}
}

// NewSubmissionResponseSlice converts a slice of models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}

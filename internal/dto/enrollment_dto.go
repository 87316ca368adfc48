package dto

import (
	"time"

	"github.com/edupress/academy-api/internal/models"
)

// GrantAccessRequest describes the payload for creating an enrollment.
type GrantAccessRequest struct {
	UserID        uint   `json:"user_id" validate:"required"`
	CourseID      uint   `json:"course_id" validate:"required"`
	PaymentStatus string `json:"payment_status"`
}

// EnrollmentResponse is the serialized enrollment returned to API clients.
type EnrollmentResponse struct {
	ID            uint          `json:"id"`
	UserID        uint          `json:"user_id"`
	CourseID      uint          `json:"course_id"`
	Status        string        `json:"status"`
	PaymentStatus string        `json:"payment_status"`
	Progress      float64       `json:"progress"`
	EnrolledAt    time.Time     `json:"enrolled_at"`
	User          *UserResponse `json:"user,omitempty"`
	CourseTitle   string        `json:"course_title,omitempty"`
}

// NewEnrollmentResponse converts a model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	response := EnrollmentResponse{
		ID:            model.ID,
		UserID:        model.UserID,
		CourseID:      model.CourseID,
		Status:        model.Status,
		PaymentStatus: model.PaymentStatus,
		Progress:      model.Progress,
		EnrolledAt:    model.EnrolledAt,
		CourseTitle:   model.Course.Title,
	}

	if model.User.ID != 0 {
		user := NewUserResponse(model.User)
		response.User = &user
	}

	return response
}

// NewEnrollmentResponseSlice converts a slice of models into DTOs.
func NewEnrollmentResponseSlice(enrollments []models.Enrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, NewEnrollmentResponse(enrollment))
	}

	return responses
}

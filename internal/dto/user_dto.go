package dto

import (
	"time"

	"github.com/edupress/academy-api/internal/models"
)

// UserCreateRequest describes the payload for creating a platform account.
type UserCreateRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

// UserUpdateRequest describes a partial account update.
type UserUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role"`
}

// UserResponse is the serialized account returned to API clients.
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserDetailResponse adds the role-dependent derived collections: a
// student's enrollments, an instructor's assigned courses, a poster's
// listings. Only the section matching the account role is populated.
type UserDetailResponse struct {
	UserResponse
	Enrollments      []EnrollmentResponse `json:"enrollments,omitempty"`
	AssignedCourses  []CourseResponse     `json:"assigned_courses,omitempty"`
	PostedJobs       []JobResponse        `json:"posted_jobs,omitempty"`
	PostedHackathons []HackathonResponse  `json:"posted_hackathons,omitempty"`
}

// UserListResponse is the paginated user listing payload.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
	Total int64          `json:"total"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
	}
}

// NewUserResponseSlice converts a slice of models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}

	return responses
}

package dto

import (
	"time"

	"github.com/edupress/academy-api/internal/models"
)

// CourseCreateRequest describes the payload for creating a course.
type CourseCreateRequest struct {
	Title           string  `json:"title" validate:"required,min=3"`
	Description     string  `json:"description"`
	Category        string  `json:"category" validate:"required"`
	Level           string  `json:"level" validate:"required"`
	Duration        string  `json:"duration" validate:"required"`
	Status          string  `json:"status" validate:"omitempty,oneof=active draft archived"`
	Price           float64 `json:"price" validate:"gte=0"`
	InstructorName  string  `json:"instructor_name"`
	InstructorEmail string  `json:"instructor_email" validate:"omitempty,email"`
}

// CourseUpdateRequest describes a partial course update. Nil fields are left
// untouched; a non-nil instructor email reassigns ownership.
type CourseUpdateRequest struct {
	Title           *string  `json:"title" validate:"omitempty,min=3"`
	Description     *string  `json:"description"`
	Category        *string  `json:"category" validate:"omitempty,min=1"`
	Level           *string  `json:"level" validate:"omitempty,min=1"`
	Duration        *string  `json:"duration" validate:"omitempty,min=1"`
	Status          *string  `json:"status" validate:"omitempty,oneof=active draft archived"`
	Price           *float64 `json:"price" validate:"omitempty,gte=0"`
	InstructorName  *string  `json:"instructor_name"`
	InstructorEmail *string  `json:"instructor_email" validate:"omitempty,email"`
}

// LessonCreateRequest describes the payload for appending a lesson.
type LessonCreateRequest struct {
	Title       string `json:"title" validate:"required,min=1"`
	Duration    string `json:"duration"`
	URL         string `json:"url" validate:"omitempty,url"`
	FreePreview bool   `json:"free_preview"`
}

// AssignmentCreateRequest describes the payload for appending an assignment.
type AssignmentCreateRequest struct {
	Title       string     `json:"title" validate:"required,min=1"`
	Description string     `json:"description"`
	Difficulty  string     `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
	Points      int        `json:"points" validate:"gte=0"`
	Deadline    *time.Time `json:"deadline"`
}

// ProjectCreateRequest describes the payload for appending a project.
type ProjectCreateRequest struct {
	Title          string     `json:"title" validate:"required,min=1"`
	Description    string     `json:"description"`
	Deadline       *time.Time `json:"deadline"`
	SubmissionLink string     `json:"submission_link" validate:"omitempty,url"`
	AskAdminLink   string     `json:"ask_admin_link" validate:"omitempty,url"`
}

// ResourceCreateRequest describes the payload for appending a resource.
type ResourceCreateRequest struct {
	Title string `json:"title" validate:"required,min=1"`
	URL   string `json:"url" validate:"required,url"`
	Type  string `json:"type" validate:"omitempty,oneof=pdf doc link other"`
}

// CourseResponse is the serialized course returned to API clients.
type CourseResponse struct {
	ID              uint                 `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Category        string               `json:"category"`
	Level           string               `json:"level"`
	Duration        string               `json:"duration"`
	Status          string               `json:"status"`
	Price           float64              `json:"price"`
	InstructorName  string               `json:"instructor_name"`
	InstructorEmail string               `json:"instructor_email"`
	Students        int64                `json:"students"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	Lessons         []LessonResponse     `json:"lessons,omitempty"`
	Assignments     []AssignmentResponse `json:"assignments,omitempty"`
	Projects        []ProjectResponse    `json:"projects,omitempty"`
	Resources       []ResourceResponse   `json:"resources,omitempty"`
}

// LessonResponse is the serialized lesson sub-item.
type LessonResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Duration    string `json:"duration"`
	URL         string `json:"url"`
	FreePreview bool   `json:"free_preview"`
	OrderIndex  int    `json:"order_index"`
}

// AssignmentResponse is the serialized assignment sub-item.
type AssignmentResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  string     `json:"difficulty"`
	Points      int        `json:"points"`
	Deadline    *time.Time `json:"deadline"`
}

// ProjectResponse is the serialized project sub-item.
type ProjectResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Deadline       *time.Time `json:"deadline"`
	SubmissionLink string     `json:"submission_link"`
	AskAdminLink   string     `json:"ask_admin_link"`
}

// ResourceResponse is the serialized resource sub-item.
type ResourceResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// CourseListResponse is the paginated course listing payload.
type CourseListResponse struct {
	Items []CourseResponse `json:"items"`
	Page  int              `json:"page"`
	Pages int              `json:"pages"`
	Total int64            `json:"total"`
}

// CourseStatsResponse carries the scoped course counters for the dashboard.
type CourseStatsResponse struct {
	Total         int64 `json:"total"`
	Active        int64 `json:"active"`
	Draft         int64 `json:"draft"`
	Archived      int64 `json:"archived"`
	TotalStudents int64 `json:"total_students"`
}

// NewCourseResponse converts a model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	response := CourseResponse{
		ID:              model.ID,
		Title:           model.Title,
		Description:     model.Description,
		Category:        model.Category,
		Level:           model.Level,
		Duration:        model.Duration,
		Status:          model.Status,
		Price:           model.Price,
		InstructorName:  model.InstructorName,
		InstructorEmail: model.InstructorEmail,
		Students:        model.Students,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}

	for _, lesson := range model.Lessons {
		response.Lessons = append(response.Lessons, LessonResponse{
			ID:          lesson.PublicID,
			Title:       lesson.Title,
			Duration:    lesson.Duration,
			URL:         lesson.URL,
			FreePreview: lesson.FreePreview,
			OrderIndex:  lesson.OrderIndex,
		})
	}
	for _, assignment := range model.Assignments {
		response.Assignments = append(response.Assignments, AssignmentResponse{
			ID:          assignment.PublicID,
			Title:       assignment.Title,
			Description: assignment.Description,
			Difficulty:  assignment.Difficulty,
			Points:      assignment.Points,
			Deadline:    assignment.Deadline,
		})
	}
	for _, project := range model.Projects {
		response.Projects = append(response.Projects, ProjectResponse{
			ID:             project.PublicID,
			Title:          project.Title,
			Description:    project.Description,
			Deadline:       project.Deadline,
			SubmissionLink: project.SubmissionLink,
			AskAdminLink:   project.AskAdminLink,
		})
	}
	for _, resource := range model.Resources {
		response.Resources = append(response.Resources, ResourceResponse{
			ID:    resource.PublicID,
			Title: resource.Title,
			URL:   resource.URL,
			Type:  resource.Type,
		})
	}

	return response
}

// NewCourseResponseSlice converts a slice of models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}

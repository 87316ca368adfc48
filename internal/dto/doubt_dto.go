package dto

import (
	"time"

	"github.com/edupress/academy-api/internal/models"
)

// DoubtReplyRequest describes the payload for resolving a doubt.
type DoubtReplyRequest struct {
	Reply string `json:"reply" validate:"required,min=1"`
}

// DoubtResponse is the serialized doubt returned to API clients.
type DoubtResponse struct {
	ID          uint       `json:"id"`
	CourseID    uint       `json:"course_id"`
	CourseTitle string     `json:"course_title,omitempty"`
	StudentName string     `json:"student_name,omitempty"`
	ItemType    string     `json:"item_type"`
	ItemID      string     `json:"item_id"`
	Question    string     `json:"question"`
	Reply       string     `json:"reply,omitempty"`
	Status      string     `json:"status"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// DoubtListResponse is the paginated doubt listing payload.
type DoubtListResponse struct {
	Items []DoubtResponse `json:"items"`
	Page  int             `json:"page"`
	Pages int             `json:"pages"`
	Total int64           `json:"total"`
}

// NewDoubtResponse converts a model into a DTO.
func NewDoubtResponse(model models.Doubt) DoubtResponse {
	return DoubtResponse{
		ID:          model.ID,
		CourseID:    model.CourseID,
		CourseTitle: model.Course.Title,
		StudentName: model.User.Name,
		ItemType:    model.ItemType,
		ItemID:      model.ItemID,
		Question:    model.Question,
		Reply:       model.Reply,
		Status:      model.Status,
		ResolvedAt:  model.ResolvedAt,
		CreatedAt:   model.CreatedAt,
	}
}

// NewDoubtResponseSlice converts a slice of models into DTOs.
func NewDoubtResponseSlice(doubts []models.Doubt) []DoubtResponse {
	responses := make([]DoubtResponse, 0, len(doubts))
	for _, doubt := range doubts {
		responses = append(responses, NewDoubtResponse(doubt))
	}

	return responses
}

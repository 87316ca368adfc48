package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/edupress/academy-api/internal/apperr"
	"github.com/edupress/academy-api/internal/auth"
	"github.com/edupress/academy-api/internal/dto"
	"github.com/edupress/academy-api/internal/models"
	"github.com/edupress/academy-api/internal/repository"
)

// GradingService handles the instructor submission queue. Grade and feedback
// are applied together; grading an already graded submission replaces the
// previous grade.
type GradingService interface {
	List(ctx context.Context, scope auth.Scope, filter repository.SubmissionFilter) (dto.SubmissionListResponse, error)
	Grade(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error)
	Review(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint) (dto.SubmissionResponse, error)
}

type gradingService struct {
	repo      repository.SubmissionRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	activity  ActivityRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewGradingService constructs the grading service.
func NewGradingService(repo repository.SubmissionRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) GradingService {
	return &gradingService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		activity:  activity,
		logger:    logger.With().Str("component", "grading_service").Logger(),
		now:       time.Now,
	}
}

func (s *gradingService) List(ctx context.Context, scope auth.Scope, filter repository.SubmissionFilter) (dto.SubmissionListResponse, error) {
	filter.Page, filter.PageSize = normalizePage(filter.Page, filter.PageSize)

	submissions, total, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return dto.SubmissionListResponse{}, err
	}

	return dto.SubmissionListResponse{
		Items: dto.NewSubmissionResponseSlice(submissions),
		Page:  filter.Page,
		Pages: pageCount(total, filter.PageSize),
		Total: total,
	}, nil
}

func (s *gradingService) Grade(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, apperr.Validationf("%s", err)
	}

	submission, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return dto.SubmissionResponse{}, notFoundOr(err, "submission %d", id)
	}

	grade := payload.Grade
	submission.Grade = &grade
	submission.Feedback = s.sanitizer.Sanitize(payload.Feedback)
	submission.Status = models.SubmissionStatusGraded
	gradedAt := s.now()
	submission.GradedAt = &gradedAt

	if err := s.repo.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if s.activity != nil {
		entityID := submission.ID
		s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "submission.graded",
			EntityType: "submission",
			EntityID:   &entityID,
			Metadata: map[string]interface{}{
				"course_id": submission.CourseID,
				"user_id":   submission.UserID,
				"grade":     payload.Grade,
			},
		})
	}

	return dto.NewSubmissionResponse(submission), nil
}

// Review marks a pending submission as seen without attaching a grade.
func (s *gradingService) Review(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return dto.SubmissionResponse{}, notFoundOr(err, "submission %d", id)
	}

	if submission.Status == models.SubmissionStatusGraded {
		return dto.SubmissionResponse{}, apperr.Conflictf("submission %d is already graded", id)
	}

	submission.Status = models.SubmissionStatusReviewed
	if err := s.repo.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if s.activity != nil {
		entityID := submission.ID
		s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "submission.reviewed",
			EntityType: "submission",
			EntityID:   &entityID,
			Metadata:   map[string]interface{}{"course_id": submission.CourseID},
		})
	}

	return dto.NewSubmissionResponse(submission), nil
}

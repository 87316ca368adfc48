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

// DoubtService serves the instructor doubt queue. Resolution is one-way:
// once a reply is attached the doubt never reopens.
type DoubtService interface {
	List(ctx context.Context, scope auth.Scope, filter repository.DoubtFilter) (dto.DoubtListResponse, error)
	Reply(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint, payload dto.DoubtReplyRequest) (dto.DoubtResponse, error)
}

type doubtService struct {
	repo      repository.DoubtRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	activity  ActivityRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewDoubtService constructs the doubt service.
func NewDoubtService(repo repository.DoubtRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) DoubtService {
	return &doubtService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		activity:  activity,
		logger:    logger.With().Str("component", "doubt_service").Logger(),
		now:       time.Now,
	}
}

func (s *doubtService) List(ctx context.Context, scope auth.Scope, filter repository.DoubtFilter) (dto.DoubtListResponse, error) {
	filter.Page, filter.PageSize = normalizePage(filter.Page, filter.PageSize)

	doubts, total, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return dto.DoubtListResponse{}, err
	}

	return dto.DoubtListResponse{
		Items: dto.NewDoubtResponseSlice(doubts),
		Page:  filter.Page,
		Pages: pageCount(total, filter.PageSize),
		Total: total,
	}, nil
}

func (s *doubtService) Reply(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint, payload dto.DoubtReplyRequest) (dto.DoubtResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DoubtResponse{}, apperr.Validationf("%s", err)
	}

	doubt, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return dto.DoubtResponse{}, notFoundOr(err, "doubt %d", id)
	}

	if doubt.Status == models.DoubtStatusResolved {
		return dto.DoubtResponse{}, apperr.Conflictf("doubt %d is already resolved", id)
	}

	doubt.Reply = s.sanitizer.Sanitize(payload.Reply)
	doubt.Status = models.DoubtStatusResolved
	resolvedAt := s.now()
	doubt.ResolvedAt = &resolvedAt

	if err := s.repo.Update(ctx, &doubt); err != nil {
		return dto.DoubtResponse{}, err
	}

	if s.activity != nil {
		entityID := doubt.ID
		s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "doubt.resolved",
			EntityType: "doubt",
			EntityID:   &entityID,
			Metadata:   map[string]interface{}{"course_id": doubt.CourseID},
		})
	}

	return dto.NewDoubtResponse(doubt), nil
}

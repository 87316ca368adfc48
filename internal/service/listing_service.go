package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/edupress/academy-api/internal/apperr"
	"github.com/edupress/academy-api/internal/auth"
	"github.com/edupress/academy-api/internal/dto"
	"github.com/edupress/academy-api/internal/models"
	"github.com/edupress/academy-api/internal/repository"
)

// ListingService manages the job and hackathon catalog. These are plain CRUD
// resources with no lifecycle; ownership is by poster email.
type ListingService interface {
	ListJobs(ctx context.Context, scope auth.Scope, filter repository.ListingFilter) (dto.JobListResponse, error)
	CreateJob(ctx context.Context, scope auth.Scope, actor ActivityActor, payload dto.JobCreateRequest) (dto.JobResponse, error)
	UpdateJob(ctx context.Context, scope auth.Scope, id uint, payload dto.JobUpdateRequest) (dto.JobResponse, error)
	DeleteJob(ctx context.Context, scope auth.Scope, id uint) error
	ListHackathons(ctx context.Context, scope auth.Scope, filter repository.ListingFilter) (dto.HackathonListResponse, error)
	CreateHackathon(ctx context.Context, scope auth.Scope, actor ActivityActor, payload dto.HackathonCreateRequest) (dto.HackathonResponse, error)
	UpdateHackathon(ctx context.Context, scope auth.Scope, id uint, payload dto.HackathonUpdateRequest) (dto.HackathonResponse, error)
	DeleteHackathon(ctx context.Context, scope auth.Scope, id uint) error
}

type listingService struct {
	jobs       repository.JobRepository
	hackathons repository.HackathonRepository
	validator  *validator.Validate
	activity   ActivityRecorder
	logger     zerolog.Logger
}

// NewListingService constructs the job/hackathon catalog service.
func NewListingService(jobs repository.JobRepository, hackathons repository.HackathonRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) ListingService {
	return &listingService{
		jobs:       jobs,
		hackathons: hackathons,
		validator:  validate,
		activity:   activity,
		logger:     logger.With().Str("component", "listing_service").Logger(),
	}
}

func (s *listingService) ListJobs(ctx context.Context, scope auth.Scope, filter repository.ListingFilter) (dto.JobListResponse, error) {
	filter.Page, filter.PageSize = normalizePage(filter.Page, filter.PageSize)

	jobs, total, err := s.jobs.List(ctx, scope, filter)
	if err != nil {
		return dto.JobListResponse{}, err
	}

	return dto.JobListResponse{
		Items: dto.NewJobResponseSlice(jobs),
		Page:  filter.Page,
		Pages: pageCount(total, filter.PageSize),
		Total: total,
	}, nil
}

func (s *listingService) CreateJob(ctx context.Context, scope auth.Scope, actor ActivityActor, payload dto.JobCreateRequest) (dto.JobResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.JobResponse{}, apperr.Validationf("%s", err)
	}

	job := models.Job{
		Title:       strings.TrimSpace(payload.Title),
		Company:     strings.TrimSpace(payload.Company),
		Location:    payload.Location,
		Type:        payload.Type,
		Description: payload.Description,
		ApplyURL:    payload.ApplyURL,
		PostedBy:    posterEmail(scope, actor),
	}
	if err := s.jobs.Create(ctx, &job); err != nil {
		return dto.JobResponse{}, err
	}

	return dto.NewJobResponse(job), nil
}

func (s *listingService) UpdateJob(ctx context.Context, scope auth.Scope, id uint, payload dto.JobUpdateRequest) (dto.JobResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.JobResponse{}, apperr.Validationf("%s", err)
	}

	job, err := s.jobs.GetByID(ctx, scope, id)
	if err != nil {
		return dto.JobResponse{}, notFoundOr(err, "job %d", id)
	}

	if payload.Title != nil {
		job.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Company != nil {
		job.Company = strings.TrimSpace(*payload.Company)
	}
	if payload.Location != nil {
		job.Location = *payload.Location
	}
	if payload.Type != nil {
		job.Type = *payload.Type
	}
	if payload.Description != nil {
		job.Description = *payload.Description
	}
	if payload.ApplyURL != nil {
		job.ApplyURL = *payload.ApplyURL
	}

	if err := s.jobs.Update(ctx, &job); err != nil {
		return dto.JobResponse{}, err
	}

	return dto.NewJobResponse(job), nil
}

func (s *listingService) DeleteJob(ctx context.Context, scope auth.Scope, id uint) error {
	if _, err := s.jobs.GetByID(ctx, scope, id); err != nil {
		return notFoundOr(err, "job %d", id)
	}

	return notFoundOr(s.jobs.Delete(ctx, id), "job %d", id)
}

func (s *listingService) ListHackathons(ctx context.Context, scope auth.Scope, filter repository.ListingFilter) (dto.HackathonListResponse, error) {
	filter.Page, filter.PageSize = normalizePage(filter.Page, filter.PageSize)

	hackathons, total, err := s.hackathons.List(ctx, scope, filter)
	if err != nil {
		return dto.HackathonListResponse{}, err
	}

	return dto.HackathonListResponse{
		Items: dto.NewHackathonResponseSlice(hackathons),
		Page:  filter.Page,
		Pages: pageCount(total, filter.PageSize),
		Total: total,
	}, nil
}

func (s *listingService) CreateHackathon(ctx context.Context, scope auth.Scope, actor ActivityActor, payload dto.HackathonCreateRequest) (dto.HackathonResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.HackathonResponse{}, apperr.Validationf("%s", err)
	}

	hackathon := models.Hackathon{
		Title:           strings.TrimSpace(payload.Title),
		Organizer:       payload.Organizer,
		Mode:            payload.Mode,
		Description:     payload.Description,
		StartDate:       payload.StartDate,
		EndDate:         payload.EndDate,
		RegistrationURL: payload.RegistrationURL,
		PostedBy:        posterEmail(scope, actor),
	}
	if err := s.hackathons.Create(ctx, &hackathon); err != nil {
		return dto.HackathonResponse{}, err
	}

	return dto.NewHackathonResponse(hackathon), nil
}

func (s *listingService) UpdateHackathon(ctx context.Context, scope auth.Scope, id uint, payload dto.HackathonUpdateRequest) (dto.HackathonResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.HackathonResponse{}, apperr.Validationf("%s", err)
	}

	hackathon, err := s.hackathons.GetByID(ctx, scope, id)
	if err != nil {
		return dto.HackathonResponse{}, notFoundOr(err, "hackathon %d", id)
	}

	if payload.Title != nil {
		hackathon.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Organizer != nil {
		hackathon.Organizer = *payload.Organizer
	}
	if payload.Mode != nil {
		hackathon.Mode = *payload.Mode
	}
	if payload.Description != nil {
		hackathon.Description = *payload.Description
	}
	if payload.StartDate != nil {
		hackathon.StartDate = payload.StartDate
	}
	if payload.EndDate != nil {
		hackathon.EndDate = payload.EndDate
	}
	if payload.RegistrationURL != nil {
		hackathon.RegistrationURL = *payload.RegistrationURL
	}

	if err := s.hackathons.Update(ctx, &hackathon); err != nil {
		return dto.HackathonResponse{}, err
	}

	return dto.NewHackathonResponse(hackathon), nil
}

func (s *listingService) DeleteHackathon(ctx context.Context, scope auth.Scope, id uint) error {
	if _, err := s.hackathons.GetByID(ctx, scope, id); err != nil {
		return notFoundOr(err, "hackathon %d", id)
	}

	return notFoundOr(s.hackathons.Delete(ctx, id), "hackathon %d", id)
}

// posterEmail resolves the ownership key for a new listing: instructors post
// under their own email, admins under theirs.
func posterEmail(scope auth.Scope, actor ActivityActor) string {
	if !scope.Global {
		return scope.OwnerEmail
	}
	return strings.ToLower(strings.TrimSpace(actor.Email))
}

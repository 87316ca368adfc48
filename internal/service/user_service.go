package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edupress/academy-api/internal/apperr"
	"github.com/edupress/academy-api/internal/auth"
	"github.com/edupress/academy-api/internal/dto"
	"github.com/edupress/academy-api/internal/models"
	"github.com/edupress/academy-api/internal/repository"
)

// UserService manages platform accounts and the role-dependent derived views
// shown on the admin user detail page.
type UserService interface {
	List(ctx context.Context, filter repository.UserFilter) (dto.UserListResponse, error)
	Get(ctx context.Context, id uint) (dto.UserDetailResponse, error)
	Create(ctx context.Context, actor ActivityActor, payload dto.UserCreateRequest) (dto.UserResponse, error)
	Update(ctx context.Context, actor ActivityActor, id uint, payload dto.UserUpdateRequest) (dto.UserResponse, error)
	Delete(ctx context.Context, actor ActivityActor, id uint) error
}

type userService struct {
	repo        repository.UserRepository
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	jobs        repository.JobRepository
	hackathons  repository.HackathonRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	logger      zerolog.Logger
}

// NewUserService constructs the user administration service.
func NewUserService(repo repository.UserRepository, enrollments repository.EnrollmentRepository, courses repository.CourseRepository, jobs repository.JobRepository, hackathons repository.HackathonRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) UserService {
	return &userService{
		repo:        repo,
		enrollments: enrollments,
		courses:     courses,
		jobs:        jobs,
		hackathons:  hackathons,
		validator:   validate,
		activity:    activity,
		logger:      logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) List(ctx context.Context, filter repository.UserFilter) (dto.UserListResponse, error) {
	filter.Page, filter.PageSize = normalizePage(filter.Page, filter.PageSize)

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.UserListResponse{}, err
	}

	return dto.UserListResponse{
		Items: dto.NewUserResponseSlice(users),
		Page:  filter.Page,
		Pages: pageCount(total, filter.PageSize),
		Total: total,
	}, nil
}

// Get returns the account plus the derived collection matching its role:
// enrollments for students/faculty, assigned courses for course managers,
// posted listings for job and hackathon instructors.
func (s *userService) Get(ctx context.Context, id uint) (dto.UserDetailResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.UserDetailResponse{}, notFoundOr(err, "user %d", id)
	}

	detail := dto.UserDetailResponse{UserResponse: dto.NewUserResponse(user)}

	switch user.Role {
	case models.RoleStudent, models.RoleFaculty:
		enrollments, err := s.enrollments.ListByUser(ctx, user.ID)
		if err != nil {
			return dto.UserDetailResponse{}, err
		}
		detail.Enrollments = dto.NewEnrollmentResponseSlice(enrollments)
	case models.RoleCourseManager:
		courses, _, err := s.courses.List(ctx, auth.OwnedBy(user.Email), repository.CourseFilter{})
		if err != nil {
			return dto.UserDetailResponse{}, err
		}
		detail.AssignedCourses = dto.NewCourseResponseSlice(courses)
	case models.RoleJobInstructor:
		jobs, err := s.jobs.ListByPoster(ctx, user.Email)
		if err != nil {
			return dto.UserDetailResponse{}, err
		}
		detail.PostedJobs = dto.NewJobResponseSlice(jobs)
	case models.RoleHackathonInstructor:
		hackathons, err := s.hackathons.ListByPoster(ctx, user.Email)
		if err != nil {
			return dto.UserDetailResponse{}, err
		}
		detail.PostedHackathons = dto.NewHackathonResponseSlice(hackathons)
	}

	return detail, nil
}

func (s *userService) Create(ctx context.Context, actor ActivityActor, payload dto.UserCreateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, apperr.Validationf("%s", err)
	}
	if !models.KnownRole(payload.Role) {
		return dto.UserResponse{}, apperr.Validationf("unknown role %q", payload.Role)
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return dto.UserResponse{}, apperr.Conflictf("email %s is already registered", email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Name:  strings.TrimSpace(payload.Name),
		Email: email,
		Role:  payload.Role,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.record(ctx, actor, "user.created", user.ID, map[string]interface{}{"role": user.Role})

	return dto.NewUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, actor ActivityActor, id uint, payload dto.UserUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, apperr.Validationf("%s", err)
	}

	updates := map[string]interface{}{}
	if payload.Name != nil {
		updates["name"] = strings.TrimSpace(*payload.Name)
	}
	if payload.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*payload.Email))
		if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing.ID != id {
			return dto.UserResponse{}, apperr.Conflictf("email %s is already registered", email)
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, err
		}
		updates["email"] = email
	}
	if payload.Role != nil {
		if !models.KnownRole(*payload.Role) {
			return dto.UserResponse{}, apperr.Validationf("unknown role %q", *payload.Role)
		}
		updates["role"] = *payload.Role
	}
	if len(updates) == 0 {
		return dto.UserResponse{}, apperr.Validationf("no fields to update")
	}

	user, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return dto.UserResponse{}, notFoundOr(err, "user %d", id)
	}

	s.record(ctx, actor, "user.updated", id, nil)

	return dto.NewUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, actor ActivityActor, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "user %d", id)
	}

	s.record(ctx, actor, "user.deleted", id, nil)
	return nil
}

func (s *userService) record(ctx context.Context, actor ActivityActor, action string, userID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	id := userID
	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		Action:     action,
		EntityType: "user",
		EntityID:   &id,
		Metadata:   metadata,
	})
}

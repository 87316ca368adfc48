package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/edupress/academy-api/internal/apperr"
	"github.com/edupress/academy-api/internal/auth"
	"github.com/edupress/academy-api/internal/dto"
	"github.com/edupress/academy-api/internal/models"
	"github.com/edupress/academy-api/internal/repository"
)

// Course sub-collection names accepted by RemoveItem.
const (
	CollectionLessons     = "lessons"
	CollectionAssignments = "assignments"
	CollectionProjects    = "projects"
	CollectionResources   = "resources"
)

// CourseService owns the course aggregate: creation, partial updates, the
// admin/instructor deletion split, sub-item management and scoped stats.
type CourseService interface {
	List(ctx context.Context, scope auth.Scope, filter repository.CourseFilter) (dto.CourseListResponse, error)
	Get(ctx context.Context, scope auth.Scope, id uint) (dto.CourseResponse, error)
	Create(ctx context.Context, scope auth.Scope, actor ActivityActor, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint) error
	Unassign(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint) error
	AddLesson(ctx context.Context, scope auth.Scope, courseID uint, payload dto.LessonCreateRequest) (dto.LessonResponse, error)
	AddAssignment(ctx context.Context, scope auth.Scope, courseID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	AddProject(ctx context.Context, scope auth.Scope, courseID uint, payload dto.ProjectCreateRequest) (dto.ProjectResponse, error)
	AddResource(ctx context.Context, scope auth.Scope, courseID uint, payload dto.ResourceCreateRequest) (dto.ResourceResponse, error)
	RemoveItem(ctx context.Context, scope auth.Scope, courseID uint, collection, itemID string) error
	Stats(ctx context.Context, scope auth.Scope) (dto.CourseStatsResponse, error)
}

type courseService struct {
	repo      repository.CourseRepository
	analytics repository.AnalyticsRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo repository.CourseRepository, analytics repository.AnalyticsRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:      repo,
		analytics: analytics,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		activity:  activity,
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) List(ctx context.Context, scope auth.Scope, filter repository.CourseFilter) (dto.CourseListResponse, error) {
	filter.Page, filter.PageSize = normalizePage(filter.Page, filter.PageSize)

	courses, total, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return dto.CourseListResponse{}, err
	}

	return dto.CourseListResponse{
		Items: dto.NewCourseResponseSlice(courses),
		Page:  filter.Page,
		Pages: pageCount(total, filter.PageSize),
		Total: total,
	}, nil
}

func (s *courseService) Get(ctx context.Context, scope auth.Scope, id uint) (dto.CourseResponse, error) {
	course, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return dto.CourseResponse{}, notFoundOr(err, "course %d", id)
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, scope auth.Scope, actor ActivityActor, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	tracer := otel.Tracer("github.com/edupress/academy-api/internal/service/course")
	ctx, span := tracer.Start(ctx, "course.create")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.CourseResponse{}, apperr.Validationf("%s", err)
	}

	email := strings.ToLower(strings.TrimSpace(payload.InstructorEmail))
	name := strings.TrimSpace(payload.InstructorName)
	if !scope.Global {
		// Instructors always create courses under their own ownership key.
		if email != "" && email != scope.OwnerEmail {
			return dto.CourseResponse{}, apperr.Forbiddenf("cannot assign course to %s", payload.InstructorEmail)
		}
		email = scope.OwnerEmail
	}

	status := payload.Status
	if status == "" {
		status = models.CourseStatusDraft
	}

	course := models.Course{
		Title:           strings.TrimSpace(payload.Title),
		Description:     s.sanitizer.Sanitize(payload.Description),
		Category:        strings.TrimSpace(payload.Category),
		Level:           strings.TrimSpace(payload.Level),
		Duration:        strings.TrimSpace(payload.Duration),
		Status:          status,
		Price:           payload.Price,
		InstructorName:  name,
		InstructorEmail: email,
		Students:        0,
		Version:         1,
	}

	if err := s.repo.Create(ctx, &course); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "course_create_failed")
		return dto.CourseResponse{}, err
	}

	span.SetAttributes(attribute.Int64("course.id", int64(course.ID)))
	s.record(ctx, actor, "course.created", course.ID, map[string]interface{}{
		"title":    course.Title,
		"category": course.Category,
	})

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	tracer := otel.Tracer("github.com/edupress/academy-api/internal/service/course")
	ctx, span := tracer.Start(ctx, "course.update")
	span.SetAttributes(attribute.Int64("course.id", int64(id)))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.CourseResponse{}, apperr.Validationf("%s", err)
	}

	// The scoped read doubles as the ownership check: a foreign course is
	// indistinguishable from a missing one.
	course, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		span.RecordError(err)
		return dto.CourseResponse{}, notFoundOr(err, "course %d", id)
	}

	if payload.Title != nil {
		course.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Description != nil {
		course.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.Category != nil {
		course.Category = strings.TrimSpace(*payload.Category)
	}
	if payload.Level != nil {
		course.Level = strings.TrimSpace(*payload.Level)
	}
	if payload.Duration != nil {
		course.Duration = strings.TrimSpace(*payload.Duration)
	}
	if payload.Status != nil {
		course.Status = *payload.Status
	}
	if payload.Price != nil {
		course.Price = *payload.Price
	}
	if payload.InstructorName != nil {
		course.InstructorName = strings.TrimSpace(*payload.InstructorName)
	}
	if payload.InstructorEmail != nil {
		course.InstructorEmail = strings.ToLower(strings.TrimSpace(*payload.InstructorEmail))
	}

	if err := s.repo.Update(ctx, &course); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return dto.CourseResponse{}, apperr.Conflictf("course %d was modified concurrently", id)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "course_update_failed")
		return dto.CourseResponse{}, err
	}

	s.record(ctx, actor, "course.updated", course.ID, map[string]interface{}{"title": course.Title})

	return dto.NewCourseResponse(course), nil
}

// Delete permanently removes a course and its enrollments. Only the global
// scope may destroy platform-wide content; instructors use Unassign.
func (s *courseService) Delete(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint) error {
	if !scope.Global {
		return apperr.Forbiddenf("only administrators may delete courses")
	}

	course, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return notFoundOr(err, "course %d", id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "course %d", id)
	}

	s.record(ctx, actor, "course.deleted", id, map[string]interface{}{"title": course.Title})
	return nil
}

// Unassign removes the caller as instructor without deleting content other
// students still access.
func (s *courseService) Unassign(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint) error {
	course, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return notFoundOr(err, "course %d", id)
	}

	if err := s.repo.Unassign(ctx, &course); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return apperr.Conflictf("course %d was modified concurrently", id)
		}
		return err
	}

	s.record(ctx, actor, "course.unassigned", id, map[string]interface{}{"title": course.Title})
	return nil
}

func (s *courseService) AddLesson(ctx context.Context, scope auth.Scope, courseID uint, payload dto.LessonCreateRequest) (dto.LessonResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LessonResponse{}, apperr.Validationf("%s", err)
	}
	if _, err := s.repo.GetByID(ctx, scope, courseID); err != nil {
		return dto.LessonResponse{}, notFoundOr(err, "course %d", courseID)
	}

	lesson := models.Lesson{
		PublicID:    uuid.NewString(),
		CourseID:    courseID,
		Title:       strings.TrimSpace(payload.Title),
		Duration:    payload.Duration,
		URL:         payload.URL,
		FreePreview: payload.FreePreview,
	}
	if err := s.repo.AddLesson(ctx, &lesson); err != nil {
		return dto.LessonResponse{}, err
	}

	return dto.LessonResponse{
		ID:          lesson.PublicID,
		Title:       lesson.Title,
		Duration:    lesson.Duration,
		URL:         lesson.URL,
		FreePreview: lesson.FreePreview,
		OrderIndex:  lesson.OrderIndex,
	}, nil
}

func (s *courseService) AddAssignment(ctx context.Context, scope auth.Scope, courseID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, apperr.Validationf("%s", err)
	}
	if _, err := s.repo.GetByID(ctx, scope, courseID); err != nil {
		return dto.AssignmentResponse{}, notFoundOr(err, "course %d", courseID)
	}

	assignment := models.Assignment{
		PublicID:    uuid.NewString(),
		CourseID:    courseID,
		Title:       strings.TrimSpace(payload.Title),
		Description: payload.Description,
		Difficulty:  payload.Difficulty,
		Points:      payload.Points,
		Deadline:    payload.Deadline,
	}
	if err := s.repo.AddAssignment(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.AssignmentResponse{
		ID:          assignment.PublicID,
		Title:       assignment.Title,
		Description: assignment.Description,
		Difficulty:  assignment.Difficulty,
		Points:      assignment.Points,
		Deadline:    assignment.Deadline,
	}, nil
}

func (s *courseService) AddProject(ctx context.Context, scope auth.Scope, courseID uint, payload dto.ProjectCreateRequest) (dto.ProjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProjectResponse{}, apperr.Validationf("%s", err)
	}
	if _, err := s.repo.GetByID(ctx, scope, courseID); err != nil {
		return dto.ProjectResponse{}, notFoundOr(err, "course %d", courseID)
	}

	project := models.Project{
		PublicID:       uuid.NewString(),
		CourseID:       courseID,
		Title:          strings.TrimSpace(payload.Title),
		Description:    payload.Description,
		Deadline:       payload.Deadline,
		SubmissionLink: payload.SubmissionLink,
		AskAdminLink:   payload.AskAdminLink,
	}
	if err := s.repo.AddProject(ctx, &project); err != nil {
		return dto.ProjectResponse{}, err
	}

	return dto.ProjectResponse{
		ID:             project.PublicID,
		Title:          project.Title,
		Description:    project.Description,
		Deadline:       project.Deadline,
		SubmissionLink: project.SubmissionLink,
		AskAdminLink:   project.AskAdminLink,
	}, nil
}

func (s *courseService) AddResource(ctx context.Context, scope auth.Scope, courseID uint, payload dto.ResourceCreateRequest) (dto.ResourceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResourceResponse{}, apperr.Validationf("%s", err)
	}
	if _, err := s.repo.GetByID(ctx, scope, courseID); err != nil {
		return dto.ResourceResponse{}, notFoundOr(err, "course %d", courseID)
	}

	resourceType := payload.Type
	if resourceType == "" {
		resourceType = models.ResourceTypeLink
	}

	resource := models.Resource{
		PublicID: uuid.NewString(),
		CourseID: courseID,
		Title:    strings.TrimSpace(payload.Title),
		URL:      payload.URL,
		Type:     resourceType,
	}
	if err := s.repo.AddResource(ctx, &resource); err != nil {
		return dto.ResourceResponse{}, err
	}

	return dto.ResourceResponse{
		ID:    resource.PublicID,
		Title: resource.Title,
		URL:   resource.URL,
		Type:  resource.Type,
	}, nil
}

// RemoveItem deletes a sub-item by its stable identifier. Only lessons are
// renumbered; the other collections are unordered.
func (s *courseService) RemoveItem(ctx context.Context, scope auth.Scope, courseID uint, collection, itemID string) error {
	if _, err := s.repo.GetByID(ctx, scope, courseID); err != nil {
		return notFoundOr(err, "course %d", courseID)
	}

	var err error
	switch collection {
	case CollectionLessons:
		err = s.repo.RemoveLesson(ctx, courseID, itemID)
	case CollectionAssignments:
		err = s.repo.RemoveAssignment(ctx, courseID, itemID)
	case CollectionProjects:
		err = s.repo.RemoveProject(ctx, courseID, itemID)
	case CollectionResources:
		err = s.repo.RemoveResource(ctx, courseID, itemID)
	default:
		return apperr.Validationf("unknown sub-collection %q", collection)
	}

	return notFoundOr(err, "%s item %s", collection, itemID)
}

// Stats computes the scoped course counters from current state on every call.
func (s *courseService) Stats(ctx context.Context, scope auth.Scope) (dto.CourseStatsResponse, error) {
	counts, err := s.analytics.CourseStatusCounts(ctx, scope)
	if err != nil {
		return dto.CourseStatsResponse{}, err
	}

	stats := dto.CourseStatsResponse{}
	for _, count := range counts {
		stats.Total += count.Count
		switch count.Key {
		case models.CourseStatusActive:
			stats.Active = count.Count
		case models.CourseStatusDraft:
			stats.Draft = count.Count
		case models.CourseStatusArchived:
			stats.Archived = count.Count
		}
	}

	students, err := s.analytics.TotalStudents(ctx, scope)
	if err != nil {
		return dto.CourseStatsResponse{}, err
	}
	stats.TotalStudents = students

	return stats, nil
}

func (s *courseService) record(ctx context.Context, actor ActivityActor, action string, courseID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	id := courseID
	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		Action:     action,
		EntityType: "course",
		EntityID:   &id,
		Metadata:   metadata,
	})
}

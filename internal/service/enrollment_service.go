package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/edupress/academy-api/internal/apperr"
	"github.com/edupress/academy-api/internal/auth"
	"github.com/edupress/academy-api/internal/dto"
	"github.com/edupress/academy-api/internal/models"
	"github.com/edupress/academy-api/internal/repository"
)

// EnrollmentService implements the grant/revoke/restore/delete state machine.
// Revoking preserves the record for audit history; only Delete removes it.
type EnrollmentService interface {
	ListByCourse(ctx context.Context, scope auth.Scope, courseID uint) ([]dto.EnrollmentResponse, error)
	Grant(ctx context.Context, scope auth.Scope, actor ActivityActor, payload dto.GrantAccessRequest) (dto.EnrollmentResponse, error)
	Revoke(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint) (dto.EnrollmentResponse, error)
	Restore(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint) (dto.EnrollmentResponse, error)
	Delete(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint) error
}

type enrollmentService struct {
	repo      repository.EnrollmentRepository
	courses   repository.CourseRepository
	users     repository.UserRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewEnrollmentService constructs the enrollment lifecycle service.
func NewEnrollmentService(repo repository.EnrollmentRepository, courses repository.CourseRepository, users repository.UserRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		courses:   courses,
		users:     users,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) ListByCourse(ctx context.Context, scope auth.Scope, courseID uint) ([]dto.EnrollmentResponse, error) {
	// A course outside the caller's scope must look absent, never forbidden.
	if _, err := s.courses.GetByID(ctx, scope, courseID); err != nil {
		return nil, notFoundOr(err, "course %d", courseID)
	}

	enrollments, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewEnrollmentResponseSlice(enrollments), nil
}

func (s *enrollmentService) Grant(ctx context.Context, scope auth.Scope, actor ActivityActor, payload dto.GrantAccessRequest) (dto.EnrollmentResponse, error) {
	tracer := otel.Tracer("github.com/edupress/academy-api/internal/service/enrollment")
	ctx, span := tracer.Start(ctx, "enrollment.grant")
	span.SetAttributes(
		attribute.Int64("enrollment.user_id", int64(payload.UserID)),
		attribute.Int64("enrollment.course_id", int64(payload.CourseID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EnrollmentResponse{}, apperr.Validationf("%s", err)
	}

	if _, err := s.courses.GetByID(ctx, scope, payload.CourseID); err != nil {
		span.RecordError(err)
		return dto.EnrollmentResponse{}, notFoundOr(err, "course %d", payload.CourseID)
	}
	if _, err := s.users.GetByID(ctx, payload.UserID); err != nil {
		span.RecordError(err)
		return dto.EnrollmentResponse{}, notFoundOr(err, "user %d", payload.UserID)
	}

	// Re-granting is an explicit conflict, never a silent no-op.
	if _, err := s.repo.GetByUserAndCourse(ctx, payload.UserID, payload.CourseID); err == nil {
		return dto.EnrollmentResponse{}, apperr.Conflictf("user %d is already enrolled in course %d", payload.UserID, payload.CourseID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.EnrollmentResponse{}, err
	}

	paymentStatus := payload.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentStatusFree
	}

	enrollment := models.Enrollment{
		UserID:        payload.UserID,
		CourseID:      payload.CourseID,
		Status:        models.EnrollmentStatusActive,
		PaymentStatus: paymentStatus,
		Version:       1,
	}
	if err := s.repo.Create(ctx, &enrollment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enrollment_create_failed")
		return dto.EnrollmentResponse{}, err
	}

	span.SetAttributes(attribute.Int64("enrollment.id", int64(enrollment.ID)))
	s.record(ctx, actor, "enrollment.granted", enrollment.ID, map[string]interface{}{
		"user_id":   enrollment.UserID,
		"course_id": enrollment.CourseID,
	})

	return dto.NewEnrollmentResponse(enrollment), nil
}

// Revoke suspends access. Legal only from active; payment status and
// progress are untouched so Restore is a true round trip.
func (s *enrollmentService) Revoke(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint) (dto.EnrollmentResponse, error) {
	return s.transition(ctx, scope, actor, id, models.EnrollmentStatusActive, models.EnrollmentStatusRevoked, "enrollment.revoked")
}

// Restore reinstates revoked access.
func (s *enrollmentService) Restore(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint) (dto.EnrollmentResponse, error) {
	return s.transition(ctx, scope, actor, id, models.EnrollmentStatusRevoked, models.EnrollmentStatusActive, "enrollment.restored")
}

func (s *enrollmentService) transition(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint, from, to, action string) (dto.EnrollmentResponse, error) {
	tracer := otel.Tracer("github.com/edupress/academy-api/internal/service/enrollment")
	ctx, span := tracer.Start(ctx, action)
	span.SetAttributes(attribute.Int64("enrollment.id", int64(id)))
	defer span.End()

	enrollment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return dto.EnrollmentResponse{}, notFoundOr(err, "enrollment %d", id)
	}

	// The enrollment id was obtained from a scoped listing, so existence is
	// already implied; a cross-instructor mutation is forbidden, not hidden.
	if !scope.Covers(enrollment.Course.InstructorEmail) {
		return dto.EnrollmentResponse{}, apperr.Forbiddenf("enrollment %d belongs to another instructor", id)
	}

	if enrollment.Status != from {
		return dto.EnrollmentResponse{}, apperr.Conflictf("enrollment %d is %s, expected %s", id, enrollment.Status, from)
	}

	if err := s.repo.UpdateStatus(ctx, &enrollment, to); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return dto.EnrollmentResponse{}, apperr.Conflictf("enrollment %d was modified concurrently", id)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "enrollment_transition_failed")
		return dto.EnrollmentResponse{}, err
	}

	s.record(ctx, actor, action, id, map[string]interface{}{
		"user_id":   enrollment.UserID,
		"course_id": enrollment.CourseID,
		"status":    to,
	})

	return dto.NewEnrollmentResponse(enrollment), nil
}

// Delete permanently removes the record from any status. Irreversible, and
// distinct from Revoke; a second delete reports NotFound.
func (s *enrollmentService) Delete(ctx context.Context, scope auth.Scope, actor ActivityActor, id uint) error {
	enrollment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "enrollment %d", id)
	}

	if !scope.Covers(enrollment.Course.InstructorEmail) {
		return apperr.Forbiddenf("enrollment %d belongs to another instructor", id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "enrollment %d", id)
	}

	s.record(ctx, actor, "enrollment.deleted", id, map[string]interface{}{
		"user_id":   enrollment.UserID,
		"course_id": enrollment.CourseID,
	})

	return nil
}

func (s *enrollmentService) record(ctx context.Context, actor ActivityActor, action string, enrollmentID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	id := enrollmentID
	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		Action:     action,
		EntityType: "enrollment",
		EntityID:   &id,
		Metadata:   metadata,
	})
}

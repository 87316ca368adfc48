package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edupress/academy-api/internal/apperr"
	"github.com/edupress/academy-api/internal/auth"
	"github.com/edupress/academy-api/internal/dto"
	"github.com/edupress/academy-api/internal/models"
	"github.com/edupress/academy-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type fakeEnrollmentRepo struct {
	enrollments map[uint]models.Enrollment
	courses     *fakeCourseRepo
	nextID      uint
	failVersion bool
}

func newFakeEnrollmentRepo(courses *fakeCourseRepo) *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{enrollments: map[uint]models.Enrollment{}, courses: courses, nextID: 1}
}

func (f *fakeEnrollmentRepo) GetByID(_ context.Context, id uint) (models.Enrollment, error) {
	enrollment, ok := f.enrollments[id]
	if !ok {
		return models.Enrollment{}, gorm.ErrRecordNotFound
	}
	if f.courses != nil {
		if course, ok := f.courses.courses[enrollment.CourseID]; ok {
			enrollment.Course = course
		}
	}
	return enrollment, nil
}

func (f *fakeEnrollmentRepo) GetByUserAndCourse(_ context.Context, userID, courseID uint) (models.Enrollment, error) {
	for _, enrollment := range f.enrollments {
		if enrollment.UserID == userID && enrollment.CourseID == courseID {
			return enrollment, nil
		}
	}
	return models.Enrollment{}, gorm.ErrRecordNotFound
}

func (f *fakeEnrollmentRepo) ListByCourse(_ context.Context, courseID uint) ([]models.Enrollment, error) {
	var result []models.Enrollment
	for _, enrollment := range f.enrollments {
		if enrollment.CourseID == courseID {
			result = append(result, enrollment)
		}
	}
	return result, nil
}

func (f *fakeEnrollmentRepo) ListByUser(_ context.Context, userID uint) ([]models.Enrollment, error) {
	var result []models.Enrollment
	for _, enrollment := range f.enrollments {
		if enrollment.UserID == userID {
			result = append(result, enrollment)
		}
	}
	return result, nil
}

func (f *fakeEnrollmentRepo) Create(_ context.Context, enrollment *models.Enrollment) error {
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now()
	}
	enrollment.ID = f.nextID
	f.nextID++
	f.enrollments[enrollment.ID] = *enrollment
	f.recount(enrollment.CourseID)
	return nil
}

func (f *fakeEnrollmentRepo) UpdateStatus(_ context.Context, enrollment *models.Enrollment, status string) error {
	if f.failVersion {
		return repository.ErrVersionConflict
	}
	stored, ok := f.enrollments[enrollment.ID]
	if !ok || stored.Version != enrollment.Version {
		return repository.ErrVersionConflict
	}
	stored.Status = status
	stored.Version++
	f.enrollments[enrollment.ID] = stored
	enrollment.Status = status
	enrollment.Version = stored.Version
	f.recount(enrollment.CourseID)
	return nil
}

func (f *fakeEnrollmentRepo) Delete(_ context.Context, id uint) error {
	enrollment, ok := f.enrollments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.enrollments, id)
	f.recount(enrollment.CourseID)
	return nil
}

func (f *fakeEnrollmentRepo) recount(courseID uint) {
	if f.courses == nil {
		return
	}
	course, ok := f.courses.courses[courseID]
	if !ok {
		return
	}
	var count int64
	for _, enrollment := range f.enrollments {
		if enrollment.CourseID == courseID && enrollment.Status == models.EnrollmentStatusActive {
			count++
		}
	}
	course.Students = count
	f.courses.courses[courseID] = course
}

type fakeUserRepo struct {
	users map[uint]models.User
}

func (f *fakeUserRepo) List(context.Context, repository.UserFilter) ([]models.User, int64, error) {
	var result []models.User
	for _, user := range f.users {
		result = append(result, user)
	}
	return result, int64(len(result)), nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = uint(len(f.users) + 1)
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, id uint, updates map[string]interface{}) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		user.Name = name
	}
	if email, ok := updates["email"].(string); ok {
		user.Email = email
	}
	if role, ok := updates["role"].(string); ok {
		user.Role = role
	}
	f.users[id] = user
	return user, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.users, id)
	return nil
}

func enrollmentFixture(t *testing.T) (EnrollmentService, *fakeEnrollmentRepo, *fakeCourseRepo) {
	t.Helper()
	courses := newFakeCourseRepo()
	courses.courses[1] = models.Course{ID: 1, Title: "Go Basics", InstructorEmail: "amrita@example.com", Status: models.CourseStatusActive}
	enrollments := newFakeEnrollmentRepo(courses)
	users := &fakeUserRepo{users: map[uint]models.User{
		7: {ID: 7, Name: "Ravi", Email: "ravi@example.com", Role: models.RoleStudent},
	}}
	svc := NewEnrollmentService(enrollments, courses, users, validator.New(), nil, testLogger())
	return svc, enrollments, courses
}

func TestEnrollmentGrantAndDoubleGrantConflict(t *testing.T) {
	svc, _, courses := enrollmentFixture(t)
	scope := auth.Scope{Global: true}

	granted, err := svc.Grant(context.Background(), scope, ActivityActor{ID: 1, Role: "admin"}, dto.GrantAccessRequest{UserID: 7, CourseID: 1})
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusActive, granted.Status)
	require.Equal(t, models.PaymentStatusFree, granted.PaymentStatus)
	require.Equal(t, int64(1), courses.courses[1].Students)

	_, err = svc.Grant(context.Background(), scope, ActivityActor{}, dto.GrantAccessRequest{UserID: 7, CourseID: 1})
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestEnrollmentGrantHidesForeignCourse(t *testing.T) {
	svc, _, _ := enrollmentFixture(t)
	scope := auth.Scope{OwnerEmail: "vikram@example.com"}

	_, err := svc.Grant(context.Background(), scope, ActivityActor{}, dto.GrantAccessRequest{UserID: 7, CourseID: 1})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEnrollmentGrantUnknownUser(t *testing.T) {
	svc, _, _ := enrollmentFixture(t)

	_, err := svc.Grant(context.Background(), auth.Scope{Global: true}, ActivityActor{}, dto.GrantAccessRequest{UserID: 99, CourseID: 1})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEnrollmentRevokeRestoreRoundTrip(t *testing.T) {
	svc, repo, courses := enrollmentFixture(t)
	scope := auth.Scope{Global: true}

	granted, err := svc.Grant(context.Background(), scope, ActivityActor{}, dto.GrantAccessRequest{UserID: 7, CourseID: 1, PaymentStatus: models.PaymentStatusCompleted})
	require.NoError(t, err)

	revoked, err := svc.Revoke(context.Background(), scope, ActivityActor{}, granted.ID)
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusRevoked, revoked.Status)
	require.Equal(t, int64(0), courses.courses[1].Students)

	restored, err := svc.Restore(context.Background(), scope, ActivityActor{}, granted.ID)
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusActive, restored.Status)
	require.Equal(t, models.PaymentStatusCompleted, restored.PaymentStatus, "restore must preserve payment status")
	require.Equal(t, int64(1), courses.courses[1].Students)

	stored := repo.enrollments[granted.ID]
	require.Equal(t, granted.EnrolledAt.UTC(), stored.EnrolledAt.UTC(), "restore must preserve the original enrollment time")
}

func TestEnrollmentIllegalTransitionsConflict(t *testing.T) {
	svc, _, _ := enrollmentFixture(t)
	scope := auth.Scope{Global: true}

	granted, err := svc.Grant(context.Background(), scope, ActivityActor{}, dto.GrantAccessRequest{UserID: 7, CourseID: 1})
	require.NoError(t, err)

	_, err = svc.Restore(context.Background(), scope, ActivityActor{}, granted.ID)
	require.ErrorIs(t, err, apperr.ErrConflict, "restoring an active enrollment must conflict")

	_, err = svc.Revoke(context.Background(), scope, ActivityActor{}, granted.ID)
	require.NoError(t, err)

	_, err = svc.Revoke(context.Background(), scope, ActivityActor{}, granted.ID)
	require.ErrorIs(t, err, apperr.ErrConflict, "revoking twice must conflict")
}

func TestEnrollmentForeignMutationForbidden(t *testing.T) {
	svc, _, _ := enrollmentFixture(t)

	granted, err := svc.Grant(context.Background(), auth.Scope{Global: true}, ActivityActor{}, dto.GrantAccessRequest{UserID: 7, CourseID: 1})
	require.NoError(t, err)

	foreign := auth.Scope{OwnerEmail: "vikram@example.com"}
	_, err = svc.Revoke(context.Background(), foreign, ActivityActor{}, granted.ID)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	err = svc.Delete(context.Background(), foreign, ActivityActor{}, granted.ID)
	require.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestEnrollmentVersionRaceSurfacesConflict(t *testing.T) {
	svc, repo, _ := enrollmentFixture(t)
	scope := auth.Scope{Global: true}

	granted, err := svc.Grant(context.Background(), scope, ActivityActor{}, dto.GrantAccessRequest{UserID: 7, CourseID: 1})
	require.NoError(t, err)

	repo.failVersion = true
	_, err = svc.Revoke(context.Background(), scope, ActivityActor{}, granted.ID)
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestEnrollmentDeleteRemovesAnyStatus(t *testing.T) {
	svc, _, courses := enrollmentFixture(t)
	scope := auth.Scope{Global: true}

	granted, err := svc.Grant(context.Background(), scope, ActivityActor{}, dto.GrantAccessRequest{UserID: 7, CourseID: 1})
	require.NoError(t, err)
	_, err = svc.Revoke(context.Background(), scope, ActivityActor{}, granted.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), scope, ActivityActor{}, granted.ID))
	require.Equal(t, int64(0), courses.courses[1].Students)

	err = svc.Delete(context.Background(), scope, ActivityActor{}, granted.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound, "second delete must report the record as gone")
}

func TestEnrollmentListByCourseScoped(t *testing.T) {
	svc, _, _ := enrollmentFixture(t)

	_, err := svc.Grant(context.Background(), auth.Scope{Global: true}, ActivityActor{}, dto.GrantAccessRequest{UserID: 7, CourseID: 1})
	require.NoError(t, err)

	enrollments, err := svc.ListByCourse(context.Background(), auth.Scope{OwnerEmail: "amrita@example.com"}, 1)
	require.NoError(t, err)
	require.Len(t, enrollments, 1)

	_, err = svc.ListByCourse(context.Background(), auth.Scope{OwnerEmail: "vikram@example.com"}, 1)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

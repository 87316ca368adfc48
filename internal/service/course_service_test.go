package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edupress/academy-api/internal/apperr"
	"github.com/edupress/academy-api/internal/auth"
	"github.com/edupress/academy-api/internal/dto"
	"github.com/edupress/academy-api/internal/models"
	"github.com/edupress/academy-api/internal/repository"
)

type fakeCourseRepo struct {
	courses     map[uint]models.Course
	lessons     map[uint][]models.Lesson
	assignments map[uint][]models.Assignment
	projects    map[uint][]models.Project
	resources   map[uint][]models.Resource
	nextID      uint
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses:     map[uint]models.Course{},
		lessons:     map[uint][]models.Lesson{},
		assignments: map[uint][]models.Assignment{},
		projects:    map[uint][]models.Project{},
		resources:   map[uint][]models.Resource{},
		nextID:      100,
	}
}

func (f *fakeCourseRepo) visible(scope auth.Scope, course models.Course) bool {
	return scope.Global || course.InstructorEmail == scope.OwnerEmail
}

func (f *fakeCourseRepo) List(_ context.Context, scope auth.Scope, _ repository.CourseFilter) ([]models.Course, int64, error) {
	var result []models.Course
	for _, course := range f.courses {
		if f.visible(scope, course) {
			result = append(result, course)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeCourseRepo) GetByID(_ context.Context, scope auth.Scope, id uint) (models.Course, error) {
	course, ok := f.courses[id]
	if !ok || !f.visible(scope, course) {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	course.Lessons = f.lessons[id]
	return course, nil
}

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	course.ID = f.nextID
	f.nextID++
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	stored, ok := f.courses[course.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != course.Version {
		return repository.ErrVersionConflict
	}
	course.Version++
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.courses, id)
	delete(f.lessons, id)
	delete(f.assignments, id)
	delete(f.projects, id)
	delete(f.resources, id)
	return nil
}

func (f *fakeCourseRepo) Unassign(_ context.Context, course *models.Course) error {
	stored, ok := f.courses[course.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.InstructorName = ""
	stored.InstructorEmail = ""
	stored.Version++
	f.courses[course.ID] = stored
	course.InstructorName = ""
	course.InstructorEmail = ""
	course.Version = stored.Version
	return nil
}

func (f *fakeCourseRepo) AddLesson(_ context.Context, lesson *models.Lesson) error {
	lesson.OrderIndex = len(f.lessons[lesson.CourseID])
	f.lessons[lesson.CourseID] = append(f.lessons[lesson.CourseID], *lesson)
	return nil
}

func (f *fakeCourseRepo) AddAssignment(_ context.Context, assignment *models.Assignment) error {
	f.assignments[assignment.CourseID] = append(f.assignments[assignment.CourseID], *assignment)
	return nil
}

func (f *fakeCourseRepo) AddProject(_ context.Context, project *models.Project) error {
	f.projects[project.CourseID] = append(f.projects[project.CourseID], *project)
	return nil
}

func (f *fakeCourseRepo) AddResource(_ context.Context, resource *models.Resource) error {
	f.resources[resource.CourseID] = append(f.resources[resource.CourseID], *resource)
	return nil
}

func (f *fakeCourseRepo) RemoveLesson(_ context.Context, courseID uint, publicID string) error {
	lessons := f.lessons[courseID]
	for i, lesson := range lessons {
		if lesson.PublicID == publicID {
			lessons = append(lessons[:i], lessons[i+1:]...)
			for j := range lessons {
				lessons[j].OrderIndex = j
			}
			f.lessons[courseID] = lessons
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCourseRepo) RemoveAssignment(_ context.Context, courseID uint, publicID string) error {
	for i, item := range f.assignments[courseID] {
		if item.PublicID == publicID {
			f.assignments[courseID] = append(f.assignments[courseID][:i], f.assignments[courseID][i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCourseRepo) RemoveProject(_ context.Context, courseID uint, publicID string) error {
	for i, item := range f.projects[courseID] {
		if item.PublicID == publicID {
			f.projects[courseID] = append(f.projects[courseID][:i], f.projects[courseID][i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCourseRepo) RemoveResource(_ context.Context, courseID uint, publicID string) error {
	for i, item := range f.resources[courseID] {
		if item.PublicID == publicID {
			f.resources[courseID] = append(f.resources[courseID][:i], f.resources[courseID][i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeAnalyticsRepo struct {
	statusCounts   []repository.StatusCount
	categoryCounts []repository.StatusCount
	totalStudents  int64
	enrollments    []repository.EnrollmentRecord
	userCreated    []time.Time
}

func (f *fakeAnalyticsRepo) CourseStatusCounts(context.Context, auth.Scope) ([]repository.StatusCount, error) {
	return f.statusCounts, nil
}

func (f *fakeAnalyticsRepo) CourseCategoryCounts(context.Context, auth.Scope) ([]repository.StatusCount, error) {
	return f.categoryCounts, nil
}

func (f *fakeAnalyticsRepo) TotalStudents(context.Context, auth.Scope) (int64, error) {
	return f.totalStudents, nil
}

func (f *fakeAnalyticsRepo) ListEnrollmentRecords(context.Context, auth.Scope) ([]repository.EnrollmentRecord, error) {
	return f.enrollments, nil
}

func (f *fakeAnalyticsRepo) ListUserCreationTimes(context.Context) ([]time.Time, error) {
	return f.userCreated, nil
}

func courseFixture(t *testing.T) (CourseService, *fakeCourseRepo, *fakeAnalyticsRepo) {
	t.Helper()
	repo := newFakeCourseRepo()
	analytics := &fakeAnalyticsRepo{}
	svc := NewCourseService(repo, analytics, validator.New(), nil, testLogger())
	return svc, repo, analytics
}

func validCoursePayload() dto.CourseCreateRequest {
	return dto.CourseCreateRequest{
		Title:    "Go Basics",
		Category: "backend",
		Level:    "beginner",
		Duration: "6w",
	}
}

func TestCourseCreateDefaultsToDraft(t *testing.T) {
	svc, _, _ := courseFixture(t)

	created, err := svc.Create(context.Background(), auth.Scope{Global: true}, ActivityActor{}, validCoursePayload())
	require.NoError(t, err)
	require.Equal(t, models.CourseStatusDraft, created.Status)
	require.Zero(t, created.Students)
}

func TestCourseDescriptionSanitized(t *testing.T) {
	svc, repo, _ := courseFixture(t)

	payload := validCoursePayload()
	payload.Description = `<script>alert("xss")</script>hands-on Go`
	created, err := svc.Create(context.Background(), auth.Scope{Global: true}, ActivityActor{}, payload)
	require.NoError(t, err)
	require.Equal(t, "hands-on Go", created.Description)
	require.Equal(t, "hands-on Go", repo.courses[created.ID].Description)

	desc := `<img src=x onerror=alert(1)>covers generics`
	updated, err := svc.Update(context.Background(), auth.Scope{Global: true}, ActivityActor{}, created.ID, dto.CourseUpdateRequest{Description: &desc})
	require.NoError(t, err)
	require.Equal(t, "covers generics", updated.Description)
	require.Equal(t, "covers generics", repo.courses[created.ID].Description)
}

func TestCourseCreateForcesOwnership(t *testing.T) {
	svc, repo, _ := courseFixture(t)
	scope := auth.Scope{OwnerEmail: "amrita@example.com"}

	created, err := svc.Create(context.Background(), scope, ActivityActor{}, validCoursePayload())
	require.NoError(t, err)
	require.Equal(t, "amrita@example.com", repo.courses[created.ID].InstructorEmail)

	payload := validCoursePayload()
	payload.InstructorEmail = "vikram@example.com"
	_, err = svc.Create(context.Background(), scope, ActivityActor{}, payload)
	require.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestCourseCreateValidation(t *testing.T) {
	svc, _, _ := courseFixture(t)

	payload := validCoursePayload()
	payload.Title = "Go"
	_, err := svc.Create(context.Background(), auth.Scope{Global: true}, ActivityActor{}, payload)
	require.ErrorIs(t, err, apperr.ErrValidation)

	payload = validCoursePayload()
	payload.Status = "published"
	_, err = svc.Create(context.Background(), auth.Scope{Global: true}, ActivityActor{}, payload)
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCourseUpdateForeignCourseLooksAbsent(t *testing.T) {
	svc, repo, _ := courseFixture(t)
	repo.courses[1] = models.Course{ID: 1, Title: "Go Basics", InstructorEmail: "amrita@example.com", Version: 1}

	title := "Go Basics v2"
	_, err := svc.Update(context.Background(), auth.Scope{OwnerEmail: "vikram@example.com"}, ActivityActor{}, 1, dto.CourseUpdateRequest{Title: &title})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	updated, err := svc.Update(context.Background(), auth.Scope{OwnerEmail: "amrita@example.com"}, ActivityActor{}, 1, dto.CourseUpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Go Basics v2", updated.Title)
}

func TestCourseDeleteGlobalOnly(t *testing.T) {
	svc, repo, _ := courseFixture(t)
	repo.courses[1] = models.Course{ID: 1, Title: "Go Basics", InstructorEmail: "amrita@example.com", Version: 1}

	err := svc.Delete(context.Background(), auth.Scope{OwnerEmail: "amrita@example.com"}, ActivityActor{}, 1)
	require.ErrorIs(t, err, apperr.ErrForbidden, "instructors must unassign, not delete")

	require.NoError(t, svc.Delete(context.Background(), auth.Scope{Global: true}, ActivityActor{}, 1))
	require.Empty(t, repo.courses)

	err = svc.Delete(context.Background(), auth.Scope{Global: true}, ActivityActor{}, 1)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCourseUnassignKeepsContent(t *testing.T) {
	svc, repo, _ := courseFixture(t)
	repo.courses[1] = models.Course{ID: 1, Title: "Go Basics", InstructorEmail: "amrita@example.com", Version: 1}
	repo.lessons[1] = []models.Lesson{{PublicID: "abc", CourseID: 1, Title: "Setup"}}

	require.NoError(t, svc.Unassign(context.Background(), auth.Scope{OwnerEmail: "amrita@example.com"}, ActivityActor{}, 1))
	require.Empty(t, repo.courses[1].InstructorEmail)
	require.Len(t, repo.lessons[1], 1)
}

func TestCourseAddAndRemoveLessonKeepsOrder(t *testing.T) {
	svc, repo, _ := courseFixture(t)
	repo.courses[1] = models.Course{ID: 1, Title: "Go Basics", InstructorEmail: "amrita@example.com", Version: 1}
	scope := auth.Scope{OwnerEmail: "amrita@example.com"}

	var ids []string
	for _, title := range []string{"Setup", "Syntax", "Concurrency"} {
		lesson, err := svc.AddLesson(context.Background(), scope, 1, dto.LessonCreateRequest{Title: title})
		require.NoError(t, err)
		require.NotEmpty(t, lesson.ID)
		ids = append(ids, lesson.ID)
	}
	require.Equal(t, 2, repo.lessons[1][2].OrderIndex)

	require.NoError(t, svc.RemoveItem(context.Background(), scope, 1, CollectionLessons, ids[1]))
	require.Len(t, repo.lessons[1], 2)
	require.Equal(t, 1, repo.lessons[1][1].OrderIndex)

	err := svc.RemoveItem(context.Background(), scope, 1, CollectionLessons, ids[1])
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCourseRemoveItemUnknownCollection(t *testing.T) {
	svc, repo, _ := courseFixture(t)
	repo.courses[1] = models.Course{ID: 1, Title: "Go Basics", Version: 1}

	err := svc.RemoveItem(context.Background(), auth.Scope{Global: true}, 1, "quizzes", "abc")
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCourseStatsAggregatesCounts(t *testing.T) {
	svc, _, analytics := courseFixture(t)
	analytics.statusCounts = []repository.StatusCount{
		{Key: models.CourseStatusActive, Count: 3},
		{Key: models.CourseStatusDraft, Count: 2},
		{Key: models.CourseStatusArchived, Count: 1},
	}
	analytics.totalStudents = 42

	stats, err := svc.Stats(context.Background(), auth.Scope{Global: true})
	require.NoError(t, err)
	require.Equal(t, int64(6), stats.Total)
	require.Equal(t, int64(3), stats.Active)
	require.Equal(t, int64(2), stats.Draft)
	require.Equal(t, int64(1), stats.Archived)
	require.Equal(t, int64(42), stats.TotalStudents)
}

func TestCourseStatsEmptyStore(t *testing.T) {
	svc, _, _ := courseFixture(t)

	stats, err := svc.Stats(context.Background(), auth.Scope{Global: true})
	require.NoError(t, err)
	require.Zero(t, stats.Total)
	require.Zero(t, stats.TotalStudents)
}

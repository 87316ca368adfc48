package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edupress/academy-api/internal/apperr"
	"github.com/edupress/academy-api/internal/auth"
	"github.com/edupress/academy-api/internal/dto"
	"github.com/edupress/academy-api/internal/models"
	"github.com/edupress/academy-api/internal/repository"
)

type fakeSubmissionRepo struct {
	submissions map[uint]models.Submission
	owners      map[uint]string
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: map[uint]models.Submission{}, owners: map[uint]string{}}
}

func (f *fakeSubmissionRepo) covered(scope auth.Scope, id uint) bool {
	return scope.Global || f.owners[id] == scope.OwnerEmail
}

func (f *fakeSubmissionRepo) List(_ context.Context, scope auth.Scope, filter repository.SubmissionFilter) ([]models.Submission, int64, error) {
	var result []models.Submission
	for id, submission := range f.submissions {
		if !f.covered(scope, id) {
			continue
		}
		if filter.Status != "" && submission.Status != filter.Status {
			continue
		}
		result = append(result, submission)
	}
	return result, int64(len(result)), nil
}

func (f *fakeSubmissionRepo) GetByID(_ context.Context, scope auth.Scope, id uint) (models.Submission, error) {
	submission, ok := f.submissions[id]
	if !ok || !f.covered(scope, id) {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (f *fakeSubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	submission.ID = uint(len(f.submissions) + 1)
	f.submissions[submission.ID] = *submission
	return nil
}

func (f *fakeSubmissionRepo) Update(_ context.Context, submission *models.Submission) error {
	if _, ok := f.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.submissions[submission.ID] = *submission
	return nil
}

func gradingFixture(t *testing.T) (GradingService, *fakeSubmissionRepo) {
	t.Helper()
	repo := newFakeSubmissionRepo()
	repo.submissions[1] = models.Submission{ID: 1, CourseID: 1, UserID: 7, ItemID: "abc", Status: models.SubmissionStatusPending}
	repo.owners[1] = "amrita@example.com"
	svc := NewGradingService(repo, validator.New(), nil, testLogger())
	return svc, repo
}

func TestGradeSetsGradeFeedbackAndTimestamp(t *testing.T) {
	svc, repo := gradingFixture(t)
	scope := auth.Scope{OwnerEmail: "amrita@example.com"}

	graded, err := svc.Grade(context.Background(), scope, ActivityActor{}, 1, dto.GradeSubmissionRequest{Grade: 85, Feedback: "solid work"})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusGraded, graded.Status)
	require.NotNil(t, graded.Grade)
	require.Equal(t, float64(85), *graded.Grade)
	require.Equal(t, "solid work", graded.Feedback)
	require.NotNil(t, repo.submissions[1].GradedAt)
}

func TestRegradeReplacesPreviousGrade(t *testing.T) {
	svc, repo := gradingFixture(t)
	scope := auth.Scope{OwnerEmail: "amrita@example.com"}

	_, err := svc.Grade(context.Background(), scope, ActivityActor{}, 1, dto.GradeSubmissionRequest{Grade: 60, Feedback: "needs work"})
	require.NoError(t, err)

	regraded, err := svc.Grade(context.Background(), scope, ActivityActor{}, 1, dto.GradeSubmissionRequest{Grade: 90, Feedback: "much better"})
	require.NoError(t, err)
	require.Equal(t, float64(90), *regraded.Grade)
	require.Equal(t, "much better", regraded.Feedback)
	require.Equal(t, models.SubmissionStatusGraded, repo.submissions[1].Status)
}

func TestGradeSanitizesFeedback(t *testing.T) {
	svc, _ := gradingFixture(t)

	graded, err := svc.Grade(context.Background(), auth.Scope{Global: true}, ActivityActor{}, 1, dto.GradeSubmissionRequest{Grade: 70, Feedback: `<script>alert("x")</script>good`})
	require.NoError(t, err)
	require.Equal(t, "good", graded.Feedback)
}

func TestGradeValidatesRange(t *testing.T) {
	svc, _ := gradingFixture(t)

	_, err := svc.Grade(context.Background(), auth.Scope{Global: true}, ActivityActor{}, 1, dto.GradeSubmissionRequest{Grade: 120})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestGradeForeignSubmissionLooksAbsent(t *testing.T) {
	svc, _ := gradingFixture(t)

	_, err := svc.Grade(context.Background(), auth.Scope{OwnerEmail: "vikram@example.com"}, ActivityActor{}, 1, dto.GradeSubmissionRequest{Grade: 50})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestReviewPendingAndGradedConflict(t *testing.T) {
	svc, repo := gradingFixture(t)
	scope := auth.Scope{Global: true}

	reviewed, err := svc.Review(context.Background(), scope, ActivityActor{}, 1)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusReviewed, reviewed.Status)

	_, err = svc.Grade(context.Background(), scope, ActivityActor{}, 1, dto.GradeSubmissionRequest{Grade: 80})
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), scope, ActivityActor{}, 1)
	require.ErrorIs(t, err, apperr.ErrConflict, "reviewing a graded submission must conflict")
	require.Equal(t, models.SubmissionStatusGraded, repo.submissions[1].Status)
}

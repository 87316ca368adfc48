package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edupress/academy-api/internal/auth"
	"github.com/edupress/academy-api/internal/models"
)

// SubmissionFilter describes status filter and pagination for submission listings.
type SubmissionFilter struct {
	Status   string
	CourseID uint
	Page     int
	PageSize int
}

// SubmissionRepository defines persistence operations for project submissions.
type SubmissionRepository interface {
	List(ctx context.Context, scope auth.Scope, filter SubmissionFilter) ([]models.Submission, int64, error)
	GetByID(ctx context.Context, scope auth.Scope, id uint) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates a GORM-backed submission repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) List(ctx context.Context, scope auth.Scope, filter SubmissionFilter) ([]models.Submission, int64, error) {
	query := scopedByCourse(r.db.WithContext(ctx).Model(&models.Submission{}), scope, "submissions")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CourseID != 0 {
		query = query.Where("course_id = ?", filter.CourseID)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("User").Preload("Course").Order("created_at DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var submissions []models.Submission
	if err := query.Find(&submissions).Error; err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, scope auth.Scope, id uint) (models.Submission, error) {
	var submission models.Submission
	query := scopedByCourse(r.db.WithContext(ctx).Where("submissions.id = ?", id), scope, "submissions").
		Preload("User").
		Preload("Course")
	if err := query.First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

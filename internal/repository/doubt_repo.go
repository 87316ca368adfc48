package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edupress/academy-api/internal/auth"
	"github.com/edupress/academy-api/internal/models"
)

// DoubtFilter describes status filter and pagination for doubt listings.
type DoubtFilter struct {
	Status   string
	CourseID uint
	Page     int
	PageSize int
}

// DoubtRepository defines persistence operations for student doubts. Reads
// are scoped through the owning course's instructor email.
type DoubtRepository interface {
	List(ctx context.Context, scope auth.Scope, filter DoubtFilter) ([]models.Doubt, int64, error)
	GetByID(ctx context.Context, scope auth.Scope, id uint) (models.Doubt, error)
	Create(ctx context.Context, doubt *models.Doubt) error
	Update(ctx context.Context, doubt *models.Doubt) error
}

type doubtRepository struct {
	db *gorm.DB
}

// NewDoubtRepository instantiates a GORM-backed doubt repository.
func NewDoubtRepository(db *gorm.DB) DoubtRepository {
	return &doubtRepository{db: db}
}

// scopedByCourse restricts rows of a course-linked table to courses the scope
// owns, using an EXISTS subquery so listings stay a single round trip.
func scopedByCourse(query *gorm.DB, scope auth.Scope, table string) *gorm.DB {
	if scope.Global {
		return query
	}
	return query.Where(
		"EXISTS (SELECT 1 FROM courses WHERE courses.id = "+table+".course_id AND LOWER(courses.instructor_email) = ?)",
		scope.OwnerEmail,
	)
}

func (r *doubtRepository) List(ctx context.Context, scope auth.Scope, filter DoubtFilter) ([]models.Doubt, int64, error) {
	query := scopedByCourse(r.db.WithContext(ctx).Model(&models.Doubt{}), scope, "doubts")

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

	var doubts []models.Doubt
	if err := query.Find(&doubts).Error; err != nil {
		return nil, 0, err
	}

	return doubts, total, nil
}

func (r *doubtRepository) GetByID(ctx context.Context, scope auth.Scope, id uint) (models.Doubt, error) {
	var doubt models.Doubt
	query := scopedByCourse(r.db.WithContext(ctx).Where("doubts.id = ?", id), scope, "doubts").
		Preload("User").
		Preload("Course")
	if err := query.First(&doubt).Error; err != nil {
		return models.Doubt{}, err
	}

	return doubt, nil
}

func (r *doubtRepository) Create(ctx context.Context, doubt *models.Doubt) error {
	return r.db.WithContext(ctx).Create(doubt).Error
}

func (r *doubtRepository) Update(ctx context.Context, doubt *models.Doubt) error {
	return r.db.WithContext(ctx).Save(doubt).Error
}

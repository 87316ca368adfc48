package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/edupress/academy-api/internal/models"
)

// EnrollmentRepository defines persistence operations for enrollment records.
// Every mutation runs in a transaction that leaves the owning course's
// Students counter equal to the count of active enrollments.
type EnrollmentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Enrollment, error)
	GetByUserAndCourse(ctx context.Context, userID, courseID uint) (models.Enrollment, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.Enrollment, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	UpdateStatus(ctx context.Context, enrollment *models.Enrollment, status string) error
	Delete(ctx context.Context, id uint) error
}

type enrollmentRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewEnrollmentRepository instantiates a GORM-backed enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db, now: time.Now}
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).Preload("Course").Preload("User").First(&enrollment, id).Error; err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("course_id = ?", courseID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepository) ListByUser(ctx context.Context, userID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = r.now()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(enrollment).Error; err != nil {
			return err
		}
		return recountStudents(tx, enrollment.CourseID)
	})
}

// UpdateStatus applies a version-guarded status transition and recomputes the
// course counter in the same transaction. A lost race returns
// ErrVersionConflict and leaves the record untouched.
func (r *enrollmentRepository) UpdateStatus(ctx context.Context, enrollment *models.Enrollment, status string) error {
	current := enrollment.Version

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Enrollment{}).
			Where("id = ? AND version = ?", enrollment.ID, current).
			Updates(map[string]interface{}{
				"status":  status,
				"version": current + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrVersionConflict
		}
		return recountStudents(tx, enrollment.CourseID)
	})
	if err != nil {
		return err
	}

	enrollment.Status = status
	enrollment.Version = current + 1
	return nil
}

func (r *enrollmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var enrollment models.Enrollment
		if err := tx.First(&enrollment, id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Enrollment{}, id).Error; err != nil {
			return err
		}

		return recountStudents(tx, enrollment.CourseID)
	})
}

// recountStudents recomputes the derived counter from current state rather
// than tracking increments, so partial failures can never leave drift behind.
func recountStudents(tx *gorm.DB, courseID uint) error {
	var count int64
	err := tx.Model(&models.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, models.EnrollmentStatusActive).
		Count(&count).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Course{}).
		Where("id = ?", courseID).
		Update("students", count).Error
}

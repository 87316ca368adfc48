package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/edupress/academy-api/internal/auth"
	"github.com/edupress/academy-api/internal/models"
)

// StatusCount pairs a status or category value with its row count.
type StatusCount struct {
	Key   string `gorm:"column:key"`
	Count int64  `gorm:"column:count"`
}

// EnrollmentRecord is the minimal projection the stats engine buckets over.
// EnrolledAt fixes the creation-period bucket; later status flips never move
// a record between buckets.
type EnrollmentRecord struct {
	ID         uint      `gorm:"column:id"`
	UserID     uint      `gorm:"column:user_id"`
	Status     string    `gorm:"column:status"`
	EnrolledAt time.Time `gorm:"column:enrolled_at"`
}

// AnalyticsRepository exposes the raw reads the stats engine aggregates in
// memory. Nothing here is cached; every call reflects the store at call time.
type AnalyticsRepository interface {
	CourseStatusCounts(ctx context.Context, scope auth.Scope) ([]StatusCount, error)
	CourseCategoryCounts(ctx context.Context, scope auth.Scope) ([]StatusCount, error)
	TotalStudents(ctx context.Context, scope auth.Scope) (int64, error)
	ListEnrollmentRecords(ctx context.Context, scope auth.Scope) ([]EnrollmentRecord, error)
	ListUserCreationTimes(ctx context.Context) ([]time.Time, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository instantiates a GORM-backed analytics repository.
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CourseStatusCounts(ctx context.Context, scope auth.Scope) ([]StatusCount, error) {
	var counts []StatusCount
	err := scopedCourses(r.db.WithContext(ctx).Model(&models.Course{}), scope).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *analyticsRepository) CourseCategoryCounts(ctx context.Context, scope auth.Scope) ([]StatusCount, error) {
	var counts []StatusCount
	err := scopedCourses(r.db.WithContext(ctx).Model(&models.Course{}), scope).
		Select("category AS key, COUNT(*) AS count").
		Group("category").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *analyticsRepository) TotalStudents(ctx context.Context, scope auth.Scope) (int64, error) {
	var total int64
	err := scopedByCourse(r.db.WithContext(ctx).Model(&models.Enrollment{}), scope, "enrollments").
		Where("status = ?", models.EnrollmentStatusActive).
		Count(&total).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *analyticsRepository) ListEnrollmentRecords(ctx context.Context, scope auth.Scope) ([]EnrollmentRecord, error) {
	var records []EnrollmentRecord
	err := scopedByCourse(r.db.WithContext(ctx).Model(&models.Enrollment{}), scope, "enrollments").
		Select("id, user_id, status, enrolled_at").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *analyticsRepository) ListUserCreationTimes(ctx context.Context) ([]time.Time, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Select("created_at").Find(&users).Error; err != nil {
		return nil, err
	}

	times := make([]time.Time, 0, len(users))
	for _, user := range users {
		times = append(times, user.CreatedAt)
	}

	return times, nil
}

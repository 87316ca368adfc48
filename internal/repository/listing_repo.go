package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/edupress/academy-api/internal/auth"
	"github.com/edupress/academy-api/internal/models"
)

// ListingFilter describes search and pagination for job/hackathon listings.
type ListingFilter struct {
	Search   string
	Page     int
	PageSize int
}

// JobRepository defines persistence operations for job listings.
type JobRepository interface {
	List(ctx context.Context, scope auth.Scope, filter ListingFilter) ([]models.Job, int64, error)
	GetByID(ctx context.Context, scope auth.Scope, id uint) (models.Job, error)
	ListByPoster(ctx context.Context, email string) ([]models.Job, error)
	Create(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id uint) error
}

// HackathonRepository defines persistence operations for hackathon listings.
type HackathonRepository interface {
	List(ctx context.Context, scope auth.Scope, filter ListingFilter) ([]models.Hackathon, int64, error)
	GetByID(ctx context.Context, scope auth.Scope, id uint) (models.Hackathon, error)
	ListByPoster(ctx context.Context, email string) ([]models.Hackathon, error)
	Create(ctx context.Context, hackathon *models.Hackathon) error
	Update(ctx context.Context, hackathon *models.Hackathon) error
	Delete(ctx context.Context, id uint) error
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository instantiates a GORM-backed job repository.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// scopedListings narrows poster-owned rows to the caller's visibility.
func scopedListings(query *gorm.DB, scope auth.Scope) *gorm.DB {
	if scope.Global {
		return query
	}
	return query.Where("LOWER(posted_by) = ?", scope.OwnerEmail)
}

func (r *jobRepository) List(ctx context.Context, scope auth.Scope, filter ListingFilter) ([]models.Job, int64, error) {
	query := scopedListings(r.db.WithContext(ctx).Model(&models.Job{}), scope)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(company) LIKE ?", pattern, pattern)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var jobs []models.Job
	if err := query.Find(&jobs).Error; err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *jobRepository) GetByID(ctx context.Context, scope auth.Scope, id uint) (models.Job, error) {
	var job models.Job
	if err := scopedListings(r.db.WithContext(ctx).Where("id = ?", id), scope).First(&job).Error; err != nil {
		return models.Job{}, err
	}

	return job, nil
}

func (r *jobRepository) ListByPoster(ctx context.Context, email string) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Where("LOWER(posted_by) = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}

	return jobs, nil
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepository) Update(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *jobRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Job{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type hackathonRepository struct {
	db *gorm.DB
}

// NewHackathonRepository instantiates a GORM-backed hackathon repository.
func NewHackathonRepository(db *gorm.DB) HackathonRepository {
	return &hackathonRepository{db: db}
}

func (r *hackathonRepository) List(ctx context.Context, scope auth.Scope, filter ListingFilter) ([]models.Hackathon, int64, error) {
	query := scopedListings(r.db.WithContext(ctx).Model(&models.Hackathon{}), scope)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(organizer) LIKE ?", pattern, pattern)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var hackathons []models.Hackathon
	if err := query.Find(&hackathons).Error; err != nil {
		return nil, 0, err
	}

	return hackathons, total, nil
}

func (r *hackathonRepository) GetByID(ctx context.Context, scope auth.Scope, id uint) (models.Hackathon, error) {
	var hackathon models.Hackathon
	if err := scopedListings(r.db.WithContext(ctx).Where("id = ?", id), scope).First(&hackathon).Error; err != nil {
		return models.Hackathon{}, err
	}

	return hackathon, nil
}

func (r *hackathonRepository) ListByPoster(ctx context.Context, email string) ([]models.Hackathon, error) {
	var hackathons []models.Hackathon
	err := r.db.WithContext(ctx).
		Where("LOWER(posted_by) = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("created_at DESC").
		Find(&hackathons).Error
	if err != nil {
		return nil, err
	}

	return hackathons, nil
}

func (r *hackathonRepository) Create(ctx context.Context, hackathon *models.Hackathon) error {
	return r.db.WithContext(ctx).Create(hackathon).Error
}

func (r *hackathonRepository) Update(ctx context.Context, hackathon *models.Hackathon) error {
	return r.db.WithContext(ctx).Save(hackathon).Error
}

func (r *hackathonRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Hackathon{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

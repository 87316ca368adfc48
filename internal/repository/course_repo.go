package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/edupress/academy-api/internal/auth"
	"github.com/edupress/academy-api/internal/models"
)

// ErrVersionConflict signals that an optimistic write lost a version race and
// the caller should re-read current state before retrying.
var ErrVersionConflict = errors.New("version conflict")

// CourseFilter describes search, filter and pagination options for listings.
type CourseFilter struct {
	Search          string
	Category        string
	Level           string
	Status          string
	InstructorEmail string
	Page            int
	PageSize        int
}

// CourseRepository defines persistence operations for the course aggregate.
// Every read takes a scope; out-of-scope rows behave as if they do not exist.
type CourseRepository interface {
	List(ctx context.Context, scope auth.Scope, filter CourseFilter) ([]models.Course, int64, error)
	GetByID(ctx context.Context, scope auth.Scope, id uint) (models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
	Unassign(ctx context.Context, course *models.Course) error
	AddLesson(ctx context.Context, lesson *models.Lesson) error
	AddAssignment(ctx context.Context, assignment *models.Assignment) error
	AddProject(ctx context.Context, project *models.Project) error
	AddResource(ctx context.Context, resource *models.Resource) error
	RemoveLesson(ctx context.Context, courseID uint, publicID string) error
	RemoveAssignment(ctx context.Context, courseID uint, publicID string) error
	RemoveProject(ctx context.Context, courseID uint, publicID string) error
	RemoveResource(ctx context.Context, courseID uint, publicID string) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates a GORM-backed course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// scopedCourses narrows a course query to the caller's visibility.
func scopedCourses(query *gorm.DB, scope auth.Scope) *gorm.DB {
	if scope.Global {
		return query
	}
	return query.Where("LOWER(instructor_email) = ?", scope.OwnerEmail)
}

func (r *courseRepository) List(ctx context.Context, scope auth.Scope, filter CourseFilter) ([]models.Course, int64, error) {
	query := scopedCourses(r.db.WithContext(ctx).Model(&models.Course{}), scope)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.InstructorEmail != "" {
		query = query.Where("LOWER(instructor_email) = ?", strings.ToLower(strings.TrimSpace(filter.InstructorEmail)))
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
		offset := (page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *courseRepository) GetByID(ctx context.Context, scope auth.Scope, id uint) (models.Course, error) {
	var course models.Course
	query := scopedCourses(r.db.WithContext(ctx).Where("id = ?", id), scope).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Preload("Assignments").
		Preload("Projects").
		Preload("Resources")
	if err := query.First(&course).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

// Update persists the full course row guarded by its version. A lost race
// returns ErrVersionConflict without touching the row.
func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	current := course.Version
	course.Version = current + 1

	result := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ? AND version = ?", course.ID, current).
		Updates(map[string]interface{}{
			"title":            course.Title,
			"description":      course.Description,
			"category":         course.Category,
			"level":            course.Level,
			"duration":         course.Duration,
			"status":           course.Status,
			"price":            course.Price,
			"instructor_name":  course.InstructorName,
			"instructor_email": course.InstructorEmail,
			"version":          course.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		course.Version = current
		return ErrVersionConflict
	}

	return nil
}

// Delete removes the course and cascades to its enrollments and sub-items.
func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, id).Error; err != nil {
			return err
		}

		if err := tx.Where("course_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		for _, item := range []interface{}{&models.Lesson{}, &models.Assignment{}, &models.Project{}, &models.Resource{}, &models.Doubt{}, &models.Submission{}} {
			if err := tx.Where("course_id = ?", id).Delete(item).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Course{}, id).Error
	})
}

// Unassign clears the instructor association without deleting platform content.
func (r *courseRepository) Unassign(ctx context.Context, course *models.Course) error {
	current := course.Version
	result := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ? AND version = ?", course.ID, current).
		Updates(map[string]interface{}{
			"instructor_name":  "",
			"instructor_email": "",
			"version":          current + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}

	course.InstructorName = ""
	course.InstructorEmail = ""
	course.Version = current + 1
	return nil
}

// AddLesson appends the lesson at the next contiguous order index.
func (r *courseRepository) AddLesson(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Lesson{}).Where("course_id = ?", lesson.CourseID).Count(&count).Error; err != nil {
			return err
		}
		lesson.OrderIndex = int(count)
		return tx.Create(lesson).Error
	})
}

func (r *courseRepository) AddAssignment(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *courseRepository) AddProject(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *courseRepository) AddResource(ctx context.Context, resource *models.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

// RemoveLesson deletes by public id and renumbers the remaining lessons so
// order indices stay contiguous.
func (r *courseRepository) RemoveLesson(ctx context.Context, courseID uint, publicID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("course_id = ? AND public_id = ?", courseID, publicID).Delete(&models.Lesson{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var lessons []models.Lesson
		if err := tx.Where("course_id = ?", courseID).Order("order_index ASC").Find(&lessons).Error; err != nil {
			return err
		}
		for i := range lessons {
			if lessons[i].OrderIndex == i {
				continue
			}
			if err := tx.Model(&models.Lesson{}).Where("id = ?", lessons[i].ID).Update("order_index", i).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *courseRepository) RemoveAssignment(ctx context.Context, courseID uint, publicID string) error {
	return removeCourseItem(r.db.WithContext(ctx), &models.Assignment{}, courseID, publicID)
}

func (r *courseRepository) RemoveProject(ctx context.Context, courseID uint, publicID string) error {
	return removeCourseItem(r.db.WithContext(ctx), &models.Project{}, courseID, publicID)
}

func (r *courseRepository) RemoveResource(ctx context.Context, courseID uint, publicID string) error {
	return removeCourseItem(r.db.WithContext(ctx), &models.Resource{}, courseID, publicID)
}

func removeCourseItem(db *gorm.DB, model interface{}, courseID uint, publicID string) error {
	result := db.Where("course_id = ? AND public_id = ?", courseID, publicID).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

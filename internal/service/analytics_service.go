package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/edupress/academy-api/internal/auth"
	"github.com/edupress/academy-api/internal/dto"
	"github.com/edupress/academy-api/internal/models"
	"github.com/edupress/academy-api/internal/repository"
)

const trendPeriodLayout = "2006-01"

// AnalyticsService aggregates the scoped dashboard view. Every call reads
// the authoritative store; there is no summary cache to drift.
type AnalyticsService interface {
	DashboardSummary(ctx context.Context, scope auth.Scope) (dto.DashboardSummaryResponse, error)
}

type analyticsService struct {
	repo   repository.AnalyticsRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewAnalyticsService constructs the analytics service.
func NewAnalyticsService(repo repository.AnalyticsRepository, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		logger: logger.With().Str("component", "analytics_service").Logger(),
		now:    time.Now,
	}
}

func (s *analyticsService) DashboardSummary(ctx context.Context, scope auth.Scope) (dto.DashboardSummaryResponse, error) {
	tracer := otel.Tracer("github.com/edupress/academy-api/internal/service/analytics")
	ctx, span := tracer.Start(ctx, "analytics.dashboard_summary")
	span.SetAttributes(attribute.Bool("analytics.global_scope", scope.Global))
	defer span.End()

	statusCounts, err := s.repo.CourseStatusCounts(ctx, scope)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "course_status_counts_failed")
		return dto.DashboardSummaryResponse{}, err
	}

	courses := dto.CourseStatsResponse{}
	for _, count := range statusCounts {
		courses.Total += count.Count
		switch count.Key {
		case models.CourseStatusActive:
			courses.Active = count.Count
		case models.CourseStatusDraft:
			courses.Draft = count.Count
		case models.CourseStatusArchived:
			courses.Archived = count.Count
		}
	}

	categoryCounts, err := s.repo.CourseCategoryCounts(ctx, scope)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "course_category_counts_failed")
		return dto.DashboardSummaryResponse{}, err
	}

	histogram := make([]dto.CategoryCount, 0, len(categoryCounts))
	for _, count := range categoryCounts {
		histogram = append(histogram, dto.CategoryCount{Category: count.Key, Count: count.Count})
	}
	sort.Slice(histogram, func(i, j int) bool { return histogram[i].Category < histogram[j].Category })

	records, err := s.repo.ListEnrollmentRecords(ctx, scope)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enrollment_records_failed")
		return dto.DashboardSummaryResponse{}, err
	}

	summary := dto.DashboardSummaryResponse{
		Courses:           courses,
		CoursesByCategory: histogram,
		GeneratedAt:       s.now().UTC(),
	}

	// Each enrollment contributes exactly once to its creation-period bucket:
	// revoke/restore flips change status, never EnrolledAt, so no record can
	// be double counted.
	enrollmentBuckets := map[string]int64{}
	for _, record := range records {
		summary.TotalEnrollments++
		switch record.Status {
		case models.EnrollmentStatusActive:
			summary.ActiveEnrollments++
		case models.EnrollmentStatusRevoked:
			summary.RevokedEnrollments++
		}
		enrollmentBuckets[record.EnrolledAt.UTC().Format(trendPeriodLayout)]++
	}
	summary.Courses.TotalStudents = summary.ActiveEnrollments
	summary.EnrollmentTrend = trendSeries(enrollmentBuckets)

	summary.UserGrowthTrend, err = s.userGrowth(ctx, scope, records)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user_growth_failed")
		return dto.DashboardSummaryResponse{}, err
	}

	span.SetAttributes(
		attribute.Int64("analytics.total_courses", courses.Total),
		attribute.Int64("analytics.total_enrollments", summary.TotalEnrollments),
	)

	return summary, nil
}

// userGrowth buckets account creation globally; for an owned scope it falls
// back to first-enrollment per user across the instructor's courses, which is
// the closest signal the scope is allowed to see.
func (s *analyticsService) userGrowth(ctx context.Context, scope auth.Scope, records []repository.EnrollmentRecord) ([]dto.TrendPoint, error) {
	buckets := map[string]int64{}

	if scope.Global {
		times, err := s.repo.ListUserCreationTimes(ctx)
		if err != nil {
			return nil, err
		}
		for _, created := range times {
			buckets[created.UTC().Format(trendPeriodLayout)]++
		}
		return trendSeries(buckets), nil
	}

	firstSeen := map[uint]time.Time{}
	for _, record := range records {
		seen, ok := firstSeen[record.UserID]
		if !ok || record.EnrolledAt.Before(seen) {
			firstSeen[record.UserID] = record.EnrolledAt
		}
	}
	for _, first := range firstSeen {
		buckets[first.UTC().Format(trendPeriodLayout)]++
	}

	return trendSeries(buckets), nil
}

// trendSeries flattens period buckets into a chronologically ordered series.
// The "2006-01" labels sort lexicographically in calendar order.
func trendSeries(buckets map[string]int64) []dto.TrendPoint {
	periods := make([]string, 0, len(buckets))
	for period := range buckets {
		periods = append(periods, period)
	}
	sort.Strings(periods)

	series := make([]dto.TrendPoint, 0, len(periods))
	for _, period := range periods {
		series = append(series, dto.TrendPoint{Period: period, Count: buckets[period]})
	}

	return series
}

package dto

import "time"

// TrendPoint is one calendar-period bucket in a growth series. Periods are
// labeled "2006-01" and series are emitted in chronological order.
type TrendPoint struct {
	Period string `json:"period"`
	Count  int64  `json:"count"`
}

// CategoryCount is one bar of the courses-by-category histogram.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// DashboardSummaryResponse aggregates the scoped dashboard view. It is
// always computed from the authoritative store at call time.
type DashboardSummaryResponse struct {
	Courses            CourseStatsResponse `json:"courses"`
	TotalEnrollments   int64               `json:"total_enrollments"`
	ActiveEnrollments  int64               `json:"active_enrollments"`
	RevokedEnrollments int64               `json:"revoked_enrollments"`
	CoursesByCategory  []CategoryCount     `json:"courses_by_category"`
	EnrollmentTrend    []TrendPoint        `json:"enrollment_trend"`
	UserGrowthTrend    []TrendPoint        `json:"user_growth_trend"`
	GeneratedAt        time.Time           `json:"generated_at"`
}

// ActivityEventResponse is one entry of the recent-activity feed.
type ActivityEventResponse struct {
	ID         uint                   `json:"id,omitempty"`
	ActorID    uint                   `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/edupress/academy-api/internal/dto"
	"github.com/edupress/academy-api/internal/models"
	"github.com/edupress/academy-api/internal/repository"
)

const activityFeedKey = "activity:recent"

// ActivityActor identifies who triggered an auditable event.
type ActivityActor struct {
	ID    uint
	Role  string
	Email string
}

// ActivityEntry describes one auditable lifecycle event.
type ActivityEntry struct {
	Actor      ActivityActor
	Action     string
	EntityType string
	EntityID   *uint
	Metadata   map[string]interface{}
}

// ActivityRecorder records lifecycle events. Recording is best-effort:
// failures are logged and never fail the triggering mutation.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry)
}

// ActivityService records lifecycle events and serves the recent feed.
type ActivityService interface {
	ActivityRecorder
	Recent(ctx context.Context, limit int) ([]dto.ActivityEventResponse, error)
}

type activityService struct {
	repo     repository.ActivityLogRepository
	feed     *redis.Client
	feedSize int
	events   *nats.Conn
	subject  string
	logger   zerolog.Logger
	now      func() time.Time
}

// NewActivityService constructs the activity service. The redis client and
// NATS connection are optional; a nil client disables that sink.
func NewActivityService(repo repository.ActivityLogRepository, feed *redis.Client, feedSize int, events *nats.Conn, subject string, logger zerolog.Logger) ActivityService {
	if feedSize <= 0 {
		feedSize = 100
	}

	return &activityService{
		repo:     repo,
		feed:     feed,
		feedSize: feedSize,
		events:   events,
		subject:  subject,
		logger:   logger.With().Str("component", "activity_service").Logger(),
		now:      time.Now,
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) {
	log := models.ActivityLog{
		ActorID:    entry.Actor.ID,
		ActorRole:  entry.Actor.Role,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   datatypes.JSONMap(entry.Metadata),
		CreatedAt:  s.now(),
	}

	if err := s.repo.Create(ctx, &log); err != nil {
		s.logger.Warn().Err(err).Str("action", entry.Action).Msg("failed to persist activity log")
		return
	}

	event := dto.ActivityEventResponse{
		ID:         log.ID,
		ActorID:    log.ActorID,
		ActorRole:  log.ActorRole,
		Action:     log.Action,
		EntityType: log.EntityType,
		EntityID:   log.EntityID,
		Metadata:   entry.Metadata,
		CreatedAt:  log.CreatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode activity event")
		return
	}

	if s.feed != nil {
		pipe := s.feed.TxPipeline()
		pipe.LPush(ctx, activityFeedKey, payload)
		pipe.LTrim(ctx, activityFeedKey, 0, int64(s.feedSize-1))
		if _, err := pipe.Exec(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to push activity feed entry")
		}
	}

	if s.events != nil {
		if err := s.events.Publish(s.subject, payload); err != nil {
			s.logger.Warn().Err(err).Str("subject", s.subject).Msg("failed to publish activity event")
		}
	}
}

// Recent serves the dashboard feed from redis, falling back to the database
// when the feed is unavailable or empty.
func (s *activityService) Recent(ctx context.Context, limit int) ([]dto.ActivityEventResponse, error) {
	if limit <= 0 || limit > s.feedSize {
		limit = 20
	}

	if s.feed != nil {
		raw, err := s.feed.LRange(ctx, activityFeedKey, 0, int64(limit-1)).Result()
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to read activity feed")
		} else if len(raw) > 0 {
			events := make([]dto.ActivityEventResponse, 0, len(raw))
			for _, item := range raw {
				var event dto.ActivityEventResponse
				if err := json.Unmarshal([]byte(item), &event); err != nil {
					continue
				}
				events = append(events, event)
			}
			return events, nil
		}
	}

	entries, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	events := make([]dto.ActivityEventResponse, 0, len(entries))
	for _, entry := range entries {
		events = append(events, dto.ActivityEventResponse{
			ID:         entry.ID,
			ActorID:    entry.ActorID,
			ActorRole:  entry.ActorRole,
			Action:     entry.Action,
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID,
			Metadata:   entry.Metadata,
			CreatedAt:  entry.CreatedAt,
		})
	}

	return events, nil
}

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/edupress/academy-api/internal/models"
)

type fakeActivityLogRepo struct {
	entries []models.ActivityLog
	failing bool
}

func (f *fakeActivityLogRepo) Create(_ context.Context, entry *models.ActivityLog) error {
	if f.failing {
		return fmt.Errorf("database unavailable")
	}
	entry.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityLogRepo) ListRecent(_ context.Context, limit int) ([]models.ActivityLog, error) {
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	recent := make([]models.ActivityLog, 0, limit)
	for i := len(f.entries) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, f.entries[i])
	}
	return recent, nil
}

func activityFixture(t *testing.T, feedSize int) (ActivityService, *fakeActivityLogRepo, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &fakeActivityLogRepo{}
	svc := NewActivityService(repo, client, feedSize, nil, "", testLogger())
	return svc, repo, server
}

func sampleEntry(action string) ActivityEntry {
	id := uint(1)
	return ActivityEntry{
		Actor:      ActivityActor{ID: 1, Role: "admin"},
		Action:     action,
		EntityType: "enrollment",
		EntityID:   &id,
		Metadata:   map[string]interface{}{"course_id": float64(3)},
	}
}

func TestActivityRecordPersistsAndFeeds(t *testing.T) {
	svc, repo, server := activityFixture(t, 10)

	svc.Record(context.Background(), sampleEntry("enrollment.granted"))
	require.Len(t, repo.entries, 1)
	require.Equal(t, "enrollment.granted", repo.entries[0].Action)

	items, err := server.List("activity:recent")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestActivityFeedCapped(t *testing.T) {
	svc, _, server := activityFixture(t, 3)

	for i := 0; i < 5; i++ {
		svc.Record(context.Background(), sampleEntry(fmt.Sprintf("action.%d", i)))
	}

	items, err := server.List("activity:recent")
	require.NoError(t, err)
	require.Len(t, items, 3, "feed must be trimmed to the configured size")
}

func TestActivityRecentReadsFeedNewestFirst(t *testing.T) {
	svc, _, _ := activityFixture(t, 10)

	svc.Record(context.Background(), sampleEntry("first"))
	svc.Record(context.Background(), sampleEntry("second"))

	events, err := svc.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "second", events[0].Action)
}

func TestActivityRecentFallsBackToDatabase(t *testing.T) {
	repo := &fakeActivityLogRepo{}
	svc := NewActivityService(repo, nil, 10, nil, "", testLogger())

	svc.Record(context.Background(), sampleEntry("enrollment.granted"))
	svc.Record(context.Background(), sampleEntry("enrollment.revoked"))

	events, err := svc.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "enrollment.revoked", events[0].Action)
}

func TestActivityRecordBestEffortOnFailure(t *testing.T) {
	repo := &fakeActivityLogRepo{failing: true}
	svc := NewActivityService(repo, nil, 10, nil, "", testLogger())

	// Must not panic or surface the error to the caller.
	svc.Record(context.Background(), sampleEntry("enrollment.granted"))

	events, err := svc.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestActivityTimestampsPreserved(t *testing.T) {
	svc, repo, _ := activityFixture(t, 10)

	before := time.Now().Add(-time.Second)
	svc.Record(context.Background(), sampleEntry("enrollment.granted"))
	require.True(t, repo.entries[0].CreatedAt.After(before))
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/job-tracker/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Applications, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewApplications(client, ttl, zap.NewNop()), mr
}

func sampleApps() []domain.Application {
	created := time.Date(2025, 3, 4, 9, 30, 15, 0, time.UTC)
	return []domain.Application{
		{
			ID:        "a1",
			UserID:    "u1",
			JobTitle:  "Engineer",
			Company:   "Acme",
			Location:  "Berlin",
			Date:      time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
			Status:    domain.StatusInterview,
			Notes:     "second round",
			CreatedAt: created,
			UpdatedAt: created.Add(time.Hour),
		},
		{
			ID:        "a2",
			UserID:    "u1",
			JobTitle:  "Analyst",
			Company:   "Globex",
			Date:      time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
			Status:    domain.StatusCanceled,
			CreatedAt: created,
			UpdatedAt: created,
		},
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Applications
	ctx := context.Background()

	_, ok := c.Get(ctx, "u1", domain.StatusOffer)
	require.False(t, ok)
	_, ok = c.Generation(ctx, "u1")
	require.False(t, ok)
	c.Set(ctx, "u1", "", 0, []domain.Application{{ID: "a"}})
	c.Invalidate(ctx, "u1")

	require.Nil(t, NewApplications(nil, time.Minute, zap.NewNop()))
}

func TestKeysAndFields(t *testing.T) {
	require.Equal(t, "applications:u1", Key("u1"))
	require.Equal(t, "applications:u1:gen", GenerationKey("u1"))
	require.Equal(t, "all", Field(""))
	require.Equal(t, "offer", Field(domain.StatusOffer))
}

func TestSetThenGetRoundTrips(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "u1", "")
	require.False(t, ok)

	gen, ok := c.Generation(ctx, "u1")
	require.True(t, ok)
	require.Zero(t, gen)

	apps := sampleApps()
	c.Set(ctx, "u1", "", gen, apps)

	got, ok := c.Get(ctx, "u1", "")
	require.True(t, ok)
	require.Equal(t, apps, got)
}

func TestEmptyListIsAHit(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "u1", domain.StatusOffer, 0, []domain.Application{})
	got, ok := c.Get(ctx, "u1", domain.StatusOffer)
	require.True(t, ok)
	require.Empty(t, got)
}

func TestStatusFieldsAreSeparate(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	apps := sampleApps()

	c.Set(ctx, "u1", "", 0, apps)
	c.Set(ctx, "u1", domain.StatusInterview, 0, apps[:1])

	all, ok := c.Get(ctx, "u1", "")
	require.True(t, ok)
	require.Len(t, all, 2)
	interviews, ok := c.Get(ctx, "u1", domain.StatusInterview)
	require.True(t, ok)
	require.Len(t, interviews, 1)
	_, ok = c.Get(ctx, "u1", domain.StatusOffer)
	require.False(t, ok)
	_, ok = c.Get(ctx, "u2", "")
	require.False(t, ok)

	fields, err := mr.HKeys(Key("u1"))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"all", "interview"}, fields)
}

func TestInvalidateDropsEveryFieldAndBumpsGeneration(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "u1", "", 0, sampleApps())
	c.Set(ctx, "u1", domain.StatusCanceled, 0, sampleApps()[1:])
	c.Set(ctx, "u2", "", 0, sampleApps())

	c.Invalidate(ctx, "u1")

	_, ok := c.Get(ctx, "u1", "")
	require.False(t, ok)
	_, ok = c.Get(ctx, "u1", domain.StatusCanceled)
	require.False(t, ok)
	require.False(t, mr.Exists(Key("u1")))
	_, ok = c.Get(ctx, "u2", "")
	require.True(t, ok)

	gen, ok := c.Generation(ctx, "u1")
	require.True(t, ok)
	require.EqualValues(t, 1, gen)
	gen, ok = c.Generation(ctx, "u2")
	require.True(t, ok)
	require.Zero(t, gen)
}

func TestSetAfterInvalidationIsDropped(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	gen, ok := c.Generation(ctx, "u1")
	require.True(t, ok)

	// A write commits and invalidates while the reader still holds its list.
	c.Invalidate(ctx, "u1")
	c.Set(ctx, "u1", "", gen, sampleApps())

	_, ok = c.Get(ctx, "u1", "")
	require.False(t, ok)

	fresh, ok := c.Generation(ctx, "u1")
	require.True(t, ok)
	c.Set(ctx, "u1", "", fresh, sampleApps()[:1])
	got, ok := c.Get(ctx, "u1", "")
	require.True(t, ok)
	require.Len(t, got, 1)
}

func TestSetAppliesTTL(t *testing.T) {
	c, mr := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	c.Set(ctx, "u1", "", 0, sampleApps())
	require.Equal(t, 5*time.Minute, mr.TTL(Key("u1")))

	mr.FastForward(5*time.Minute + time.Second)
	_, ok := c.Get(ctx, "u1", "")
	require.False(t, ok)
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	mr.HSet(Key("u1"), "all", "{not json")
	_, ok := c.Get(ctx, "u1", "")
	require.False(t, ok)
}

func TestUnreachableRedisDegradesToMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewApplications(client, time.Minute, zap.NewNop())
	ctx := context.Background()

	_, ok := c.Generation(ctx, "u1")
	require.False(t, ok)
	c.Set(ctx, "u1", "", 0, []domain.Application{{ID: "a"}})
	_, ok = c.Get(ctx, "u1", "")
	require.False(t, ok)
	c.Invalidate(ctx, "u1")
}

package dayconfig

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRepo struct {
	configs map[string]Config
	gets    int
}

func key(spaceID uuid.UUID, day time.Time) string {
	return spaceID.String() + day.Format("2006-01-02")
}

func (r *countingRepo) Get(_ context.Context, spaceID uuid.UUID, day time.Time) (*Config, error) {
	r.gets++
	c, ok := r.configs[key(spaceID, day)]
	if !ok {
		return nil, ErrConfigNotFound
	}
	return &c, nil
}

func (r *countingRepo) Save(_ context.Context, cfg Config) (*Config, error) {
	cfg.UpdatedAt = time.Now()
	r.configs[key(cfg.SpaceID, cfg.Date)] = cfg
	return &cfg, nil
}

func testStore(t *testing.T) (*Store, *countingRepo) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := &countingRepo{configs: map[string]Config{}}
	return NewStore(repo, rdb, time.Minute, zap.NewNop()), repo
}

func TestStoreReadThrough(t *testing.T) {
	store, repo := testStore(t)
	space := uuid.New()
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	_, err := store.Save(context.Background(), Config{
		Date: day, SpaceID: space, StartHour: 9, EndHour: 12, Disabled: []string{"10:00"},
	})
	require.NoError(t, err)

	// save wrote through the cache, so reads never touch the repo
	for i := 0; i < 3; i++ {
		got, err := store.Get(context.Background(), space, day)
		require.NoError(t, err)
		assert.Equal(t, 9, got.StartHour)
		assert.Equal(t, []string{"10:00"}, got.Disabled)
	}
	assert.Equal(t, 0, repo.gets)
}

func TestStoreCachesMiss(t *testing.T) {
	store, repo := testStore(t)
	space := uuid.New()
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := store.Get(context.Background(), space, day)
		assert.ErrorIs(t, err, ErrConfigNotFound)
	}
	assert.Equal(t, 1, repo.gets)
}

func TestResolveForDefaults(t *testing.T) {
	store, repo := testStore(t)
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	// nil space id: no fetch at all, default schedule
	ds, err := store.ResolveFor(context.Background(), uuid.Nil, day)
	require.NoError(t, err)
	assert.True(t, ds.Default)
	assert.Equal(t, 0, repo.gets)

	// unconfigured space: fetched once, still default
	ds, err = store.ResolveFor(context.Background(), uuid.New(), day)
	require.NoError(t, err)
	assert.True(t, ds.Default)
	assert.Len(t, ds.Labels, 11)
}

func TestResolveForOverride(t *testing.T) {
	store, _ := testStore(t)
	space := uuid.New()
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	_, err := store.Save(context.Background(), Config{
		Date: day, SpaceID: space, StartHour: 9, EndHour: 12, Disabled: []string{"10:00"},
	})
	require.NoError(t, err)

	ds, err := store.ResolveFor(context.Background(), space, day)
	require.NoError(t, err)
	assert.False(t, ds.Default)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00"}, ds.Labels)
	assert.True(t, ds.IsDisabled("10:00"))
}

func TestSaveRefreshesStaleCache(t *testing.T) {
	store, _ := testStore(t)
	space := uuid.New()
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	// a miss gets cached first
	_, err := store.Get(context.Background(), space, day)
	require.ErrorIs(t, err, ErrConfigNotFound)

	_, err = store.Save(context.Background(), Config{Date: day, SpaceID: space, StartHour: 8, EndHour: 14})
	require.NoError(t, err)

	got, err := store.Get(context.Background(), space, day)
	require.NoError(t, err)
	assert.Equal(t, 8, got.StartHour)
}

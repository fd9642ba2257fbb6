package dayconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clinicore/agenda-api/internal/schedule"
)

// notConfigured is cached on a miss so repeated grid loads for an
// unconfigured day do not hit Postgres every time.
const notConfigured = "none"

// Store is a read-through cache over the config repository, keyed per
// (date, space). Save writes through and refreshes the cached entry.
type Store struct {
	repo  Repository
	redis *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewStore(repo Repository, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *Store {
	return &Store{
		repo:  repo,
		redis: rdb,
		ttl:   ttl,
		log:   log,
	}
}

func cacheKey(spaceID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("dayconfig:%s:%s", spaceID, day.Format("2006-01-02"))
}

// Get returns the persisted override for (space, day), or
// ErrConfigNotFound. Cache failures degrade to the repository.
func (s *Store) Get(ctx context.Context, spaceID uuid.UUID, day time.Time) (*Config, error) {
	key := cacheKey(spaceID, day)

	cached, err := s.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		if cached == notConfigured {
			return nil, ErrConfigNotFound
		}
		var c Config
		if err := json.Unmarshal([]byte(cached), &c); err == nil {
			return &c, nil
		}
		// fall through on a corrupt entry
	case !errors.Is(err, redis.Nil):
		s.log.Warn("dayconfig cache read", zap.String("key", key), zap.Error(err))
	}

	cfg, err := s.repo.Get(ctx, spaceID, day)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			s.cacheSet(ctx, key, notConfigured)
		}
		return nil, err
	}

	if data, err := json.Marshal(cfg); err == nil {
		s.cacheSet(ctx, key, string(data))
	}

	return cfg, nil
}

// Save persists the override and refreshes its cache entry.
func (s *Store) Save(ctx context.Context, cfg Config) (*Config, error) {
	saved, err := s.repo.Save(ctx, cfg)
	if err != nil {
		return nil, err
	}

	key := cacheKey(saved.SpaceID, saved.Date)
	if data, err := json.Marshal(saved); err == nil {
		s.cacheSet(ctx, key, string(data))
	} else {
		if err := s.redis.Del(ctx, key).Err(); err != nil {
			s.log.Warn("dayconfig cache invalidate", zap.String("key", key), zap.Error(err))
		}
	}

	return saved, nil
}

// ResolveFor yields the bookable grid for (space, day). A nil space id
// skips the fetch and falls back to the default schedule; so does a
// missing override record. Only unexpected storage errors propagate.
func (s *Store) ResolveFor(ctx context.Context, spaceID uuid.UUID, day time.Time) (schedule.DaySchedule, error) {
	if spaceID == uuid.Nil {
		return schedule.Resolve(nil), nil
	}

	cfg, err := s.Get(ctx, spaceID, day)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			return schedule.Resolve(nil), nil
		}
		return schedule.DaySchedule{}, err
	}

	return schedule.Resolve(cfg.Override()), nil
}

func (s *Store) cacheSet(ctx context.Context, key, value string) {
	if err := s.redis.Set(ctx, key, value, s.ttl).Err(); err != nil {
		s.log.Warn("dayconfig cache write", zap.String("key", key), zap.Error(err))
	}
}

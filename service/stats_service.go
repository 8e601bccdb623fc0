package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"warbler/model"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const statsTTL = 5 * time.Minute

// Stats are the per-user counters shown on profile pages.
type Stats struct {
	Messages  int64 `json:"messages"`
	Following int64 `json:"following"`
	Followers int64 `json:"followers"`
	Likes     int64 `json:"likes"`
}

// StatsService serves profile counters cache-aside through redis. With a
// nil client (tests, redis down) every read goes to the database.
type StatsService struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewStatsService(db *gorm.DB, rdb *redis.Client) *StatsService {
	return &StatsService{db: db, rdb: rdb}
}

func statsKey(userID uint) string {
	return fmt.Sprintf("warbler:stats:user:%d", userID)
}

func (s *StatsService) ForUser(ctx context.Context, userID uint) (Stats, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, statsKey(userID)).Result(); err == nil {
			var stats Stats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return stats, nil
			}
		}
	}

	stats, err := s.count(userID)
	if err != nil {
		return Stats{}, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(stats); err == nil {
			s.rdb.Set(ctx, statsKey(userID), raw, statsTTL)
		}
	}
	return stats, nil
}

// Invalidate drops the cached counters after a write touching the user.
func (s *StatsService) Invalidate(ctx context.Context, userIDs ...uint) {
	if s.rdb == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = statsKey(id)
	}
	s.rdb.Del(ctx, keys...)
}

func (s *StatsService) count(userID uint) (Stats, error) {
	var stats Stats

	err := s.db.Model(&model.Message{}).Where("user_id = ?", userID).Count(&stats.Messages).Error
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count messages: %w", err)
	}
	err = s.db.Model(&model.Follow{}).Where("user_following_id = ?", userID).Count(&stats.Following).Error
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count following: %w", err)
	}
	err = s.db.Model(&model.Follow{}).Where("user_being_followed_id = ?", userID).Count(&stats.Followers).Error
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count followers: %w", err)
	}
	err = s.db.Model(&model.Like{}).Where("user_id = ?", userID).Count(&stats.Likes).Error
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count likes: %w", err)
	}
	return stats, nil
}

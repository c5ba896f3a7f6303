package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DarkCodePE/agent-auto-nort/internal/agent/model"
	errx "github.com/DarkCodePE/agent-auto-nort/internal/core/error"
	logx "github.com/DarkCodePE/agent-auto-nort/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisThreadRepository stores each thread's ConversationState as one JSON
// checkpoint under a per-thread key, refreshing the TTL on every save.
type RedisThreadRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisThreadRepository(rdb redis.Cmdable, ttl time.Duration) *RedisThreadRepository {
	return &RedisThreadRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisThreadRepository) threadKey(threadID string) string {
	return fmt.Sprintf("thread:%s:state", threadID)
}

func (r *RedisThreadRepository) Load(ctx context.Context, threadID string) (*model.ConversationState, error) {
	key := r.threadKey(threadID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load thread state from redis")
		return nil, errx.WrapRedis(err)
	}

	var state model.ConversationState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		logx.Error().Err(err).Str("threadID", threadID).Msg("failed to unmarshal thread state")
		return nil, fmt.Errorf("unmarshal thread state: %w", err)
	}
	return &state, nil
}

func (r *RedisThreadRepository) Save(ctx context.Context, state *model.ConversationState) error {
	if state == nil {
		return fmt.Errorf("thread state is nil")
	}
	b, err := json.Marshal(state)
	if err != nil {
		logx.Error().Err(err).Str("threadID", state.ThreadID).Msg("failed to marshal thread state")
		return fmt.Errorf("marshal thread state: %w", err)
	}
	key := r.threadKey(state.ThreadID)

	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save thread state to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisThreadRepository) Delete(ctx context.Context, threadID string) error {
	key := r.threadKey(threadID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete thread state from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.ThreadRepository = (*RedisThreadRepository)(nil)

package queue

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"audio-translator/internal/domain/entities"
	"audio-translator/internal/domain/repositories"
	"audio-translator/pkg/errors"

	"github.com/go-redis/redis/v8"
)

// StatusTTL is how long run status hashes are kept after their last update.
const StatusTTL = 24 * time.Hour

type redisClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.StringStringMapCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisQueue is a FIFO of pipeline runs on a Redis list (LPUSH / BRPOP) with
// per-run status kept in a hash.
type RedisQueue struct {
	rdb redisClient
	now func() time.Time
}

var _ repositories.RunQueue = (*RedisQueue)(nil)

func NewRedisQueue(rdb *redis.Client) *RedisQueue {
	return &RedisQueue{rdb: rdb, now: time.Now}
}

func (q *RedisQueue) Enqueue(ctx context.Context, req entities.RunRequest) error {
	serialized, err := SerializeJob(Job{Type: JobRunPipeline, Run: req, EnqueuedAt: q.now().UTC()})
	if err != nil {
		return err
	}
	if err := q.rdb.LPush(ctx, JobQueueKey, serialized).Err(); err != nil {
		return fmt.Errorf("enqueue run %s: %w", req.RunID, err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*entities.RunRequest, error) {
	val, err := q.rdb.BRPop(ctx, timeout, JobQueueKey).Result()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("BRPop failed: %w", err)
	}
	if len(val) != 2 {
		return nil, fmt.Errorf("BRPop returned %d values", len(val))
	}

	job, err := DeserializeJob(val[1])
	if err != nil {
		return nil, err
	}
	if job.Type != JobRunPipeline {
		return nil, fmt.Errorf("unknown job type: %s", job.Type)
	}
	return &job.Run, nil
}

func (q *RedisQueue) SetStatus(ctx context.Context, status entities.RunStatus) error {
	if status.UpdatedAt.IsZero() {
		status.UpdatedAt = q.now().UTC()
	}
	key := runStatusKey(status.RunID)
	err := q.rdb.HSet(ctx, key,
		"status", status.Status,
		"stage", status.Stage,
		"message", status.Message,
		"updated_at", status.UpdatedAt.Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return fmt.Errorf("set status for run %s: %w", status.RunID, err)
	}
	if err := q.rdb.Expire(ctx, key, StatusTTL).Err(); err != nil {
		return fmt.Errorf("expire status for run %s: %w", status.RunID, err)
	}
	return nil
}

func (q *RedisQueue) Status(ctx context.Context, runID string) (*entities.RunStatus, error) {
	fields, err := q.rdb.HGetAll(ctx, runStatusKey(runID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get status for run %s: %w", runID, err)
	}
	if len(fields) == 0 {
		return nil, errors.ErrNotFound("run " + runID + " not found")
	}

	status := &entities.RunStatus{
		RunID:   runID,
		Status:  fields["status"],
		Stage:   fields["stage"],
		Message: fields["message"],
	}
	if ts, err := time.Parse(time.RFC3339Nano, fields["updated_at"]); err == nil {
		status.UpdatedAt = ts
	}
	return status, nil
}

func (q *RedisQueue) PublishResult(ctx context.Context, result entities.RunResult) error {
	serialized, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}
	if err := q.rdb.LPush(ctx, ProcessedQueueKey, serialized).Err(); err != nil {
		return fmt.Errorf("publish result for run %s: %w", result.RunID, err)
	}
	return nil
}

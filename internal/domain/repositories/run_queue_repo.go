package repositories

import (
	"context"
	"time"

	"audio-translator/internal/domain/entities"
)

// RunQueue hands pipeline runs from the API to workers and tracks their status.
type RunQueue interface {
	Enqueue(ctx context.Context, req entities.RunRequest) error
	// Dequeue blocks up to timeout; it returns nil, nil when nothing arrived.
	Dequeue(ctx context.Context, timeout time.Duration) (*entities.RunRequest, error)
	SetStatus(ctx context.Context, status entities.RunStatus) error
	Status(ctx context.Context, runID string) (*entities.RunStatus, error)
	PublishResult(ctx context.Context, result entities.RunResult) error
}

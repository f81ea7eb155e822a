package queue

import (
	"context"
	"time"

	"audio-translator/internal/domain/entities"
	"audio-translator/internal/domain/repositories"

	"go.uber.org/zap"
)

// Handler processes one dequeued run. Failures are the handler's to record.
type Handler func(ctx context.Context, req entities.RunRequest)

// Worker drains the run queue one run at a time until its context ends.
type Worker struct {
	ID          int
	Queue       repositories.RunQueue
	Handle      Handler
	PollTimeout time.Duration // how long one BRPOP blocks
	RetryDelay  time.Duration // pause after a queue error
	Logger      *zap.Logger
}

func (w *Worker) Run(ctx context.Context) error {
	log := w.Logger.With(zap.Int("worker", w.ID))
	log.Info("worker started")
	for {
		if ctx.Err() != nil {
			log.Info("worker stopping due to context cancellation")
			return nil
		}

		req, err := w.Queue.Dequeue(ctx, w.pollTimeout())
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.Warn("dequeue failed", zap.Error(err))
			w.pause(ctx)
			continue
		}
		if req == nil {
			continue
		}

		log.Info("processing run", zap.String("run_id", req.RunID), zap.String("filename", req.Filename))
		w.Handle(ctx, *req)
	}
}

func (w *Worker) pollTimeout() time.Duration {
	if w.PollTimeout > 0 {
		return w.PollTimeout
	}
	return 5 * time.Second
}

func (w *Worker) pause(ctx context.Context) {
	delay := w.RetryDelay
	if delay <= 0 {
		delay = time.Second
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

package usecases

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"audio-translator/internal/domain/entities"
	"audio-translator/internal/domain/repositories"
	consts "audio-translator/pkg/constants"
	"audio-translator/pkg/errors"

	"go.uber.org/zap"
)

// Runner executes one pipeline run, reporting stage changes to hook.
type Runner interface {
	RunWithHook(ctx context.Context, req entities.RunRequest, hook StageHook) (*entities.RunResult, error)
}

// RunProcessor executes queued runs and records their progress.
type RunProcessor struct {
	runner Runner
	queue  repositories.RunQueue
	logger *zap.Logger
	now    func() time.Time
}

func NewRunProcessor(runner Runner, queue repositories.RunQueue, logger *zap.Logger) *RunProcessor {
	return &RunProcessor{
		runner: runner,
		queue:  queue,
		logger: logger,
		now:    time.Now,
	}
}

// Process runs req to completion, then publishes its result to processed_queue.
// Status write failures are logged and never abort the run.
func (p *RunProcessor) Process(ctx context.Context, req entities.RunRequest) {
	log := p.logger.With(zap.String("run_id", req.RunID))
	p.setStatus(ctx, log, entities.RunStatus{RunID: req.RunID, Status: consts.StatusInProgress})

	result, err := p.runner.RunWithHook(ctx, req, func(ctx context.Context, runID, stage string) {
		p.setStatus(ctx, log, entities.RunStatus{RunID: runID, Status: consts.StatusInProgress, Stage: stage})
	})
	if result == nil {
		result = &entities.RunResult{RunID: req.RunID, StartedAt: p.now()}
	}

	final := entities.RunStatus{RunID: req.RunID, Status: consts.StatusCompleted}
	if err != nil {
		final.Status = consts.StatusFailed
		final.Message = err.Error()
		var pe *errors.PipelineError
		if stderrors.As(err, &pe) {
			final.Stage = pe.Stage
		}
		if result.Error == "" {
			result.Error = err.Error()
			result.FinishedAt = p.now()
		}
	} else {
		final.Message = strings.Join(result.ArtifactURIs(), ", ")
	}
	p.setStatus(ctx, log, final)

	// the run's own context may be cancelled by now; publishing must still happen
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.queue.PublishResult(pubCtx, *result); err != nil {
		log.Error("publish result failed", zap.Error(err))
	}
}

func (p *RunProcessor) setStatus(ctx context.Context, log *zap.Logger, status entities.RunStatus) {
	status.UpdatedAt = p.now().UTC()
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	if err := p.queue.SetStatus(ctx, status); err != nil {
		log.Warn("status update failed", zap.String("status", status.Status), zap.Error(err))
	}
}

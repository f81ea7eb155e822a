package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"audio-translator/internal/domain/entities"
	"audio-translator/internal/domain/repositories"
	"audio-translator/pkg/errors"

	"go.uber.org/zap"
)

// PollPolicy bounds how a job is waited on. Backoff <= 1 keeps a fixed
// interval; MaxAttempts 0 bounds by MaxWait only. MaxWait is always enforced
// and falls back to the default when unset.
type PollPolicy struct {
	Interval    time.Duration
	Backoff     float64
	MaxInterval time.Duration
	MaxWait     time.Duration
	MaxAttempts int
}

func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		Interval:    5 * time.Second,
		Backoff:     1,
		MaxInterval: time.Minute,
		MaxWait:     30 * time.Minute,
	}
}

// JobPoller waits for a submitted transcription job to reach a terminal status.
type JobPoller struct {
	service repositories.TranscriptionService
	policy  PollPolicy
	logger  *zap.Logger
	sleep   func(ctx context.Context, d time.Duration) error
	now     func() time.Time
}

func NewJobPoller(service repositories.TranscriptionService, policy PollPolicy, logger *zap.Logger) *JobPoller {
	if policy.Interval <= 0 {
		policy.Interval = DefaultPollPolicy().Interval
	}
	if policy.MaxWait <= 0 {
		policy.MaxWait = DefaultPollPolicy().MaxWait
	}
	return &JobPoller{
		service: service,
		policy:  policy,
		logger:  logger,
		sleep:   sleepContext,
		now:     time.Now,
	}
}

// Wait checks the job immediately, then keeps checking until COMPLETED or
// FAILED. It returns the completed job, ErrJobFailed, ErrJobTimedOut, or the
// first non-transient status error.
func (p *JobPoller) Wait(ctx context.Context, jobName string) (entities.Job, error) {
	start := p.now()
	interval := p.policy.Interval
	attempts := 0

	for {
		attempts++
		job, err := p.service.Status(ctx, jobName)
		switch {
		case err == nil:
			switch job.Status {
			case entities.JobStatusCompleted:
				p.logger.Info("transcription job completed",
					zap.String("job", jobName),
					zap.Int("checks", attempts),
					zap.Duration("waited", p.now().Sub(start)))
				return job, nil
			case entities.JobStatusFailed:
				return job, errors.ErrJobFailed(jobName, job.FailureReason)
			default:
				p.logger.Debug("transcription job pending", zap.String("job", jobName), zap.String("status", string(job.Status)))
			}
		case stderrors.Is(err, errors.KindTransientNetwork):
			p.logger.Warn("status check failed, will retry", zap.String("job", jobName), zap.Error(err))
		default:
			return entities.Job{}, err
		}

		if p.policy.MaxAttempts > 0 && attempts >= p.policy.MaxAttempts {
			return entities.Job{}, errors.ErrJobTimedOut(jobName, p.now().Sub(start), attempts)
		}
		elapsed := p.now().Sub(start)
		remaining := p.policy.MaxWait - elapsed
		if remaining <= 0 {
			return entities.Job{}, errors.ErrJobTimedOut(jobName, elapsed, attempts)
		}

		wait := interval
		if remaining < wait {
			wait = remaining
		}
		if err := p.sleep(ctx, wait); err != nil {
			return entities.Job{}, err
		}
		interval = p.next(interval)
	}
}

func (p *JobPoller) next(interval time.Duration) time.Duration {
	if p.policy.Backoff <= 1 {
		return interval
	}
	grown := time.Duration(float64(interval) * p.policy.Backoff)
	if p.policy.MaxInterval > 0 && grown > p.policy.MaxInterval {
		return p.policy.MaxInterval
	}
	return grown
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

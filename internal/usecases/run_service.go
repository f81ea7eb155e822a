package usecases

import (
	"context"
	"time"

	"audio-translator/internal/domain/dto"
	"audio-translator/internal/domain/entities"
	"audio-translator/internal/domain/mapper"
	"audio-translator/internal/domain/repositories"
	"audio-translator/internal/pkg/config"
	consts "audio-translator/pkg/constants"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunService queues pipeline runs for workers and reports their status.
type RunService interface {
	SubmitRun(ctx context.Context, req *dto.CreateRunRequestDTO) (*dto.CreateRunResponse, error)
	GetRunStatus(ctx context.Context, runID string) (*dto.RunStatusResponse, error)
}

type runService struct { //* only queues runs, workers execute them
	queue  repositories.RunQueue
	logger *zap.Logger
	newID  func() string
}

func NewRunService(queue repositories.RunQueue, logger *zap.Logger) RunService {
	return &runService{
		queue:  queue,
		logger: logger,
		newID:  uuid.NewString,
	}
}

func (s *runService) SubmitRun(ctx context.Context, req *dto.CreateRunRequestDTO) (*dto.CreateRunResponse, error) {
	runID := s.newID()
	run := mapper.ToRunRequest(runID, req)
	if err := config.ValidateRun(run); err != nil {
		return nil, err
	}

	status := entities.RunStatus{RunID: runID, Status: consts.StatusQueued, UpdatedAt: time.Now().UTC()}
	if err := s.queue.SetStatus(ctx, status); err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, run); err != nil {
		return nil, err
	}

	s.logger.Info("run queued", zap.String("run_id", runID), zap.String("filename", run.Filename))
	return &dto.CreateRunResponse{RunID: runID, Status: consts.StatusQueued}, nil
}

func (s *runService) GetRunStatus(ctx context.Context, runID string) (*dto.RunStatusResponse, error) {
	status, err := s.queue.Status(ctx, runID)
	if err != nil {
		return nil, err
	}
	return mapper.ToRunStatusResponse(status), nil
}

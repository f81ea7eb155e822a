package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"audio-translator/internal/domain/entities"
)

type JobType string

const (
	JobRunPipeline JobType = "run_pipeline"
)

const (
	JobQueueKey       = "job_queue"
	ProcessedQueueKey = "processed_queue"
	runStatusPrefix   = "run:"
)

// Job is the envelope pushed onto job_queue.
type Job struct {
	Type       JobType             `json:"type"`
	Run        entities.RunRequest `json:"run"`
	EnqueuedAt time.Time           `json:"enqueued_at"`
}

func DeserializeJob(data string) (*Job, error) {
	var job Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("failed to deserialize job: %w", err)
	}
	return &job, nil
}

func SerializeJob(job Job) (string, error) {
	bytes, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to serialize job: %w", err)
	}
	return string(bytes), nil
}

func runStatusKey(runID string) string {
	return runStatusPrefix + runID
}

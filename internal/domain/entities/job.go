package entities

import "time"

// JobStatus is the lifecycle state of an asynchronous transcription job.
type JobStatus string

const (
	JobStatusSubmitted  JobStatus = "SUBMITTED"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// LocatorKind selects how a finished job's result document is retrieved.
type LocatorKind string

const (
	LocatorStorage LocatorKind = "storage"
	LocatorURI     LocatorKind = "uri"
)

// ResultLocator points at a job's result document, either as an object in
// storage or as a fetchable URI.
type ResultLocator struct {
	Kind      LocatorKind `json:"kind"`
	Namespace string      `json:"namespace,omitempty"`
	Key       string      `json:"key,omitempty"`
	URI       string      `json:"uri,omitempty"`
}

// Job is a transcription request tracked by name until it reaches a terminal status.
type Job struct {
	Name          string        `json:"name"`
	Status        JobStatus     `json:"status"`
	Result        ResultLocator `json:"result"`
	FailureReason string        `json:"failure_reason,omitempty"`
	SubmittedAt   time.Time     `json:"submitted_at"`
}

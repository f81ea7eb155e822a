package constants

// Run statuses recorded for queued pipeline runs.
const (
	StatusQueued     = "queued"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusOK         = "ok"
)

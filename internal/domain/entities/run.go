package entities

import "time"

// RunRequest holds the per-run inputs of the pipeline.
type RunRequest struct {
	RunID          string `json:"run_id"`
	Filename       string `json:"filename"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	VoiceID        string `json:"voice_id"`
	SkipIngest     bool   `json:"skip_ingest,omitempty"`
}

// RunResult describes what a pipeline run produced.
type RunResult struct {
	RunID       string        `json:"run_id"`
	JobName     string        `json:"job_name,omitempty"`
	Artifacts   []ArtifactRef `json:"artifacts"`
	Transcript  *Transcript   `json:"transcript,omitempty"`
	Translation *Translation  `json:"translation,omitempty"`
	Error       string        `json:"error,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
}

// ArtifactURIs renders the produced artifacts for logs and errors.
func (r *RunResult) ArtifactURIs() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Artifacts))
	for _, a := range r.Artifacts {
		out = append(out, a.String())
	}
	return out
}

// RunStatus is the externally visible progress of a queued run.
type RunStatus struct {
	RunID     string    `json:"run_id"`
	Status    string    `json:"status"`
	Stage     string    `json:"stage,omitempty"`
	Message   string    `json:"message,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

const (
	CodeConfiguration    = "configuration_error"
	CodeJobFailed        = "job_failed"
	CodeJobTimedOut      = "job_timed_out"
	CodeMalformedResult  = "malformed_result"
	CodeTransientNetwork = "transient_network"
	CodeStageFailed      = "stage_failed"
	CodeNotFound         = "not_found"
)

// PipelineError is the single error type surfaced by the pipeline and its adapters.
// Stage and Produced are filled in by the driver when the error crosses a stage boundary.
type PipelineError struct {
	Code     string
	Stage    string
	Message  string
	Err      error
	Produced []string
}

func (e *PipelineError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Stage != "" {
		msg = e.Stage + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches on Code so callers can compare against the Kind* sentinels.
func (e *PipelineError) Is(target error) bool {
	t, ok := target.(*PipelineError)
	if !ok || e == nil {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	KindConfiguration    = &PipelineError{Code: CodeConfiguration}
	KindJobFailed        = &PipelineError{Code: CodeJobFailed}
	KindJobTimedOut      = &PipelineError{Code: CodeJobTimedOut}
	KindMalformedResult  = &PipelineError{Code: CodeMalformedResult}
	KindTransientNetwork = &PipelineError{Code: CodeTransientNetwork}
	KindNotFound         = &PipelineError{Code: CodeNotFound}
)

var (
	ErrConfiguration = func(message string) *PipelineError {
		return &PipelineError{Code: CodeConfiguration, Message: message}
	}
	ErrJobFailed = func(jobName, reason string) *PipelineError {
		e := &PipelineError{Code: CodeJobFailed, Message: "job failed"}
		if reason != "" {
			e.Err = fmt.Errorf("job %s: %s", jobName, reason)
		}
		return e
	}
	ErrJobTimedOut = func(jobName string, waited time.Duration, attempts int) *PipelineError {
		return &PipelineError{
			Code:    CodeJobTimedOut,
			Message: fmt.Sprintf("job %s not finished after %s (%d status checks)", jobName, waited.Round(time.Second), attempts),
		}
	}
	ErrMalformedResult = func(message string, err error) *PipelineError {
		return &PipelineError{Code: CodeMalformedResult, Message: message, Err: err}
	}
	ErrTransientNetwork = func(op string, err error) *PipelineError {
		return &PipelineError{Code: CodeTransientNetwork, Message: op, Err: err}
	}
	ErrStage = func(message string, err error) *PipelineError {
		return &PipelineError{Code: CodeStageFailed, Message: message, Err: err}
	}
	ErrNotFound = func(message string) *PipelineError {
		return &PipelineError{Code: CodeNotFound, Message: message}
	}
)

// WithStage attaches stage context to err. A PipelineError keeps its code; anything
// else becomes a stage_failed error wrapping the original.
func WithStage(err error, stage string, produced []string) *PipelineError {
	if err == nil {
		return nil
	}
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		out := *pe
		out.Stage = stage
		out.Produced = append([]string(nil), produced...)
		return &out
	}
	return &PipelineError{
		Code:     CodeStageFailed,
		Stage:    stage,
		Message:  "stage failed",
		Err:      err,
		Produced: append([]string(nil), produced...),
	}
}

// CodeOf returns the code of the first PipelineError in err's chain, or "".
func CodeOf(err error) string {
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

package domain

import (
	"errors"
	"fmt"
)

// ErrorKind tags a pipeline failure so callers can branch on the failure
// class without inspecting message text.
type ErrorKind string

const (
	InvalidInput          ErrorKind = "invalid_input"
	PreconditionFailed    ErrorKind = "precondition_failed"
	ExtractionFailed      ErrorKind = "extraction_failed"
	TranscriptionFailed   ErrorKind = "transcription_failed"
	GenerationFailed      ErrorKind = "generation_failed"
	SynthesisFailed       ErrorKind = "synthesis_failed"
	ResourceCleanupFailed ErrorKind = "resource_cleanup_failed"
)

// PipelineError identifies the failing stage and wraps the proximate cause.
type PipelineError struct {
	Kind  ErrorKind
	Stage string
	Cause error
}

func NewPipelineError(kind ErrorKind, stage string, cause error) *PipelineError {
	return &PipelineError{Kind: kind, Stage: stage, Cause: cause}
}

func (e *PipelineError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("stage %s: %s", e.Stage, e.Kind)
	}
	return fmt.Sprintf("stage %s: %s: %v", e.Stage, e.Kind, e.Cause)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// KindOf extracts the ErrorKind from err, or "" when err does not carry one.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// FailingStage extracts the stage name from err, or "" when unknown.
func FailingStage(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Stage
	}
	return ""
}

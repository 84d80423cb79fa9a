package inbound

import (
	"context"
	"speech-coach-pipeline/domain"
)

// PipelineRunnerPort runs the full coaching pipeline for one source video.
// On failure the returned error identifies the failing stage and kind
// (domain.PipelineError); the returned state holds whatever fields were
// written before the abort.
type PipelineRunnerPort interface {
	Run(ctx context.Context, sourceVideoRef string) (domain.RunState, error)
}

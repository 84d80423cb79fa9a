package inbound

import (
	"context"
	"speech-coach-pipeline/domain"
)

// StagePort is one unit of work in the pipeline. Execute reads the fields it
// depends on from state and returns an augmented copy with exactly one new
// field written. A stage must clean up any local scratch artifact it created
// before returning, on success and failure alike.
type StagePort interface {
	Name() string
	Execute(ctx context.Context, state domain.RunState) (domain.RunState, error)
}

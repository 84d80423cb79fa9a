package services

import (
	"context"
	"errors"
	"fmt"
	"speech-coach-pipeline/application/ports/inbound"
	"speech-coach-pipeline/application/ports/outbound"
	"speech-coach-pipeline/domain"
	"strings"
)

type pipelineSequencer struct {
	logger outbound.LoggerPort
	stages []inbound.StagePort
}

// NewPipelineSequencer builds the runner for a fixed, ordered list of
// stages. The sequencer is pure sequencing logic: it threads RunState
// through the stages, stops on the first failure and never retries.
func NewPipelineSequencer(logger outbound.LoggerPort, stages ...inbound.StagePort) inbound.PipelineRunnerPort {
	return &pipelineSequencer{
		logger: logger,
		stages: stages,
	}
}

func (s *pipelineSequencer) Run(ctx context.Context, sourceVideoRef string) (domain.RunState, error) {
	if strings.TrimSpace(sourceVideoRef) == "" {
		return domain.RunState{}, domain.NewPipelineError(domain.InvalidInput, "sequencer",
			errors.New("source video reference is empty"))
	}

	state := domain.NewRunState(sourceVideoRef)

	for _, stage := range s.stages {
		// Cancellation is honored between stages only; a running stage is
		// never interrupted mid-flight.
		if err := ctx.Err(); err != nil {
			return state, fmt.Errorf("run cancelled before stage %s: %w", stage.Name(), err)
		}

		s.logger.InfoWithFields("Starting pipeline stage", map[string]interface{}{
			"stage": stage.Name(),
		})

		next, err := stage.Execute(ctx, state)
		if err != nil {
			s.logger.ErrorWithFields(err, "Pipeline stage failed", map[string]interface{}{
				"stage": stage.Name(),
				"kind":  string(domain.KindOf(err)),
			})
			var pe *domain.PipelineError
			if !errors.As(err, &pe) {
				err = fmt.Errorf("stage %s: %w", stage.Name(), err)
			}
			return state, err
		}
		state = next
	}

	return state, nil
}

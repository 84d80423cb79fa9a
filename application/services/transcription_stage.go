package services

import (
	"context"
	"errors"
	"fmt"
	"speech-coach-pipeline/application/ports/inbound"
	"speech-coach-pipeline/application/ports/outbound"
	"speech-coach-pipeline/domain"
	"strings"
	"time"
)

const TranscriptionStageName = "transcription"

type transcriptionStage struct {
	logger      outbound.LoggerPort
	transcriber outbound.TranscriberPort
	waitTimeout time.Duration
}

// NewTranscriptionStage builds the stage that submits the extracted audio to
// the speech engine and waits, bounded by waitTimeout, for the long-running
// recognition to finish.
func NewTranscriptionStage(logger outbound.LoggerPort, transcriber outbound.TranscriberPort,
	waitTimeout time.Duration) inbound.StagePort {
	return &transcriptionStage{
		logger:      logger,
		transcriber: transcriber,
		waitTimeout: waitTimeout,
	}
}

func (s *transcriptionStage) Name() string {
	return TranscriptionStageName
}

func (s *transcriptionStage) Execute(ctx context.Context, state domain.RunState) (domain.RunState, error) {
	audioRef := state.ExtractedAudioRef()
	if audioRef == "" {
		return state, domain.NewPipelineError(domain.PreconditionFailed, s.Name(),
			errors.New("extracted audio reference is absent"))
	}

	handle, err := s.transcriber.Submit(ctx, audioRef)
	if err != nil {
		return state, domain.NewPipelineError(domain.TranscriptionFailed, s.Name(),
			fmt.Errorf("submit recognition: %w", err))
	}

	segments, err := s.transcriber.Await(ctx, handle, s.waitTimeout)
	if err != nil {
		return state, domain.NewPipelineError(domain.TranscriptionFailed, s.Name(),
			fmt.Errorf("await recognition %s: %w", handle.Name, err))
	}

	// Zero segments is legitimate silence, not an engine failure; the
	// downstream stage rejects an empty transcript before any generation
	// call is made.
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		parts = append(parts, segment.Text)
	}
	transcript := strings.Join(parts, " ")

	s.logger.InfoWithFields("Transcription complete", map[string]interface{}{
		"segments":          len(segments),
		"transcript_length": len(transcript),
	})

	next, err := state.WithTranscript(transcript)
	if err != nil {
		return state, domain.NewPipelineError(domain.PreconditionFailed, s.Name(), err)
	}
	return next, nil
}

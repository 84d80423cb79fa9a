package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"speech-coach-pipeline/application/ports/inbound"
	"speech-coach-pipeline/application/ports/outbound"
	"speech-coach-pipeline/domain"
	"strings"

	"github.com/google/uuid"
)

const FeedbackSynthesisStageName = "feedback_synthesis"

type feedbackSynthesisStage struct {
	logger      outbound.LoggerPort
	synthesizer outbound.SpeechSynthesizerPort
	blobStore   outbound.BlobStorePort
	ledger      outbound.ArtifactLedgerPort
	scratchDir  string
}

// NewFeedbackSynthesisStage builds the terminal stage that speaks the
// feedback text and uploads the resulting audio.
func NewFeedbackSynthesisStage(logger outbound.LoggerPort, synthesizer outbound.SpeechSynthesizerPort,
	blobStore outbound.BlobStorePort, ledger outbound.ArtifactLedgerPort, scratchDir string) inbound.StagePort {
	return &feedbackSynthesisStage{
		logger:      logger,
		synthesizer: synthesizer,
		blobStore:   blobStore,
		ledger:      ledger,
		scratchDir:  scratchDir,
	}
}

func (s *feedbackSynthesisStage) Name() string {
	return FeedbackSynthesisStageName
}

func (s *feedbackSynthesisStage) Execute(ctx context.Context, state domain.RunState) (domain.RunState, error) {
	feedbackText := state.FeedbackText()
	if strings.TrimSpace(feedbackText) == "" {
		return state, domain.NewPipelineError(domain.PreconditionFailed, s.Name(),
			errors.New("feedback text is absent or empty"))
	}

	audio, err := s.synthesizer.Synthesize(ctx, sanitizeForSpeech(feedbackText))
	if err != nil {
		return state, domain.NewPipelineError(domain.SynthesisFailed, s.Name(),
			fmt.Errorf("synthesize feedback audio: %w", err))
	}

	uniqueID := uuid.NewString()
	localAudioPath := filepath.Join(s.scratchDir, uniqueID+"_feedback_audio.mp3")
	defer removeScratchFile(s.logger, localAudioPath)

	if err := os.WriteFile(localAudioPath, audio, 0o644); err != nil {
		return state, domain.NewPipelineError(domain.SynthesisFailed, s.Name(),
			fmt.Errorf("write feedback audio scratch file: %w", err))
	}

	audioRef, err := s.blobStore.Put(ctx, localAudioPath, "feedback_audio/"+uniqueID+".mp3")
	if err != nil {
		return state, domain.NewPipelineError(domain.SynthesisFailed, s.Name(),
			fmt.Errorf("upload feedback audio: %w", err))
	}
	recordArtifact(ctx, s.logger, s.ledger, s.Name(), audioRef)

	s.logger.InfoWithFields("Feedback audio uploaded", map[string]interface{}{
		"audio_ref": audioRef,
	})

	next, err := state.WithFeedbackAudioRef(audioRef)
	if err != nil {
		return state, domain.NewPipelineError(domain.PreconditionFailed, s.Name(), err)
	}
	return next, nil
}

// sanitizeForSpeech strips markdown bold markers so the synthesis engine
// does not read literal asterisks aloud. Idempotent: already-clean text is
// returned unchanged.
func sanitizeForSpeech(text string) string {
	return strings.ReplaceAll(text, "**", "")
}

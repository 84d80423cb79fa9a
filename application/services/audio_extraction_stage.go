package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"speech-coach-pipeline/application/ports/inbound"
	"speech-coach-pipeline/application/ports/outbound"
	"speech-coach-pipeline/domain"

	"github.com/google/uuid"
)

const AudioExtractionStageName = "audio_extraction"

type audioExtractionStage struct {
	logger     outbound.LoggerPort
	blobStore  outbound.BlobStorePort
	extractor  outbound.AudioExtractorPort
	ledger     outbound.ArtifactLedgerPort
	scratchDir string
}

// NewAudioExtractionStage builds the stage that downloads the source video,
// decodes its audio track to 16kHz mono PCM WAV and uploads the result.
func NewAudioExtractionStage(logger outbound.LoggerPort, blobStore outbound.BlobStorePort,
	extractor outbound.AudioExtractorPort, ledger outbound.ArtifactLedgerPort, scratchDir string) inbound.StagePort {
	return &audioExtractionStage{
		logger:     logger,
		blobStore:  blobStore,
		extractor:  extractor,
		ledger:     ledger,
		scratchDir: scratchDir,
	}
}

func (s *audioExtractionStage) Name() string {
	return AudioExtractionStageName
}

func (s *audioExtractionStage) Execute(ctx context.Context, state domain.RunState) (domain.RunState, error) {
	videoRef := state.SourceVideoRef()
	if videoRef == "" {
		return state, domain.NewPipelineError(domain.InvalidInput, s.Name(),
			errors.New("source video reference is empty"))
	}

	uniqueID := uuid.NewString()
	localVideoPath := filepath.Join(s.scratchDir, uniqueID+"_source_video.mp4")
	localAudioPath := filepath.Join(s.scratchDir, uniqueID+"_extracted_audio.wav")
	defer removeScratchFile(s.logger, localVideoPath)
	defer removeScratchFile(s.logger, localAudioPath)

	if err := s.blobStore.Get(ctx, videoRef, localVideoPath); err != nil {
		return state, domain.NewPipelineError(domain.ExtractionFailed, s.Name(),
			fmt.Errorf("download source video %s: %w", videoRef, err))
	}

	if err := s.extractor.ExtractAudio(ctx, localVideoPath, localAudioPath); err != nil {
		return state, domain.NewPipelineError(domain.ExtractionFailed, s.Name(),
			fmt.Errorf("extract audio track: %w", err))
	}

	audioRef, err := s.blobStore.Put(ctx, localAudioPath, "extracted_audio/"+uniqueID+".wav")
	if err != nil {
		return state, domain.NewPipelineError(domain.ExtractionFailed, s.Name(),
			fmt.Errorf("upload extracted audio: %w", err))
	}
	recordArtifact(ctx, s.logger, s.ledger, s.Name(), audioRef)

	s.logger.InfoWithFields("Extracted audio uploaded", map[string]interface{}{
		"audio_ref": audioRef,
	})

	next, err := state.WithExtractedAudioRef(audioRef)
	if err != nil {
		return state, domain.NewPipelineError(domain.PreconditionFailed, s.Name(), err)
	}
	return next, nil
}

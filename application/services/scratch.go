package services

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"speech-coach-pipeline/application/ports/outbound"
	"speech-coach-pipeline/domain"
	"time"
)

// removeScratchFile deletes a stage-local scratch file. Cleanup failures are
// surfaced in the log with the ResourceCleanupFailed kind but never override
// the stage outcome.
func removeScratchFile(logger outbound.LoggerPort, path string) {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.ErrorWithFields(err, "Failed to remove scratch file", map[string]interface{}{
			"path": path,
			"kind": string(domain.ResourceCleanupFailed),
		})
	}
}

// recordArtifact notes an uploaded artifact in the ledger. Best-effort: a
// ledger failure is logged and swallowed.
func recordArtifact(ctx context.Context, logger outbound.LoggerPort, ledger outbound.ArtifactLedgerPort, stage string, ref string) {
	if ledger == nil {
		return
	}
	err := ledger.Record(ctx, outbound.ArtifactRecord{
		Stage:      stage,
		Ref:        ref,
		UploadedAt: time.Now(),
	})
	if err != nil {
		logger.WarnWithFields("Failed to record uploaded artifact", map[string]interface{}{
			"stage": stage,
			"ref":   ref,
			"error": err.Error(),
		})
	}
}

package services

import (
	"context"
	"speech-coach-pipeline/domain"
	"strings"
	"testing"
)

func TestAudioExtractionStage_Success(t *testing.T) {
	scratchDir := t.TempDir()
	store := newFakeBlobStore()
	extractor := &fakeExtractor{}
	ledger := &fakeLedger{}
	stage := NewAudioExtractionStage(nopLogger{}, store, extractor, ledger, scratchDir)

	state, err := stage.Execute(context.Background(), domain.NewRunState("s3://coach-bucket/uploads/talk.mp4"))
	if err != nil {
		t.Fatal("Execute failed:", err)
	}

	ref := state.ExtractedAudioRef()
	if !strings.HasPrefix(ref, "s3://coach-bucket/extracted_audio/") || !strings.HasSuffix(ref, ".wav") {
		t.Fatalf("unexpected extracted audio ref: %q", ref)
	}
	if extractor.calls != 1 {
		t.Fatalf("extractor called %d times", extractor.calls)
	}
	if len(ledger.records) != 1 || ledger.records[0].Ref != ref {
		t.Fatalf("upload not recorded in ledger: %+v", ledger.records)
	}
	if leftovers := scratchLeftovers(scratchDir); len(leftovers) != 0 {
		t.Fatalf("scratch files leaked: %v", leftovers)
	}
}

func TestAudioExtractionStage_EmptySourceRef(t *testing.T) {
	stage := NewAudioExtractionStage(nopLogger{}, newFakeBlobStore(), &fakeExtractor{}, nil, t.TempDir())

	_, err := stage.Execute(context.Background(), domain.NewRunState(""))
	if domain.KindOf(err) != domain.InvalidInput {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestAudioExtractionStage_DownloadFailureCleansScratch(t *testing.T) {
	scratchDir := t.TempDir()
	store := newFakeBlobStore()
	store.getErr = errBoom
	stage := NewAudioExtractionStage(nopLogger{}, store, &fakeExtractor{}, nil, scratchDir)

	state, err := stage.Execute(context.Background(), domain.NewRunState("s3://coach-bucket/uploads/talk.mp4"))
	if domain.KindOf(err) != domain.ExtractionFailed {
		t.Fatalf("expected ExtractionFailed, got %v", err)
	}
	if state.ExtractedAudioRef() != "" {
		t.Fatal("no partial state may be retained on failure")
	}
	if leftovers := scratchLeftovers(scratchDir); len(leftovers) != 0 {
		t.Fatalf("scratch files leaked: %v", leftovers)
	}
}

func TestAudioExtractionStage_DecodeFailureCleansScratch(t *testing.T) {
	scratchDir := t.TempDir()
	extractor := &fakeExtractor{err: errBoom}
	stage := NewAudioExtractionStage(nopLogger{}, newFakeBlobStore(), extractor, nil, scratchDir)

	_, err := stage.Execute(context.Background(), domain.NewRunState("s3://coach-bucket/uploads/talk.mp4"))
	if domain.KindOf(err) != domain.ExtractionFailed {
		t.Fatalf("expected ExtractionFailed, got %v", err)
	}
	if leftovers := scratchLeftovers(scratchDir); len(leftovers) != 0 {
		t.Fatalf("scratch files leaked: %v", leftovers)
	}
}

func TestAudioExtractionStage_UploadFailure(t *testing.T) {
	scratchDir := t.TempDir()
	store := newFakeBlobStore()
	store.putErr = errBoom
	stage := NewAudioExtractionStage(nopLogger{}, store, &fakeExtractor{}, nil, scratchDir)

	_, err := stage.Execute(context.Background(), domain.NewRunState("s3://coach-bucket/uploads/talk.mp4"))
	if domain.KindOf(err) != domain.ExtractionFailed {
		t.Fatalf("expected ExtractionFailed, got %v", err)
	}
	if leftovers := scratchLeftovers(scratchDir); len(leftovers) != 0 {
		t.Fatalf("scratch files leaked: %v", leftovers)
	}
}

func TestAudioExtractionStage_UniqueKeysAcrossRuns(t *testing.T) {
	store := newFakeBlobStore()
	stage := NewAudioExtractionStage(nopLogger{}, store, &fakeExtractor{}, nil, t.TempDir())

	for i := 0; i < 5; i++ {
		if _, err := stage.Execute(context.Background(), domain.NewRunState("s3://coach-bucket/uploads/talk.mp4")); err != nil {
			t.Fatal("Execute failed:", err)
		}
	}

	seen := map[string]bool{}
	for _, key := range store.putKeys {
		if seen[key] {
			t.Fatalf("storage key collided across runs: %q", key)
		}
		seen[key] = true
	}
}

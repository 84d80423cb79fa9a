package services

import (
	"context"
	"speech-coach-pipeline/application/ports/outbound"
	"speech-coach-pipeline/domain"
	"testing"
	"time"
)

func transcribableState(t *testing.T) domain.RunState {
	t.Helper()
	state, err := domain.NewRunState("s3://b/video.mp4").WithExtractedAudioRef("s3://b/extracted_audio/x.wav")
	if err != nil {
		t.Fatal(err)
	}
	return state
}

func TestTranscriptionStage_JoinsSegmentsWithSingleSpace(t *testing.T) {
	transcriber := &fakeTranscriber{segments: []outbound.TranscriptSegment{
		{Text: "Good morning everyone."},
		{Text: "Today I want to talk about habits."},
	}}
	stage := NewTranscriptionStage(nopLogger{}, transcriber, 300*time.Second)

	state, err := stage.Execute(context.Background(), transcribableState(t))
	if err != nil {
		t.Fatal("Execute failed:", err)
	}

	want := "Good morning everyone. Today I want to talk about habits."
	if state.Transcript() != want {
		t.Fatalf("transcript = %q, want %q", state.Transcript(), want)
	}
	if transcriber.lastTimeout != 300*time.Second {
		t.Fatalf("await timeout = %s, want 300s", transcriber.lastTimeout)
	}
}

func TestTranscriptionStage_MissingAudioRef(t *testing.T) {
	transcriber := &fakeTranscriber{}
	stage := NewTranscriptionStage(nopLogger{}, transcriber, time.Second)

	_, err := stage.Execute(context.Background(), domain.NewRunState("s3://b/video.mp4"))
	if domain.KindOf(err) != domain.PreconditionFailed {
		t.Fatalf("expected PreconditionFailed, got %v", err)
	}
	if transcriber.submitCalls != 0 {
		t.Fatal("engine must not be called without an audio reference")
	}
}

func TestTranscriptionStage_SubmitFailure(t *testing.T) {
	transcriber := &fakeTranscriber{submitErr: errBoom}
	stage := NewTranscriptionStage(nopLogger{}, transcriber, time.Second)

	_, err := stage.Execute(context.Background(), transcribableState(t))
	if domain.KindOf(err) != domain.TranscriptionFailed {
		t.Fatalf("expected TranscriptionFailed, got %v", err)
	}
}

func TestTranscriptionStage_AwaitTimeout(t *testing.T) {
	transcriber := &fakeTranscriber{awaitErr: context.DeadlineExceeded}
	stage := NewTranscriptionStage(nopLogger{}, transcriber, time.Second)

	_, err := stage.Execute(context.Background(), transcribableState(t))
	if domain.KindOf(err) != domain.TranscriptionFailed {
		t.Fatalf("expected TranscriptionFailed, got %v", err)
	}
}

func TestTranscriptionStage_ZeroSegmentsYieldsEmptyTranscript(t *testing.T) {
	transcriber := &fakeTranscriber{}
	stage := NewTranscriptionStage(nopLogger{}, transcriber, time.Second)

	state, err := stage.Execute(context.Background(), transcribableState(t))
	if err != nil {
		t.Fatal("silence is not an engine failure:", err)
	}
	if !state.HasTranscript() || state.Transcript() != "" {
		t.Fatalf("expected empty transcript to be written, got %q (set=%v)", state.Transcript(), state.HasTranscript())
	}
}

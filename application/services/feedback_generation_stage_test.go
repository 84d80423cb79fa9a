package services

import (
	"context"
	"speech-coach-pipeline/domain"
	"strings"
	"testing"
)

func stateWithTranscript(t *testing.T, transcript string) domain.RunState {
	t.Helper()
	state, err := domain.NewRunState("s3://b/video.mp4").WithExtractedAudioRef("s3://b/a.wav")
	if err != nil {
		t.Fatal(err)
	}
	state, err = state.WithTranscript(transcript)
	if err != nil {
		t.Fatal(err)
	}
	return state
}

func TestFeedbackGenerationStage_Success(t *testing.T) {
	generator := &fakeGenerator{response: "**Strengths:** clear opening."}
	stage := NewFeedbackGenerationStage(nopLogger{}, generator)

	state, err := stage.Execute(context.Background(), stateWithTranscript(t, "Good morning everyone."))
	if err != nil {
		t.Fatal("Execute failed:", err)
	}
	if state.FeedbackText() != "**Strengths:** clear opening." {
		t.Fatalf("feedback text = %q", state.FeedbackText())
	}
	if generator.calls != 1 {
		t.Fatalf("engine invoked %d times, want exactly one call", generator.calls)
	}
	if !strings.Contains(generator.lastPrompt, "Good morning everyone.") {
		t.Fatal("prompt must embed the transcript")
	}
	if !strings.Contains(generator.lastPrompt, "public speaking coach") {
		t.Fatal("prompt must set the coaching role")
	}
	for _, section := range []string{"Strengths", "Areas for Improvement", "Overall Encouragement"} {
		if !strings.Contains(generator.lastPrompt, section) {
			t.Fatalf("prompt missing mandatory section %q", section)
		}
	}
}

func TestFeedbackGenerationStage_MissingTranscript(t *testing.T) {
	generator := &fakeGenerator{response: "feedback"}
	stage := NewFeedbackGenerationStage(nopLogger{}, generator)

	_, err := stage.Execute(context.Background(), domain.NewRunState("s3://b/video.mp4"))
	if domain.KindOf(err) != domain.PreconditionFailed {
		t.Fatalf("expected PreconditionFailed, got %v", err)
	}
	if generator.calls != 0 {
		t.Fatal("engine must not be called without a transcript")
	}
}

func TestFeedbackGenerationStage_EmptyTranscript(t *testing.T) {
	generator := &fakeGenerator{response: "feedback"}
	stage := NewFeedbackGenerationStage(nopLogger{}, generator)

	_, err := stage.Execute(context.Background(), stateWithTranscript(t, ""))
	if domain.KindOf(err) != domain.PreconditionFailed {
		t.Fatalf("expected PreconditionFailed, got %v", err)
	}
	if generator.calls != 0 {
		t.Fatal("engine must not be called for an empty transcript")
	}
}

func TestFeedbackGenerationStage_EngineFailure(t *testing.T) {
	stage := NewFeedbackGenerationStage(nopLogger{}, &fakeGenerator{err: errBoom})

	_, err := stage.Execute(context.Background(), stateWithTranscript(t, "hello"))
	if domain.KindOf(err) != domain.GenerationFailed {
		t.Fatalf("expected GenerationFailed, got %v", err)
	}
}

func TestFeedbackGenerationStage_EmptyResponse(t *testing.T) {
	stage := NewFeedbackGenerationStage(nopLogger{}, &fakeGenerator{response: "  \n"})

	_, err := stage.Execute(context.Background(), stateWithTranscript(t, "hello"))
	if domain.KindOf(err) != domain.GenerationFailed {
		t.Fatalf("expected GenerationFailed, got %v", err)
	}
}

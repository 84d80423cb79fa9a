package domain

import "fmt"

// RunState is the single object threaded through the pipeline. Every stage
// reads the fields it needs and appends exactly one new field; fields are
// write-once, enforced by the With* methods returning ErrFieldAlreadySet on
// a second write.
type RunState struct {
	sourceVideoRef    string
	extractedAudioRef string
	transcript        string
	transcriptSet     bool
	feedbackText      string
	feedbackAudioRef  string
}

var ErrFieldAlreadySet = fmt.Errorf("run state field already set")

func NewRunState(sourceVideoRef string) RunState {
	return RunState{sourceVideoRef: sourceVideoRef}
}

func (s RunState) SourceVideoRef() string {
	return s.sourceVideoRef
}

func (s RunState) ExtractedAudioRef() string {
	return s.extractedAudioRef
}

// Transcript returns the joined transcript text. An empty string is a legal
// transcript (silent recording); use HasTranscript to tell "not yet
// transcribed" apart from "transcribed as empty".
func (s RunState) Transcript() string {
	return s.transcript
}

func (s RunState) HasTranscript() bool {
	return s.transcriptSet
}

func (s RunState) FeedbackText() string {
	return s.feedbackText
}

func (s RunState) FeedbackAudioRef() string {
	return s.feedbackAudioRef
}

func (s RunState) WithExtractedAudioRef(ref string) (RunState, error) {
	if s.extractedAudioRef != "" {
		return s, fmt.Errorf("extractedAudioRef: %w", ErrFieldAlreadySet)
	}
	s.extractedAudioRef = ref
	return s, nil
}

func (s RunState) WithTranscript(transcript string) (RunState, error) {
	if s.transcriptSet {
		return s, fmt.Errorf("transcript: %w", ErrFieldAlreadySet)
	}
	s.transcript = transcript
	s.transcriptSet = true
	return s, nil
}

func (s RunState) WithFeedbackText(text string) (RunState, error) {
	if s.feedbackText != "" {
		return s, fmt.Errorf("feedbackText: %w", ErrFieldAlreadySet)
	}
	s.feedbackText = text
	return s, nil
}

func (s RunState) WithFeedbackAudioRef(ref string) (RunState, error) {
	if s.feedbackAudioRef != "" {
		return s, fmt.Errorf("feedbackAudioRef: %w", ErrFieldAlreadySet)
	}
	s.feedbackAudioRef = ref
	return s, nil
}

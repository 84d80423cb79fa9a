package outbound

import "context"

// SpeechSynthesizerPort is the text-to-speech collaborator. Synthesize
// returns the encoded audio bytes for text.
type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

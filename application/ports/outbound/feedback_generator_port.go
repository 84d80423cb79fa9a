package outbound

import "context"

// FeedbackGeneratorPort is the text-generation collaborator. Generate sends
// a single prompt and returns the engine's full textual response.
type FeedbackGeneratorPort interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"speech-coach-pipeline/application/ports/inbound"
	"speech-coach-pipeline/application/ports/outbound"
	"speech-coach-pipeline/domain"
	"strings"
)

const FeedbackGenerationStageName = "feedback_generation"

const coachingPromptFormat = "You are an expert public speaking coach. Your goal is to provide constructive, " +
	"actionable, and encouraging feedback on the following public speaking transcript.\n" +
	"The feedback should be suitable for audio delivery, so keep sentences clear and concise.\n\n" +
	"Focus on these three main sections:\n" +
	"1. **Strengths:** Identify 2-3 specific positive aspects of the speaker's delivery based on the transcript. " +
	"Examples: \"Your opening was engaging,\" \"You used clear and concise language,\" \"Your points flowed logically.\"\n" +
	"2. **Areas for Improvement:** Identify 2-3 specific, actionable suggestions for improvement. " +
	"Examples: \"Consider reducing filler words like 'um' or 'uh',\" \"Try varying your vocal pace to emphasize key points,\" " +
	"\"Ensure your conclusion clearly summarizes your main message.\"\n" +
	"3. **Overall Encouragement:** End with a brief, positive, and motivating statement.\n\n" +
	"The transcript of the speech is enclosed in triple backticks:\n" +
	"```\n%s\n```\n" +
	"Please provide your feedback in a natural, conversational, and supportive tone."

type feedbackGenerationStage struct {
	logger    outbound.LoggerPort
	generator outbound.FeedbackGeneratorPort
}

// NewFeedbackGenerationStage builds the stage that turns the transcript into
// coaching feedback text with a single generation-engine invocation.
func NewFeedbackGenerationStage(logger outbound.LoggerPort, generator outbound.FeedbackGeneratorPort) inbound.StagePort {
	return &feedbackGenerationStage{
		logger:    logger,
		generator: generator,
	}
}

func (s *feedbackGenerationStage) Name() string {
	return FeedbackGenerationStageName
}

func (s *feedbackGenerationStage) Execute(ctx context.Context, state domain.RunState) (domain.RunState, error) {
	if !state.HasTranscript() || strings.TrimSpace(state.Transcript()) == "" {
		return state, domain.NewPipelineError(domain.PreconditionFailed, s.Name(),
			errors.New("transcript is absent or empty"))
	}

	prompt := fmt.Sprintf(coachingPromptFormat, state.Transcript())

	feedback, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return state, domain.NewPipelineError(domain.GenerationFailed, s.Name(),
			fmt.Errorf("invoke generation engine: %w", err))
	}
	if strings.TrimSpace(feedback) == "" {
		return state, domain.NewPipelineError(domain.GenerationFailed, s.Name(),
			errors.New("generation engine returned an empty response"))
	}

	s.logger.InfoWithFields("Coaching feedback generated", map[string]interface{}{
		"feedback_length": len(feedback),
	})

	next, err := state.WithFeedbackText(feedback)
	if err != nil {
		return state, domain.NewPipelineError(domain.PreconditionFailed, s.Name(), err)
	}
	return next, nil
}

package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"speech-coach-pipeline/application/ports/outbound"
	"speech-coach-pipeline/config"
	"strings"

	"github.com/donovanhide/eventsource"
)

const maxStreamRetries = 3

var errStreamTruncated = errors.New("generation stream ended before completion")

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiChunkBody struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

type geminiFeedbackGenerator struct {
	logger           outbound.LoggerPort
	generationConfig *config.GenerationConfig
}

// NewGeminiFeedbackGenerator builds the text-generation adapter. The engine
// streams its response over SSE; the chunks of one invocation are
// accumulated into the full feedback text.
func NewGeminiFeedbackGenerator(generationConfig *config.GenerationConfig,
	logger outbound.LoggerPort) outbound.FeedbackGeneratorPort {
	return &geminiFeedbackGenerator{
		logger:           logger,
		generationConfig: generationConfig,
	}
}

func (g *geminiFeedbackGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req, err := g.createRequest(ctx, prompt)
	if err != nil {
		g.logger.Error(err, "Failed to create HTTP request for generation stream")
		return "", err
	}

	stream, err := eventsource.SubscribeWithRequest("", req)
	if err != nil {
		g.logger.Error(err, "Failed to subscribe to generation stream")
		return "", err
	}
	// The stream reconnects on its own retry timer until closed; without
	// this every run would keep re-invoking the generation engine forever.
	defer stream.Close()

	var response strings.Builder
	retryCount := 0

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev := <-stream.Events:
			payload, finished, err := g.extractPayload(ev)
			if err != nil {
				return "", err
			}
			response.WriteString(payload)
			if finished {
				g.logger.InfoWithFields("Generation stream complete", map[string]interface{}{
					"response_length": response.Len(),
				})
				return response.String(), nil
			}
		case err := <-stream.Errors:
			// EOF without the engine's finish marker is a mid-stream drop,
			// not a clean close.
			if err == io.EOF {
				err = errStreamTruncated
			}
			if retryCount < maxStreamRetries {
				g.logger.ErrorWithFields(err, "Generation stream interrupted, retrying", map[string]interface{}{
					"retry_count": retryCount,
				})
				retryCount++
				// The reconnect replays the stream from the start.
				response.Reset()
				continue
			}
			g.logger.Error(err, "Generation stream interrupted, max retries reached")
			return "", err
		}
	}
}

func (g *geminiFeedbackGenerator) extractPayload(event eventsource.Event) (string, bool, error) {
	var chunkBody geminiChunkBody
	if err := json.Unmarshal([]byte(event.Data()), &chunkBody); err != nil {
		g.logger.Error(err, "Failed to unmarshal event data")
		return "", false, err
	}
	if len(chunkBody.Candidates) == 0 {
		return "", false, nil
	}

	candidate := chunkBody.Candidates[0]
	var chunk strings.Builder
	for _, part := range candidate.Content.Parts {
		chunk.WriteString(part.Text)
	}
	return chunk.String(), candidate.FinishReason != "", nil
}

func (g *geminiFeedbackGenerator) createRequest(ctx context.Context, prompt string) (*http.Request, error) {
	promptReq := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: prompt}},
			},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     g.generationConfig.Temperature,
			MaxOutputTokens: g.generationConfig.MaxOutputTokens,
		},
	}

	payloadBytes, err := json.Marshal(promptReq)
	if err != nil {
		g.logger.Error(err, "Failed to marshal the request body")
		return nil, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:streamGenerateContent?alt=sse",
		g.generationConfig.ApiUrl, g.generationConfig.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		g.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}

	req.Header.Set("X-Goog-Api-Key", g.generationConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

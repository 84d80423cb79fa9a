package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"speech-coach-pipeline/application/ports/outbound"
	"speech-coach-pipeline/config"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type recognitionConfig struct {
	Encoding                   string `json:"encoding"`
	SampleRateHertz            int    `json:"sampleRateHertz"`
	LanguageCode               string `json:"languageCode"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
	ProfanityFilter            bool   `json:"profanityFilter"`
	Model                      string `json:"model"`
}

type recognitionAudio struct {
	Uri string `json:"uri"`
}

type longRunningRecognizeRequest struct {
	Config recognitionConfig `json:"config"`
	Audio  recognitionAudio  `json:"audio"`
}

type recognizeOperation struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Response *struct {
		Results []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"results"`
	} `json:"response,omitempty"`
}

var errOperationPending = errors.New("recognition operation still running")

type speechTranscriber struct {
	ContentFetcher
	logger       outbound.LoggerPort
	speechConfig *config.SpeechConfig
}

// NewSpeechTranscriber builds the speech-to-text adapter. Recognition is a
// long-running operation on the engine side: Submit starts it, Await polls
// the operation resource until it is done or the bounded wait elapses.
func NewSpeechTranscriber(contentFetcher ContentFetcher, speechConfig *config.SpeechConfig,
	logger outbound.LoggerPort) outbound.TranscriberPort {
	return &speechTranscriber{
		ContentFetcher: contentFetcher,
		logger:         logger,
		speechConfig:   speechConfig,
	}
}

func (t *speechTranscriber) Submit(ctx context.Context, audioRef string) (outbound.OperationHandle, error) {
	reqBody := longRunningRecognizeRequest{
		Config: recognitionConfig{
			Encoding:                   "LINEAR16",
			SampleRateHertz:            t.speechConfig.SampleRateHertz,
			LanguageCode:               t.speechConfig.LanguageCode,
			EnableAutomaticPunctuation: true,
			ProfanityFilter:            true,
			Model:                      t.speechConfig.Model,
		},
		Audio: recognitionAudio{Uri: audioRef},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		t.logger.Error(err, "Failed to marshal the recognition request body")
		return outbound.OperationHandle{}, err
	}

	url := t.speechConfig.ApiUrl + "/v1/speech:longrunningrecognize"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		t.logger.Error(err, "Failed to create the recognition HTTP request")
		return outbound.OperationHandle{}, err
	}
	t.setHeaders(req)

	rawRes, err := t.FetchContent(req)
	if err != nil {
		return outbound.OperationHandle{}, err
	}

	var op recognizeOperation
	if err := json.Unmarshal(rawRes, &op); err != nil {
		t.logger.Error(err, "Failed to unmarshal the recognition operation")
		return outbound.OperationHandle{}, err
	}
	if op.Name == "" {
		return outbound.OperationHandle{}, fmt.Errorf("recognition operation has no name")
	}

	t.logger.InfoWithFields("Recognition operation started", map[string]interface{}{
		"operation": op.Name,
	})

	return outbound.OperationHandle{Name: op.Name}, nil
}

func (t *speechTranscriber) Await(ctx context.Context, handle outbound.OperationHandle,
	timeout time.Duration) ([]outbound.TranscriptSegment, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var segments []outbound.TranscriptSegment
	poll := func() error {
		op, err := t.pollOperation(waitCtx, handle.Name)
		if err != nil {
			return err
		}
		if op.Error != nil {
			return backoff.Permanent(fmt.Errorf("recognition failed: %s", op.Error.Message))
		}
		if !op.Done {
			return errOperationPending
		}
		segments = collectSegments(op)
		return nil
	}

	policy := backoff.WithContext(backoff.NewConstantBackOff(t.speechConfig.PollInterval), waitCtx)
	if err := backoff.Retry(poll, policy); err != nil {
		if waitCtx.Err() != nil {
			return nil, fmt.Errorf("recognition did not complete within %s: %w", timeout, waitCtx.Err())
		}
		return nil, err
	}

	return segments, nil
}

func (t *speechTranscriber) pollOperation(ctx context.Context, name string) (*recognizeOperation, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", t.speechConfig.ApiUrl+"/v1/operations/"+name, nil)
	if err != nil {
		return nil, err
	}
	t.setHeaders(req)

	rawRes, err := t.FetchContent(req)
	if err != nil {
		return nil, err
	}

	var op recognizeOperation
	if err := json.Unmarshal(rawRes, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

func (t *speechTranscriber) setHeaders(req *http.Request) {
	req.Header.Set("X-Goog-Api-Key", t.speechConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")
}

func collectSegments(op *recognizeOperation) []outbound.TranscriptSegment {
	if op.Response == nil {
		return nil
	}
	segments := make([]outbound.TranscriptSegment, 0, len(op.Response.Results))
	for _, result := range op.Response.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		segments = append(segments, outbound.TranscriptSegment{Text: result.Alternatives[0].Transcript})
	}
	return segments
}

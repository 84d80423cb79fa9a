package adapters

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"speech-coach-pipeline/application/ports/outbound"
	"speech-coach-pipeline/config"
)

type synthesisInput struct {
	Text string `json:"text"`
}

type voiceSelection struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
	SsmlGender   string `json:"ssmlGender"`
}

type audioConfig struct {
	AudioEncoding string  `json:"audioEncoding"`
	SpeakingRate  float64 `json:"speakingRate"`
	Pitch         float64 `json:"pitch"`
}

type synthesizeRequest struct {
	Input       synthesisInput `json:"input"`
	Voice       voiceSelection `json:"voice"`
	AudioConfig audioConfig    `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

type ttsSynthesizer struct {
	ContentFetcher
	logger    outbound.LoggerPort
	ttsConfig *config.TtsConfig
}

func NewTtsSynthesizer(contentFetcher ContentFetcher, ttsConfig *config.TtsConfig,
	logger outbound.LoggerPort) outbound.SpeechSynthesizerPort {
	return &ttsSynthesizer{
		ContentFetcher: contentFetcher,
		logger:         logger,
		ttsConfig:      ttsConfig,
	}
}

func (t *ttsSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	req, err := t.getRequest(ctx, text)
	if err != nil {
		t.logger.Error(err, "Failed to create the synthesis HTTP request")
		return nil, err
	}

	rawRes, err := t.FetchContent(req)
	if err != nil {
		return nil, err
	}

	var ttsRes synthesizeResponse
	if err := json.Unmarshal(rawRes, &ttsRes); err != nil {
		t.logger.Error(err, "Failed to unmarshal the synthesis response")
		return nil, err
	}
	if ttsRes.AudioContent == "" {
		return nil, fmt.Errorf("synthesis response carries no audio content")
	}

	decodedAudio, err := base64.StdEncoding.DecodeString(ttsRes.AudioContent)
	if err != nil {
		t.logger.Error(err, "Failed to decode the synthesized audio")
		return nil, err
	}

	return decodedAudio, nil
}

func (t *ttsSynthesizer) getRequest(ctx context.Context, text string) (*http.Request, error) {
	reqBody := synthesizeRequest{
		Input: synthesisInput{Text: text},
		Voice: voiceSelection{
			LanguageCode: t.ttsConfig.LanguageCode,
			Name:         t.ttsConfig.VoiceName,
			SsmlGender:   t.ttsConfig.Gender,
		},
		AudioConfig: audioConfig{
			AudioEncoding: t.ttsConfig.AudioEncoding,
			SpeakingRate:  t.ttsConfig.SpeakingRate,
			Pitch:         t.ttsConfig.Pitch,
		},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		t.logger.Error(err, "Failed to marshal the synthesis request body")
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.ttsConfig.ApiUrl+"/v1/text:synthesize",
		bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("X-Goog-Api-Key", t.ttsConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type SpeechConfig struct {
	ApiUrl           string
	ApiKey           string
	Model            string
	LanguageCode     string
	SampleRateHertz  int
	OperationTimeout time.Duration
	PollInterval     time.Duration
}

func GetSpeechConfig() (*SpeechConfig, error) {
	apiUrl := os.Getenv("SPEECH_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("SPEECH_API_URL must be set")
	}
	apiKey := os.Getenv("SPEECH_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("SPEECH_API_KEY must be set")
	}

	model := os.Getenv("SPEECH_MODEL")
	if model == "" {
		model = "video"
	}
	languageCode := os.Getenv("SPEECH_LANGUAGE_CODE")
	if languageCode == "" {
		languageCode = "en-US"
	}

	timeout := 300 * time.Second
	if raw := os.Getenv("SPEECH_OPERATION_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse SPEECH_OPERATION_TIMEOUT_SECONDS")
		}
		timeout = time.Duration(seconds) * time.Second
	}

	pollInterval := 5 * time.Second
	if raw := os.Getenv("SPEECH_POLL_INTERVAL_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse SPEECH_POLL_INTERVAL_SECONDS")
		}
		pollInterval = time.Duration(seconds) * time.Second
	}

	return &SpeechConfig{
		ApiUrl:           apiUrl,
		ApiKey:           apiKey,
		Model:            model,
		LanguageCode:     languageCode,
		SampleRateHertz:  16000,
		OperationTimeout: timeout,
		PollInterval:     pollInterval,
	}, nil
}

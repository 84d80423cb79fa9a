package config

import (
	"fmt"
	"os"
	"strconv"
)

type TtsConfig struct {
	ApiUrl        string
	ApiKey        string
	LanguageCode  string
	VoiceName     string
	Gender        string
	AudioEncoding string
	SpeakingRate  float64
	Pitch         float64
}

func GetTtsConfig() (*TtsConfig, error) {
	apiUrl := os.Getenv("TTS_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("TTS_API_URL must be set")
	}
	apiKey := os.Getenv("TTS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("TTS_API_KEY must be set")
	}

	languageCode := os.Getenv("TTS_LANGUAGE_CODE")
	if languageCode == "" {
		languageCode = "en-US"
	}
	voiceName := os.Getenv("TTS_VOICE_NAME")
	if voiceName == "" {
		voiceName = "en-US-Wavenet-F"
	}
	gender := os.Getenv("TTS_VOICE_GENDER")
	if gender == "" {
		gender = "FEMALE"
	}
	encoding := os.Getenv("TTS_AUDIO_ENCODING")
	if encoding == "" {
		encoding = "MP3"
	}

	speakingRate := 1.05
	if raw := os.Getenv("TTS_SPEAKING_RATE"); raw != "" {
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TTS_SPEAKING_RATE")
		}
		speakingRate = val
	}

	pitch := 0.0
	if raw := os.Getenv("TTS_PITCH"); raw != "" {
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TTS_PITCH")
		}
		pitch = val
	}

	return &TtsConfig{
		ApiUrl:        apiUrl,
		ApiKey:        apiKey,
		LanguageCode:  languageCode,
		VoiceName:     voiceName,
		Gender:        gender,
		AudioEncoding: encoding,
		SpeakingRate:  speakingRate,
		Pitch:         pitch,
	}, nil
}

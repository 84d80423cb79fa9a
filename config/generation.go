package config

import (
	"fmt"
	"os"
	"strconv"
)

type GenerationConfig struct {
	ApiUrl          string
	ApiKey          string
	Model           string
	Temperature     float64
	MaxOutputTokens int
}

func GetGenerationConfig() (*GenerationConfig, error) {
	apiUrl := os.Getenv("GENERATION_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("GENERATION_API_URL must be set")
	}
	apiKey := os.Getenv("GENERATION_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GENERATION_API_KEY must be set")
	}
	model := os.Getenv("GENERATION_MODEL")
	if model == "" {
		return nil, fmt.Errorf("GENERATION_MODEL must be set")
	}

	temperature := 0.7
	if raw := os.Getenv("GENERATION_TEMPERATURE"); raw != "" {
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GENERATION_TEMPERATURE")
		}
		temperature = val
	}

	maxOutputTokens := 1024
	if raw := os.Getenv("GENERATION_MAX_OUTPUT_TOKENS"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GENERATION_MAX_OUTPUT_TOKENS")
		}
		maxOutputTokens = val
	}

	return &GenerationConfig{
		ApiUrl:          apiUrl,
		ApiKey:          apiKey,
		Model:           model,
		Temperature:     temperature,
		MaxOutputTokens: maxOutputTokens,
	}, nil
}

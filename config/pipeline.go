package config

import "os"

type PipelineConfig struct {
	ScratchDir string
}

func GetPipelineConfig() (*PipelineConfig, error) {
	scratchDir := os.Getenv("SCRATCH_DIR")
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}

	return &PipelineConfig{
		ScratchDir: scratchDir,
	}, nil
}

package adapters

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"speech-coach-pipeline/application/ports/outbound"
	"strconv"
	"strings"
)

type ffmpegAudioExtractor struct {
	logger          outbound.LoggerPort
	sampleRateHertz int
}

// NewFFMPEGAudioExtractor builds the media decoder. It shells out to ffmpeg
// and ffprobe, which must be on PATH.
func NewFFMPEGAudioExtractor(logger outbound.LoggerPort, sampleRateHertz int) outbound.AudioExtractorPort {
	return &ffmpegAudioExtractor{
		logger:          logger,
		sampleRateHertz: sampleRateHertz,
	}
}

func (e *ffmpegAudioExtractor) ExtractAudio(ctx context.Context, videoPath string, outputPath string) error {
	sourceRate, err := e.probeSampleRate(ctx, videoPath)
	if err != nil {
		return err
	}

	if sourceRate != e.sampleRateHertz {
		e.logger.InfoWithFields("Resampling audio track", map[string]interface{}{
			"source_rate": sourceRate,
			"target_rate": e.sampleRateHertz,
		})
	}

	args := e.buildExtractArgs(videoPath, outputPath, sourceRate)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		e.logger.ErrorWithFields(err, "ffmpeg failed", map[string]interface{}{
			"video_path": videoPath,
			"output":     string(output),
		})
		return fmt.Errorf("ffmpeg: %w", err)
	}

	return nil
}

// buildExtractArgs decodes the audio track to mono PCM WAV, adding a
// resample flag only when the source rate differs from the target.
func (e *ffmpegAudioExtractor) buildExtractArgs(videoPath string, outputPath string, sourceRate int) []string {
	args := []string{"-y", "-i", videoPath, "-vn", "-ac", "1"}
	if sourceRate != e.sampleRateHertz {
		args = append(args, "-ar", strconv.Itoa(e.sampleRateHertz))
	}
	return append(args, "-f", "wav", outputPath)
}

func (e *ffmpegAudioExtractor) probeSampleRate(ctx context.Context, videoPath string) (int, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-select_streams", "a:0",
		"-show_entries", "stream=sample_rate", "-of", "default=noprint_wrappers=1:nokey=1", videoPath)

	out, err := runProbe(cmd)
	if err != nil {
		e.logger.ErrorWithFields(err, "error probing audio sample rate", map[string]interface{}{
			"video_path": videoPath,
		})
		return 0, err
	}

	return parseSampleRate(out)
}

// runProbe keeps stderr separate from the parsed stdout; the tool's
// diagnostic is folded into the returned error.
func runProbe(cmd *exec.Cmd) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if diag := strings.TrimSpace(stderr.String()); diag != "" {
			return "", fmt.Errorf("ffprobe: %w: %s", err, diag)
		}
		return "", fmt.Errorf("ffprobe: %w", err)
	}
	return stdout.String(), nil
}

func parseSampleRate(probeOutput string) (int, error) {
	rateStr := strings.TrimSpace(probeOutput)
	if rateStr == "" {
		return 0, fmt.Errorf("media has no audio stream")
	}
	// Probing more than one audio stream yields one line each; the first
	// stream is the one decoded.
	if idx := strings.IndexAny(rateStr, "\r\n"); idx >= 0 {
		rateStr = strings.TrimSpace(rateStr[:idx])
	}

	rate, err := strconv.Atoi(rateStr)
	if err != nil {
		return 0, fmt.Errorf("parse sample rate %q: %w", rateStr, err)
	}
	return rate, nil
}

package outbound

import "context"

// AudioExtractorPort decodes the audio track of a local video file into a
// 16kHz mono PCM WAV at outputPath, resampling only when the source rate
// differs.
type AudioExtractorPort interface {
	ExtractAudio(ctx context.Context, videoPath string, outputPath string) error
}

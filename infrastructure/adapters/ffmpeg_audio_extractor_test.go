package adapters

import (
	"os/exec"
	"strings"
	"testing"
)

func TestParseSampleRate(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"44100\n", 44100, false},
		{"16000", 16000, false},
		{"48000\n44100\n", 48000, false},
		{"", 0, true},
		{"N/A\n", 0, true},
	}
	for _, tc := range cases {
		got, err := parseSampleRate(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseSampleRate(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseSampleRate(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseSampleRate(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestRunProbe_SurfacesStderrDiagnostic(t *testing.T) {
	_, err := runProbe(exec.Command("sh", "-c", "echo 'moov atom not found' >&2; exit 1"))
	if err == nil {
		t.Fatal("expected probe failure")
	}
	if !strings.Contains(err.Error(), "moov atom not found") {
		t.Fatalf("tool diagnostic not surfaced: %v", err)
	}

	out, err := runProbe(exec.Command("sh", "-c", "echo 44100"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "44100" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestBuildExtractArgs_ResamplesOnlyWhenRateDiffers(t *testing.T) {
	e := &ffmpegAudioExtractor{logger: NewZerologWrapper(), sampleRateHertz: 16000}

	withResample := strings.Join(e.buildExtractArgs("in.mp4", "out.wav", 44100), " ")
	if !strings.Contains(withResample, "-ar 16000") {
		t.Fatalf("44.1kHz source must be resampled: %q", withResample)
	}

	withoutResample := strings.Join(e.buildExtractArgs("in.mp4", "out.wav", 16000), " ")
	if strings.Contains(withoutResample, "-ar") {
		t.Fatalf("16kHz source must not be resampled: %q", withoutResample)
	}

	for _, args := range []string{withResample, withoutResample} {
		if !strings.Contains(args, "-ac 1") || !strings.Contains(args, "-f wav") {
			t.Fatalf("output must be mono WAV: %q", args)
		}
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"speech-coach-pipeline/application/ports/outbound"
	"speech-coach-pipeline/domain"
	"time"
)

type nopLogger struct{}

func (nopLogger) Info(string)                                           {}
func (nopLogger) InfoWithFields(string, map[string]interface{})         {}
func (nopLogger) Error(error, string)                                   {}
func (nopLogger) ErrorWithFields(error, string, map[string]interface{}) {}
func (nopLogger) Debug(string)                                          {}
func (nopLogger) DebugWithFields(string, map[string]interface{})        {}
func (nopLogger) Warn(string)                                           {}
func (nopLogger) WarnWithFields(string, map[string]interface{})         {}

// fakeBlobStore keeps uploaded objects in memory and serves downloads by
// writing a placeholder file.
type fakeBlobStore struct {
	bucket   string
	objects  map[string][]byte
	putKeys  []string
	getErr   error
	putErr   error
	getCalls int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		bucket:  "coach-bucket",
		objects: map[string][]byte{},
	}
}

func (f *fakeBlobStore) Put(_ context.Context, localPath string, key string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	payload, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}
	f.objects[key] = payload
	f.putKeys = append(f.putKeys, key)
	return "s3://" + f.bucket + "/" + key, nil
}

func (f *fakeBlobStore) Get(_ context.Context, ref string, localPath string) error {
	f.getCalls++
	if f.getErr != nil {
		return f.getErr
	}
	return os.WriteFile(localPath, []byte("video-bytes:"+ref), 0o644)
}

func (f *fakeBlobStore) Delete(context.Context, string) error {
	return nil
}

// fakeExtractor writes a placeholder WAV to outputPath.
type fakeExtractor struct {
	err   error
	calls int
}

func (f *fakeExtractor) ExtractAudio(_ context.Context, videoPath string, outputPath string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if _, err := os.Stat(videoPath); err != nil {
		return fmt.Errorf("input video missing: %w", err)
	}
	return os.WriteFile(outputPath, []byte("wav-bytes"), 0o644)
}

type fakeTranscriber struct {
	segments    []outbound.TranscriptSegment
	submitErr   error
	awaitErr    error
	submitCalls int
	awaitCalls  int
	lastTimeout time.Duration
}

func (f *fakeTranscriber) Submit(_ context.Context, audioRef string) (outbound.OperationHandle, error) {
	f.submitCalls++
	if f.submitErr != nil {
		return outbound.OperationHandle{}, f.submitErr
	}
	return outbound.OperationHandle{Name: "op-" + audioRef}, nil
}

func (f *fakeTranscriber) Await(_ context.Context, _ outbound.OperationHandle,
	timeout time.Duration) ([]outbound.TranscriptSegment, error) {
	f.awaitCalls++
	f.lastTimeout = timeout
	if f.awaitErr != nil {
		return nil, f.awaitErr
	}
	return f.segments, nil
}

type fakeGenerator struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeSynthesizer struct {
	audio    []byte
	err      error
	calls    int
	lastText string
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.calls++
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

type fakeLedger struct {
	records []outbound.ArtifactRecord
	err     error
}

func (f *fakeLedger) Record(_ context.Context, record outbound.ArtifactRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

// fakeStage appends a field via apply and records execution order.
type fakeStage struct {
	name  string
	apply func(domain.RunState) (domain.RunState, error)
	log   *[]string
}

func (f *fakeStage) Name() string {
	return f.name
}

func (f *fakeStage) Execute(_ context.Context, state domain.RunState) (domain.RunState, error) {
	if f.log != nil {
		*f.log = append(*f.log, f.name)
	}
	if f.apply == nil {
		return state, nil
	}
	return f.apply(state)
}

var errBoom = errors.New("boom")

func scratchLeftovers(dir string) []string {
	entries, _ := os.ReadDir(dir)
	var names []string
	for _, entry := range entries {
		names = append(names, filepath.Join(dir, entry.Name()))
	}
	return names
}

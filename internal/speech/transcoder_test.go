package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lshigami/mockexam/internal/apperror"
)

type recordedCall struct {
	name string
	args []string
}

func newTestTranscoder(t *testing.T, run CommandRunner) (*FFmpegTranscoder, string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "answer.webm")
	if err := os.WriteFile(src, []byte("webm"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return &FFmpegTranscoder{
		primary:  "ffmpeg-primary",
		fallback: "ffmpeg-fallback",
		timeout:  time.Second,
		tempDir:  dir,
		run:      run,
	}, src
}

func writeOutput(args []string, data string) error {
	return os.WriteFile(args[len(args)-1], []byte(data), 0o644)
}

func assertTempDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir should be empty, found %d entries", len(entries))
	}
}

func TestNormalizePrimary(t *testing.T) {
	var calls []recordedCall
	tr, src := newTestTranscoder(t, func(ctx context.Context, name string, args ...string) ([]byte, error) {
		calls = append(calls, recordedCall{name, args})
		return nil, writeOutput(args, "RIFFpcm")
	})

	pcm, err := tr.Normalize(context.Background(), src)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if string(pcm) != "RIFFpcm" {
		t.Errorf("pcm = %q, want RIFFpcm", pcm)
	}
	if len(calls) != 1 || calls[0].name != "ffmpeg-primary" {
		t.Fatalf("calls = %+v, want one primary call", calls)
	}
	assertArgs(t, calls[0].args, "-ac", "1")
	assertArgs(t, calls[0].args, "-ar", "16000")
	assertArgs(t, calls[0].args, "-acodec", "pcm_s16le")
	assertTempDirEmpty(t, tr.tempDir)
}

func assertArgs(t *testing.T, args []string, flag, value string) {
	t.Helper()
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return
		}
	}
	t.Errorf("args %v missing %s %s", args, flag, value)
}

func TestNormalizeFallback(t *testing.T) {
	var calls []string
	tr, src := newTestTranscoder(t, func(ctx context.Context, name string, args ...string) ([]byte, error) {
		calls = append(calls, name)
		if name == "ffmpeg-primary" {
			_ = writeOutput(args, "partial")
			return []byte("Unknown encoder 'pcm_s16le'"), errors.New("exit status 1")
		}
		return nil, writeOutput(args, "RIFFreduced")
	})

	pcm, err := tr.Normalize(context.Background(), src)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if string(pcm) != "RIFFreduced" {
		t.Errorf("pcm = %q, want the fallback output", pcm)
	}
	if len(calls) != 2 || calls[1] != "ffmpeg-fallback" {
		t.Errorf("calls = %v, want primary then fallback", calls)
	}
	assertTempDirEmpty(t, tr.tempDir)
}

func TestNormalizeBothFail(t *testing.T) {
	tr, src := newTestTranscoder(t, func(ctx context.Context, name string, args ...string) ([]byte, error) {
		_ = writeOutput(args, "garbage")
		return nil, errors.New("executable file not found in $PATH")
	})

	_, err := tr.Normalize(context.Background(), src)
	var te *apperror.TranscriptionError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TranscriptionError", err)
	}
	assertTempDirEmpty(t, tr.tempDir)
}

func TestNormalizeMissingSource(t *testing.T) {
	called := false
	tr, _ := newTestTranscoder(t, func(ctx context.Context, name string, args ...string) ([]byte, error) {
		called = true
		return nil, nil
	})

	_, err := tr.Normalize(context.Background(), filepath.Join(t.TempDir(), "missing.webm"))
	var te *apperror.TranscriptionError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TranscriptionError", err)
	}
	if called {
		t.Error("transcoder should not run for a missing source")
	}
}

func TestNormalizeTimeout(t *testing.T) {
	tr, src := newTestTranscoder(t, func(ctx context.Context, name string, args ...string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	tr.timeout = 10 * time.Millisecond

	_, err := tr.Normalize(context.Background(), src)
	var te *apperror.TranscriptionError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TranscriptionError", err)
	}
	assertTempDirEmpty(t, tr.tempDir)
}

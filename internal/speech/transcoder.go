package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/mockexam/config"
	"github.com/lshigami/mockexam/internal/apperror"
	"github.com/lshigami/mockexam/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Transcoder turns a stored recording into mono 16 kHz 16-bit PCM WAV bytes.
type Transcoder interface {
	Normalize(ctx context.Context, src string) ([]byte, error)
}

// CommandRunner runs an external program and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

type FFmpegTranscoder struct {
	primary  string
	fallback string
	timeout  time.Duration
	tempDir  string
	run      CommandRunner
}

func NewFFmpegTranscoder(cfg *config.Config) *FFmpegTranscoder {
	timeout := cfg.Speech.ConvertTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	tempDir := cfg.Speech.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &FFmpegTranscoder{
		primary:  cfg.Speech.FFmpegPath,
		fallback: cfg.Speech.FallbackPath,
		timeout:  timeout,
		tempDir:  tempDir,
		run:      execRunner,
	}
}

func primaryArgs(src, dst string) []string {
	return []string{"-y", "-hide_banner", "-loglevel", "error", "-i", src,
		"-vn", "-ac", "1", "-ar", "16000", "-acodec", "pcm_s16le", "-f", "wav", dst}
}

// reducedArgs drops the codec and container flags that older builds reject.
func reducedArgs(src, dst string) []string {
	return []string{"-y", "-i", src, "-ac", "1", "-ar", "16000", dst}
}

// Normalize converts src with the primary command and retries once with the
// reduced one. The intermediate file is removed on every return path.
func (t *FFmpegTranscoder) Normalize(ctx context.Context, src string) ([]byte, error) {
	if _, err := os.Stat(src); err != nil {
		return nil, &apperror.TranscriptionError{Reason: "audio file not readable", Err: err}
	}

	dst := filepath.Join(t.tempDir, "speech-"+uuid.NewString()+".wav")
	defer os.Remove(dst)

	if err := t.convert(ctx, t.primary, primaryArgs(src, dst)); err != nil {
		log.Warn().Err(err).Str("src", src).Msg("Primary audio conversion failed, trying reduced command")
		metrics.TranscoderFallbacks.Inc()
		_ = os.Remove(dst)
		if fallbackErr := t.convert(ctx, t.fallback, reducedArgs(src, dst)); fallbackErr != nil {
			return nil, &apperror.TranscriptionError{
				Reason: "audio conversion failed",
				Err:    errors.Join(err, fallbackErr),
			}
		}
	}

	pcm, err := os.ReadFile(dst)
	if err != nil {
		return nil, &apperror.TranscriptionError{Reason: "converted audio missing", Err: err}
	}
	if len(pcm) == 0 {
		return nil, &apperror.TranscriptionError{Reason: "converted audio is empty"}
	}
	return pcm, nil
}

func (t *FFmpegTranscoder) convert(ctx context.Context, bin string, args []string) error {
	if bin == "" {
		return errors.New("no transcoder configured")
	}
	cctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	out, err := t.run(cctx, bin, args...)
	if err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s timed out after %s", bin, t.timeout)
		}
		return fmt.Errorf("%s: %w: %s", bin, err, lastLine(out))
	}
	return nil
}

func lastLine(out []byte) string {
	const max = 200
	if len(out) > max {
		out = out[len(out)-max:]
	}
	return string(out)
}

// Package ffmpeg wraps the external ffmpeg/ffprobe binaries used to
// remux video containers without their metadata. The binaries are NOT
// bundled; their location is part of this package's configuration and
// their absence is a first-class, user-diagnosable error.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/diegorribeiro/metaclean/pkg/logger"
)

var log = logger.Get("FFmpeg")

var (
	// ErrToolNotFound indicates the ffmpeg binary could not be located
	// at its configured path, the local fallback, or on PATH.
	ErrToolNotFound = errors.New("ffmpeg executable not found")

	// ErrVideoProcessing indicates ffmpeg was found but the remux
	// failed (non-zero exit, cancelled, or timed out).
	ErrVideoProcessing = errors.New("video processing failure")
)

type Config struct {
	FfmpegBinPath  string
	FfprobeBinPath string
	Timeout        time.Duration
}

// Stripper remuxes video files through ffmpeg with all metadata and
// chapter markers dropped, stream-copying the audio/video payload so
// no re-encode (and no quality loss) occurs.
//
// It is stateless between invocations; each Strip call resolves the
// binary, runs one child process, and cleans up after itself.
type Stripper struct {
	config Config
}

func NewStripper(config Config) *Stripper {
	return &Stripper{config: config}
}

// Strip remuxes sourcePath into destPath with metadata dropped. Any
// partially written destination is removed on failure. The provided
// context cancels the child process; additionally the configured
// timeout (if any) is applied around the invocation.
func (s *Stripper) Strip(ctx context.Context, sourcePath string, destPath string) error {
	binary, err := s.resolveFfmpeg()
	if err != nil {
		return err
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	cmd := NewStripCommand(sourcePath, destPath, binary)
	log.Emit(logger.NEW, "Starting remux %v\n", cmd)
	if err := cmd.Run(ctx); err != nil {
		return err
	}

	log.Emit(logger.SUCCESS, "Remux complete %v\n", cmd)
	return nil
}

// Version returns the first line of `ffmpeg -version` output. Useful
// as a cheap startup diagnostic that the configured binary is real.
func (s *Stripper) Version(ctx context.Context) (string, error) {
	binary, err := s.resolveFfmpeg()
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "-version")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s failed version check: %s", ErrToolNotFound, binary, err.Error())
	}

	version, _, _ := strings.Cut(out.String(), "\n")
	if !strings.Contains(version, "ffmpeg version") {
		return "", fmt.Errorf("%w: %s does not look like an ffmpeg binary", ErrToolNotFound, binary)
	}

	return version, nil
}

// resolveFfmpeg locates the ffmpeg executable. An explicitly
// configured path is authoritative: if it's set but missing we fail
// rather than silently picking up a different binary. With no explicit
// path we try a local ./ffmpeg directory before falling back to PATH,
// mirroring how the tool was originally distributed alongside its
// ffmpeg build.
func (s *Stripper) resolveFfmpeg() (string, error) {
	if configured := s.config.FfmpegBinPath; configured != "" {
		if info, err := os.Stat(configured); err == nil && info.Mode().IsRegular() {
			return configured, nil
		}

		return "", fmt.Errorf("%w: configured path %s does not exist", ErrToolNotFound, configured)
	}

	local := filepath.Join("ffmpeg", ffmpegExecutableName())
	if info, err := os.Stat(local); err == nil && info.Mode().IsRegular() {
		return local, nil
	}

	if found, err := exec.LookPath(ffmpegExecutableName()); err == nil {
		return found, nil
	}

	return "", fmt.Errorf("%w: not configured, no ./ffmpeg/ bundle, and not on PATH", ErrToolNotFound)
}

func (s *Stripper) resolveFfprobe() (string, error) {
	if configured := s.config.FfprobeBinPath; configured != "" {
		if info, err := os.Stat(configured); err == nil && info.Mode().IsRegular() {
			return configured, nil
		}

		return "", fmt.Errorf("%w: configured ffprobe path %s does not exist", ErrToolNotFound, configured)
	}

	if found, err := exec.LookPath(ffprobeExecutableName()); err == nil {
		return found, nil
	}

	return "", fmt.Errorf("%w: ffprobe not configured and not on PATH", ErrToolNotFound)
}

package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/diegorribeiro/metaclean/pkg/logger"
)

// StripCommand is a single ffmpeg invocation which stream-copies the
// input container to the output path while discarding every metadata
// tag and chapter marker. It holds no state beyond the running
// process handle.
type StripCommand struct {
	inputPath      string
	outputPath     string
	binaryPath     string
	runningCommand *exec.Cmd
}

func NewStripCommand(input string, output string, binary string) *StripCommand {
	return &StripCommand{inputPath: input, outputPath: output, binaryPath: binary}
}

// Args returns the full argument list for the invocation:
//   - -map_metadata -1 drops global and per-stream tags
//   - -map_chapters -1 drops chapter markers
//   - -c copy remuxes without re-encoding, preserving quality
//
// -nostdin and -hide_banner keep the child from blocking on input or
// polluting stderr, which we reserve for actual error output.
func (cmd *StripCommand) Args() []string {
	return []string{
		"-y",
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-i", cmd.inputPath,
		"-map_metadata", "-1",
		"-map_chapters", "-1",
		"-c", "copy",
		cmd.outputPath,
	}
}

// Run executes the invocation, blocking until the child exits or the
// context is cancelled. On any failure the partially written output
// file is deleted so no corrupt artifact is left behind.
func (cmd *StripCommand) Run(ctx context.Context) error {
	var stderr bytes.Buffer
	proc := exec.CommandContext(ctx, cmd.binaryPath, cmd.Args()...)
	proc.Stderr = &stderr

	cmd.runningCommand = proc
	defer func() { cmd.runningCommand = nil }()

	err := proc.Run()
	if err == nil {
		return nil
	}

	cmd.removePartialOutput()

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%w: remux of %s timed out", ErrVideoProcessing, cmd.inputPath)
		}

		return fmt.Errorf("%w: remux of %s cancelled", ErrVideoProcessing, cmd.inputPath)
	}

	return fmt.Errorf("%w: %s", ErrVideoProcessing, summariseStderr(stderr.String(), err))
}

// RunningCommand exposes the underlying process handle while the
// command is live; nil otherwise.
func (cmd *StripCommand) RunningCommand() *exec.Cmd {
	return cmd.runningCommand
}

func (cmd *StripCommand) String() string {
	var pid = -1
	if cmd.runningCommand != nil && cmd.runningCommand.Process != nil {
		pid = cmd.runningCommand.Process.Pid
	}

	return fmt.Sprintf("{ffmpeg pid=%d | in_path=%s | out_path=%s}", pid, cmd.inputPath, cmd.outputPath)
}

func (cmd *StripCommand) removePartialOutput() {
	if err := os.Remove(cmd.outputPath); err != nil && !os.IsNotExist(err) {
		log.Emit(logger.WARNING, "Failed to remove partial output %s: %s\n", cmd.outputPath, err.Error())
	}
}

// summariseStderr condenses ffmpeg's stderr into something short
// enough to surface in a status line. With -loglevel error the output
// is already terse; we keep the final few lines in case a long
// multi-error dump comes back.
func summariseStderr(stderr string, execErr error) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if len(lines) > 0 && lines[len(lines)-1] != "" {
		const keep = 3
		if len(lines) > keep {
			lines = lines[len(lines)-keep:]
		}

		return strings.Join(lines, "; ")
	}

	return execErr.Error()
}

func ffmpegExecutableName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}

	return "ffmpeg"
}

func ffprobeExecutableName() string {
	if runtime.GOOS == "windows" {
		return "ffprobe.exe"
	}

	return "ffprobe"
}

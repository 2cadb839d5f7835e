package ffmpeg_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/diegorribeiro/metaclean/internal/ffmpeg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStub drops a small shell script standing in for the ffmpeg
// binary so the process-handling paths can be exercised without a
// real transcoder installed.
func writeStub(t *testing.T, dir string, name string, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stubs require a POSIX shell")
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

// lastArgOutput is shared stub scaffolding: ffmpeg's output path is
// its final argument.
const lastArgOutput = `for last in "$@"; do :; done
`

func Test_StripCommand_Args(t *testing.T) {
	cmd := ffmpeg.NewStripCommand("/in/video.mp4", "/in/abc123_video.mp4", "/usr/bin/ffmpeg")

	assert.Equal(t, []string{
		"-y",
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-i", "/in/video.mp4",
		"-map_metadata", "-1",
		"-map_chapters", "-1",
		"-c", "copy",
		"/in/abc123_video.mp4",
	}, cmd.Args())
}

func Test_Strip_Success(t *testing.T) {
	dir := t.TempDir()
	binary := writeStub(t, dir, "ffmpeg", lastArgOutput+`echo remuxed > "$last"
exit 0
`)

	source := filepath.Join(dir, "clip.mp4")
	dest := filepath.Join(dir, "abc123_clip.mp4")
	require.NoError(t, os.WriteFile(source, []byte("fake container"), 0o644))

	stripper := ffmpeg.NewStripper(ffmpeg.Config{FfmpegBinPath: binary})
	require.NoError(t, stripper.Strip(context.Background(), source, dest))
	assert.FileExists(t, dest)
}

func Test_Strip_FailureRemovesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	binary := writeStub(t, dir, "ffmpeg", lastArgOutput+`echo partial > "$last"
echo "moov atom not found" >&2
exit 1
`)

	source := filepath.Join(dir, "clip.mp4")
	dest := filepath.Join(dir, "abc123_clip.mp4")
	require.NoError(t, os.WriteFile(source, []byte("fake container"), 0o644))

	stripper := ffmpeg.NewStripper(ffmpeg.Config{FfmpegBinPath: binary})
	err := stripper.Strip(context.Background(), source, dest)

	assert.ErrorIs(t, err, ffmpeg.ErrVideoProcessing)
	assert.ErrorContains(t, err, "moov atom not found")
	assert.NoFileExists(t, dest, "partial output must be cleaned up on failure")
}

func Test_Strip_TimeoutKillsChildAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	binary := writeStub(t, dir, "ffmpeg", lastArgOutput+`echo partial > "$last"
sleep 5
exit 0
`)

	source := filepath.Join(dir, "clip.mp4")
	dest := filepath.Join(dir, "abc123_clip.mp4")
	require.NoError(t, os.WriteFile(source, []byte("fake container"), 0o644))

	stripper := ffmpeg.NewStripper(ffmpeg.Config{FfmpegBinPath: binary, Timeout: 150 * time.Millisecond})

	started := time.Now()
	err := stripper.Strip(context.Background(), source, dest)

	assert.ErrorIs(t, err, ffmpeg.ErrVideoProcessing)
	assert.ErrorContains(t, err, "timed out")
	assert.Less(t, time.Since(started), 3*time.Second, "timeout did not interrupt the child")
	assert.NoFileExists(t, dest)
}

func Test_Strip_CancellationKillsChild(t *testing.T) {
	dir := t.TempDir()
	binary := writeStub(t, dir, "ffmpeg", lastArgOutput+`sleep 5
exit 0
`)

	source := filepath.Join(dir, "clip.mp4")
	dest := filepath.Join(dir, "abc123_clip.mp4")
	require.NoError(t, os.WriteFile(source, []byte("fake container"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	stripper := ffmpeg.NewStripper(ffmpeg.Config{FfmpegBinPath: binary})
	err := stripper.Strip(ctx, source, dest)

	assert.ErrorIs(t, err, ffmpeg.ErrVideoProcessing)
	assert.ErrorContains(t, err, "cancelled")
}

func Test_Strip_ToolNotFound(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "clip.mp4")
	dest := filepath.Join(dir, "abc123_clip.mp4")
	require.NoError(t, os.WriteFile(source, []byte("fake container"), 0o644))

	stripper := ffmpeg.NewStripper(ffmpeg.Config{FfmpegBinPath: filepath.Join(dir, "missing", "ffmpeg")})
	err := stripper.Strip(context.Background(), source, dest)

	assert.ErrorIs(t, err, ffmpeg.ErrToolNotFound)
	assert.NoFileExists(t, dest, "no output may be written when the tool is missing")
}

func Test_Version(t *testing.T) {
	dir := t.TempDir()

	t.Run("real looking binary", func(t *testing.T) {
		binary := writeStub(t, dir, "ffmpeg-good", `echo "ffmpeg version 6.1.1 Copyright (c) 2000-2023"
exit 0
`)

		stripper := ffmpeg.NewStripper(ffmpeg.Config{FfmpegBinPath: binary})
		version, err := stripper.Version(context.Background())
		require.NoError(t, err)
		assert.Contains(t, version, "ffmpeg version 6.1.1")
	})

	t.Run("imposter binary", func(t *testing.T) {
		binary := writeStub(t, dir, "ffmpeg-bad", `echo "totally not a transcoder"
exit 0
`)

		stripper := ffmpeg.NewStripper(ffmpeg.Config{FfmpegBinPath: binary})
		_, err := stripper.Version(context.Background())
		assert.ErrorIs(t, err, ffmpeg.ErrToolNotFound)
	})
}

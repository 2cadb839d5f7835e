package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type (
	// ContainerInfo is the digest of an ffprobe inspection: enough to
	// confirm a cleaned output still carries the same streams as its
	// source, and that no tags survived the remux.
	ContainerInfo struct {
		StreamCount int
		Duration    float64
		Tags        map[string]string
	}

	ffprobeOutput struct {
		Streams []ffprobeStream `json:"streams"`
		Format  ffprobeFormat   `json:"format"`
	}

	ffprobeStream struct {
		CodecName string            `json:"codec_name"`
		CodecType string            `json:"codec_type"`
		Tags      map[string]string `json:"tags"`
	}

	ffprobeFormat struct {
		Duration string            `json:"duration"`
		Tags     map[string]string `json:"tags"`
	}
)

// HasTags reports whether the container (or any of its streams)
// carries metadata tags.
func (info *ContainerInfo) HasTags() bool {
	return len(info.Tags) > 0
}

// Probe inspects the container at the given path using ffprobe,
// returning its stream count, duration, and the union of format-level
// and stream-level tags.
func (s *Stripper) Probe(ctx context.Context, path string) (*ContainerInfo, error) {
	binary, err := s.resolveFfprobe()
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary,
		"-v", "error",
		"-show_format",
		"-show_streams",
		"-print_format", "json",
		path,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: ffprobe of %s failed: %s", ErrVideoProcessing, path, summariseStderr(stderr.String(), err))
	}

	var out ffprobeOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("%w: cannot parse ffprobe output for %s: %s", ErrVideoProcessing, path, err.Error())
	}

	info := &ContainerInfo{
		StreamCount: len(out.Streams),
		Tags:        map[string]string{},
	}

	if duration, err := strconv.ParseFloat(strings.TrimSpace(out.Format.Duration), 64); err == nil {
		info.Duration = duration
	}

	for key, value := range out.Format.Tags {
		info.Tags[key] = value
	}
	for _, stream := range out.Streams {
		for key, value := range stream.Tags {
			info.Tags[key] = value
		}
	}

	return info, nil
}

package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type (
	Kind int

	// SourceFile describes a user-selected file once it has been
	// resolved against the filesystem and classified. Instances are
	// immutable; each processing operation builds a fresh one.
	SourceFile struct {
		Path string
		Kind Kind
		Size int64
	}
)

const (
	KindUnknown Kind = iota
	KindImage
	KindVideo
)

var ErrNotRegularFile = errors.New("source path does not refer to a regular file")

// Extension fallbacks for files whose magic bytes cannot be sniffed
// (truncated files, or containers the detector does not know). Matches
// the whitelist the original tool accepted in its file picker.
var (
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".bmp", ".tiff", ".tif", ".gif"}
	videoExtensions = []string{".mp4", ".mov", ".m4v", ".mkv", ".avi", ".webm"}
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return fmt.Sprintf("unknown[%d]", k)
	}
}

// ResolveSourceFile stats and classifies the file at the given path.
// Classification prefers the content's magic bytes over the filename;
// a file which is neither an image nor a video resolves with
// KindUnknown (and no error) so the caller can decide how to report
// it. Filesystem failures are returned as-is.
func ResolveSourceFile(path string) (*SourceFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	return &SourceFile{
		Path: path,
		Kind: classify(path),
		Size: info.Size(),
	}, nil
}

func classify(path string) Kind {
	if mime, err := mimetype.DetectFile(path); err == nil {
		switch {
		case strings.HasPrefix(mime.String(), "image/"):
			return KindImage
		case strings.HasPrefix(mime.String(), "video/"):
			return KindVideo
		}
	}

	return classifyByExtension(path)
}

func classifyByExtension(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range imageExtensions {
		if ext == e {
			return KindImage
		}
	}
	for _, e := range videoExtensions {
		if ext == e {
			return KindVideo
		}
	}

	return KindUnknown
}

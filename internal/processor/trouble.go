package processor

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/diegorribeiro/metaclean/internal/ffmpeg"
	"github.com/diegorribeiro/metaclean/internal/image"
	"github.com/diegorribeiro/metaclean/internal/media"
)

type (
	FailureKind int

	// Trouble wraps any failure raised while processing a file with a
	// kind the presentation layer can message on without needing to
	// understand the underlying error chain.
	Trouble struct {
		error
		kind FailureKind
	}
)

const (
	UNSUPPORTED_FILE_TYPE FailureKind = iota
	IMAGE_FAILURE
	TOOL_NOT_FOUND
	VIDEO_FAILURE
	FILESYSTEM_FAILURE
	GENERIC_FAILURE
)

// ErrUnsupportedFileType is raised when the selected file is neither a
// recognisable image nor video.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// newTrouble classifies an error from anywhere in the pipeline in to
// one of the known failure kinds.
func newTrouble(err error) *Trouble {
	switch {
	case errors.Is(err, ErrUnsupportedFileType):
		return &Trouble{error: err, kind: UNSUPPORTED_FILE_TYPE}
	case errors.Is(err, ffmpeg.ErrToolNotFound):
		return &Trouble{error: err, kind: TOOL_NOT_FOUND}
	case errors.Is(err, ffmpeg.ErrVideoProcessing):
		return &Trouble{error: err, kind: VIDEO_FAILURE}
	case errors.Is(err, image.ErrImageProcessing):
		return &Trouble{error: err, kind: IMAGE_FAILURE}
	case errors.Is(err, media.ErrNotRegularFile):
		return &Trouble{error: err, kind: FILESYSTEM_FAILURE}
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return &Trouble{error: err, kind: FILESYSTEM_FAILURE}
	}

	return &Trouble{error: err, kind: GENERIC_FAILURE}
}

func (t *Trouble) Kind() FailureKind { return t.kind }

// Unwrap exposes the wrapped cause so errors.Is/As keep working
// through the trouble.
func (t *Trouble) Unwrap() error { return t.error }

func (k FailureKind) String() string {
	switch k {
	case UNSUPPORTED_FILE_TYPE:
		return "UNSUPPORTED_FILE_TYPE"
	case IMAGE_FAILURE:
		return "IMAGE_FAILURE"
	case TOOL_NOT_FOUND:
		return "TOOL_NOT_FOUND"
	case VIDEO_FAILURE:
		return "VIDEO_FAILURE"
	case FILESYSTEM_FAILURE:
		return "FILESYSTEM_FAILURE"
	case GENERIC_FAILURE:
		return "GENERIC_FAILURE"
	}

	return fmt.Sprintf("UNKNOWN[%d]", k)
}

// Package processor hosts the dispatcher at the center of the
// metadata cleaning pipeline: classify the selected file, route it to
// the image or video stripper, and surface the outcome as an
// OperationResult. No failure, panic included, escapes Process.
package processor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/diegorribeiro/metaclean/internal/media"
	"github.com/diegorribeiro/metaclean/pkg/logger"
	"github.com/google/uuid"
)

var log = logger.Get("Processor")

type (
	// ImageStripper re-encodes an image in process without its
	// metadata. CanEncode reports whether the implementation can
	// produce an output with the given extension at all.
	ImageStripper interface {
		CanEncode(ext string) bool
		Strip(ctx context.Context, sourcePath string, destPath string) error
	}

	// VideoStripper remuxes a media container without its metadata,
	// typically by delegating to an external binary.
	VideoStripper interface {
		Strip(ctx context.Context, sourcePath string, destPath string) error
	}

	Processor struct {
		imageStripper ImageStripper
		videoStripper VideoStripper
	}
)

func New(imageStripper ImageStripper, videoStripper VideoStripper) *Processor {
	return &Processor{
		imageStripper: imageStripper,
		videoStripper: videoStripper,
	}
}

// Process runs the full pipeline for one source file: resolve and
// classify it, derive the hash-prefixed output path in the source's
// directory, strip metadata via the appropriate stripper, and report.
//
// Process writes exactly one new file on success and none on failure
// (the strippers remove their own partial outputs). It never panics
// and never overwrites the source; every failure comes back as a
// FAILURE result carrying a classified Trouble.
func (p *Processor) Process(ctx context.Context, sourcePath string) (result OperationResult) {
	opID := uuid.New()

	defer func() {
		if r := recover(); r != nil {
			log.Emit(logger.ERROR, "Recovered panic while processing %s: %v\n", sourcePath, r)
			result = failureResult(opID, sourcePath, fmt.Errorf("panic while processing: %v", r))
		}
	}()

	source, err := media.ResolveSourceFile(sourcePath)
	if err != nil {
		return failureResult(opID, sourcePath, err)
	}

	if source.Kind == media.KindUnknown {
		return failureResult(opID, sourcePath, fmt.Errorf("%w: %s", ErrUnsupportedFileType, sourcePath))
	}

	outputPath, err := media.OutputPath(sourcePath)
	if err != nil {
		return failureResult(opID, sourcePath, err)
	}

	log.Emit(logger.NEW, "Processing %s source %s (%d bytes) -> %s\n", source.Kind, source.Path, source.Size, outputPath)
	if err := p.dispatch(ctx, source, outputPath); err != nil {
		log.Emit(logger.ERROR, "Failed to clean %s: %s\n", source.Path, err.Error())
		return failureResult(opID, sourcePath, err)
	}

	log.Emit(logger.SUCCESS, "Cleaned %s -> %s\n", source.Path, outputPath)
	return successResult(opID, sourcePath, outputPath)
}

// dispatch routes the source to the stripper able to handle it.
// Images whose format has no in-process encoder (webp, mainly) are
// remuxed through the external tool instead, which strips their
// metadata without touching the payload.
func (p *Processor) dispatch(ctx context.Context, source *media.SourceFile, outputPath string) error {
	switch source.Kind {
	case media.KindImage:
		if !p.imageStripper.CanEncode(filepath.Ext(source.Path)) {
			log.Emit(logger.DEBUG, "No in-process encoder for %s, falling back to remux\n", source.Path)
			return p.videoStripper.Strip(ctx, source.Path, outputPath)
		}

		return p.imageStripper.Strip(ctx, source.Path, outputPath)
	case media.KindVideo:
		return p.videoStripper.Strip(ctx, source.Path, outputPath)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, source.Path)
	}
}

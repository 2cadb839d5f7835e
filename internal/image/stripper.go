// Package image implements in-process metadata stripping for raster
// images. The source is decoded to raw pixels and re-encoded from
// scratch, so no ancillary data (EXIF, IPTC, XMP, ICC profile, text
// chunks) can survive into the output.
package image

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/diegorribeiro/metaclean/pkg/logger"
	"github.com/disintegration/imaging"

	// Register decoders for formats the stdlib does not cover. WebP is
	// decode-only; outputs that must stay .webp are remuxed through
	// ffmpeg instead (see the processor's routing).
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var log = logger.Get("ImageStrip")

// ErrImageProcessing wraps any decode or re-encode failure so callers
// can classify the fault without inspecting its cause.
var ErrImageProcessing = errors.New("image processing failure")

type Stripper struct{}

func NewStripper() *Stripper {
	return &Stripper{}
}

// CanEncode reports whether the stripper can re-encode an output with
// the given extension in process. Anything else needs the external
// remux path.
func (s *Stripper) CanEncode(ext string) bool {
	_, err := imaging.FormatFromExtension(ext)
	return err == nil
}

// Strip decodes the image at sourcePath and writes a metadata-free
// re-encode to destPath. The source is never modified. The output
// format follows destPath's extension, which the caller guarantees to
// match the source's. A partially written destination is removed on
// failure.
func (s *Stripper) Strip(ctx context.Context, sourcePath string, destPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img, err := imaging.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("%w: cannot decode %s: %s", ErrImageProcessing, sourcePath, err.Error())
	}

	log.Emit(logger.DEBUG, "Decoded %s (%dx%d), re-encoding to %s\n",
		sourcePath, img.Bounds().Dx(), img.Bounds().Dy(), destPath)

	if err := imaging.Save(img, destPath); err != nil {
		if removeErr := os.Remove(destPath); removeErr != nil && !os.IsNotExist(removeErr) {
			log.Emit(logger.WARNING, "Failed to clean up partial output %s: %s\n", destPath, removeErr.Error())
		}

		return fmt.Errorf("%w: cannot re-encode to %s: %s", ErrImageProcessing, destPath, err.Error())
	}

	return nil
}

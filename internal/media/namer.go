package media

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Cleaned outputs are written alongside the source as
// <hashTag>_<sanitizedBase><ext>. The random tag guarantees the output
// never collides with the source file, and makes repeat runs against
// the same source produce distinct outputs.
const hashTagBytes = 3

var (
	whitespaceMatcher   = regexp.MustCompile(`\s+`)
	illegalCharsMatcher = regexp.MustCompile(`[^A-Za-z0-9._-]`)
)

// HashTag returns a 6 character lowercase hex identifier sourced from
// crypto/rand. Collisions are not safety critical here; a clash just
// means the user retries and draws a fresh tag.
func HashTag() (string, error) {
	buf := make([]byte, hashTagBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate output name tag: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// SanitizeBaseName normalises a filename base: surrounding whitespace
// trimmed, inner whitespace collapsed to underscores, anything outside
// [A-Za-z0-9._-] removed. An empty survivor falls back to "file" so
// the output always has a usable name.
func SanitizeBaseName(base string) string {
	base = strings.TrimSpace(base)
	base = whitespaceMatcher.ReplaceAllString(base, "_")
	base = illegalCharsMatcher.ReplaceAllString(base, "")
	base = strings.Trim(base, "._-")
	if base == "" {
		base = "file"
	}

	return base
}

// OutputName derives the filename (not path) for the cleaned copy of
// the given source. The source's extension is preserved verbatim.
func OutputName(sourcePath string) (string, error) {
	tag, err := HashTag()
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(sourcePath)
	base := strings.TrimSuffix(filepath.Base(sourcePath), ext)

	return fmt.Sprintf("%s_%s%s", tag, SanitizeBaseName(base), ext), nil
}

// OutputPath derives the full destination path for the cleaned copy:
// the source file's own directory joined with OutputName. The hash tag
// prefix means the result can never equal the source path itself.
func OutputPath(sourcePath string) (string, error) {
	name, err := OutputName(sourcePath)
	if err != nil {
		return "", err
	}

	return filepath.Join(filepath.Dir(sourcePath), name), nil
}

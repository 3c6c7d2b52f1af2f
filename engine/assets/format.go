package assets

import (
	"bytes"
	"errors"
	"image"
	"path"
	"strings"
)

// optimizedFormats is the preferred-format priority order, best compression
// first. A format is used only when its decoder probe passes.
var optimizedFormats = []string{".webp"}

// rewritableExts are the source extensions eligible for the optimized-format
// rewrite. URLs with any other extension, or none, load as-is.
var rewritableExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// probeOptimizedFormat returns the extension of the first optimized format
// with a registered decoder, or "" when none is available.
//
// The probe dispatches a format-specific magic header through
// image.DecodeConfig: a registered decoder rejects the truncated payload with
// its own error, while an unregistered format surfaces image.ErrFormat.
func probeOptimizedFormat() string {
	for _, ext := range optimizedFormats {
		if probeDecoder(ext) {
			return ext
		}
	}
	return ""
}

func probeDecoder(ext string) bool {
	var header []byte
	switch ext {
	case ".webp":
		header = []byte("RIFF\x00\x00\x00\x00WEBP")
	default:
		return false
	}

	_, _, err := image.DecodeConfig(bytes.NewReader(header))
	return !errors.Is(err, image.ErrFormat)
}

// optimizedVariant returns the URL rewritten to the loader's optimized format
// extension, or "" when no rewrite applies: no optimized format is available,
// the URL's extension is not rewritable, or the URL already uses the format.
func (l *loader) optimizedVariant(url string) string {
	if l.optimizedExt == "" {
		return ""
	}
	rewritten := rewriteExtension(url, l.optimizedExt)
	if rewritten == url {
		return ""
	}
	return rewritten
}

// rewriteExtension swaps a rewritable image extension for ext, returning the
// URL unchanged otherwise.
func rewriteExtension(url, ext string) string {
	e := path.Ext(url)
	if !rewritableExts[strings.ToLower(e)] {
		return url
	}
	return strings.TrimSuffix(url, e) + ext
}

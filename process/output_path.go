package process

import (
	"cmp"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
)

const outputExt = ".html"

// buildOutputPath returns output file path for the document. "src" is path
// of the document relative to the source (directory or archive) including
// file name. Unless nodirs is requested relative directory structure is kept.
// All path segments are transliterated and cleaned.
func buildOutputPath(src, dst string, nodirs bool) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	fileName := cleanPathSegment(base, "document") + outputExt

	if nodirs {
		return filepath.Join(dst, fileName)
	}

	parts := []string{dst}
	for segment := range strings.SplitSeq(filepath.ToSlash(filepath.Dir(src)), "/") {
		if segment == "" || segment == "." {
			continue
		}
		parts = append(parts, cleanPathSegment(segment, "_"))
	}
	return filepath.Join(append(parts, fileName)...)
}

func cleanPathSegment(segment, fallback string) string {
	return cmp.Or(slug.Make(segment), fallback)
}

package config

import (
	"path/filepath"
	"strings"
)

// IsRemote reports whether path is a URL-style locator (e.g. s3://bucket/key)
// rather than a local filesystem path.
func IsRemote(path string) bool {
	return strings.Contains(path, "://")
}

// IsRegionPath distinguishes BED paths from named region-set aliases in the
// variantRegions field.  A value containing a path separator or a recognized
// extension is a path; anything else is treated as an alias.  Validate and
// plan resolution share this heuristic.
func IsRegionPath(s string) bool {
	if strings.ContainsRune(s, '/') {
		return true
	}
	return strings.HasSuffix(s, ".bed") || strings.HasSuffix(s, ".bed.gz")
}

// Abspath anchors a relative local path at baseDir.  Absolute paths,
// URL-style locators, and the empty string pass through untouched, as does
// any path when baseDir is empty.
func Abspath(baseDir, path string) string {
	if path == "" || baseDir == "" || filepath.IsAbs(path) || IsRemote(path) {
		return path
	}
	if IsRemote(baseDir) {
		return strings.TrimSuffix(baseDir, "/") + "/" + path
	}
	return filepath.Join(baseDir, path)
}

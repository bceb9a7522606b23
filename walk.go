package doctran

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// SupportedExtensions lists the file extensions the pipeline accepts, in
// lowercase.
var SupportedExtensions = []string{".sgml", ".md", ".markdown", ".adoc", ".asciidoc", ".mdx"}

// ignoredDirs are directory names skipped during traversal.
var ignoredDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"translated":   true,
}

// SupportedPath reports whether the path has a supported extension.
func SupportedPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// MatchFiles walks dir recursively and returns the sorted paths of all
// supported files. The walk itself has no side effects; applying the
// per-file pipeline is the caller's fold over the returned slice, which
// keeps traversal restartable from any path.
func MatchFiles(dir string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if ignoredDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if SupportedPath(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

package vfs

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// NoFilesFound is the sentinel rendered when a glob search matches nothing.
// It lives at the textual tool boundary; programmatic callers should check
// GlobResult.Found instead of comparing strings.
const NoFilesFound = "No files found"

// GlobResult is the outcome of a glob search: matching paths ordered most
// recently modified first, ties broken by path ascending.
type GlobResult struct {
	Paths []string
}

// Found reports whether the search matched at least one file.
func (r GlobResult) Found() bool {
	return len(r.Paths) > 0
}

// Render formats the result for a conversational caller: newline-joined
// paths, or the NoFilesFound sentinel when nothing matched.
func (r GlobResult) Render() string {
	if !r.Found() {
		return NoFilesFound
	}
	return strings.Join(r.Paths, "\n")
}

// GlobSearch matches the files in a store snapshot against a glob pattern.
// Patterns support "*" (within a segment), "**" (across segments) and
// brace expansion ("{a,b}"). The subject matched is each path's portion
// relative to basePath; when a candidate equals basePath exactly the
// basename is matched instead, so "*.py" can find a file that is itself
// the base path.
//
// Glob search is a convenience function: an unusable basePath or pattern
// yields an empty result, never an error.
func GlobSearch(files map[string]*FileRecord, pattern, basePath string) GlobResult {
	base, err := NormalizePath(basePath)
	if err != nil {
		return GlobResult{}
	}
	if !doublestar.ValidatePattern(pattern) {
		return GlobResult{}
	}

	type match struct {
		path string
		rec  *FileRecord
	}
	var matches []match

	for path, rec := range files {
		if !strings.HasPrefix(path, base) {
			continue
		}
		subject := strings.TrimPrefix(path, base)
		subject = strings.TrimPrefix(subject, "/")
		if subject == "" {
			subject = Basename(path)
		}
		ok, err := doublestar.Match(pattern, subject)
		if err != nil || !ok {
			continue
		}
		matches = append(matches, match{path: path, rec: rec})
	}

	sort.Slice(matches, func(i, j int) bool {
		mi, mj := matches[i].rec.ModifiedAt, matches[j].rec.ModifiedAt
		if !mi.Equal(mj) {
			return mi.After(mj)
		}
		return matches[i].path < matches[j].path
	})

	result := GlobResult{Paths: make([]string, 0, len(matches))}
	for _, m := range matches {
		result.Paths = append(result.Paths, m.path)
	}
	return result
}

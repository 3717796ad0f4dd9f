package vfs

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// NoMatchesFound is the sentinel rendered when a grep search matches
// nothing. It is distinct from an error: zero matches is a normal result.
const NoMatchesFound = "No matches found"

// GrepMode selects the output shape of a grep search.
type GrepMode string

const (
	// GrepFilesWithMatches lists the paths with at least one matching line.
	GrepFilesWithMatches GrepMode = "files_with_matches"

	// GrepContent renders each matching line as "path:lineNumber:content".
	GrepContent GrepMode = "content"

	// GrepCount renders "path:matchCount" per matching file.
	GrepCount GrepMode = "count"
)

// GrepSearch scans the content lines of a store snapshot with a regular
// expression and formats the matches per mode. The pattern uses search
// semantics: a line matches when the expression matches anywhere in it.
//
// A malformed regex is reported as an "Invalid regex pattern" message
// rather than an error, since the result is rendered to a conversational
// caller who can rephrase and retry. An unusable basePath yields the
// NoMatchesFound sentinel. The include argument, when non-empty, is a glob
// applied to each candidate's basename only.
func GrepSearch(files map[string]*FileRecord, pattern, basePath, include string, mode GrepMode) string {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Sprintf("Invalid regex pattern: %v", err)
	}

	base, err := NormalizePath(basePath)
	if err != nil {
		return NoMatchesFound
	}

	var includeGlob glob.Glob
	if include != "" {
		includeGlob, err = glob.Compile(include)
		if err != nil {
			return NoMatchesFound
		}
	}

	// Deterministic file iteration order: sorted path ascending.
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	type fileMatches struct {
		path  string
		lines []int
	}
	var results []fileMatches

	for _, p := range paths {
		if !strings.HasPrefix(p, base) {
			continue
		}
		if includeGlob != nil && !includeGlob.Match(Basename(p)) {
			continue
		}
		var lines []int
		for i, line := range files[p].Content {
			if re.MatchString(line) {
				lines = append(lines, i+1)
			}
		}
		if len(lines) > 0 {
			results = append(results, fileMatches{path: p, lines: lines})
		}
	}

	if len(results) == 0 {
		return NoMatchesFound
	}

	var sb strings.Builder
	switch mode {
	case GrepContent:
		for _, fm := range results {
			content := files[fm.path].Content
			for _, n := range fm.lines {
				if sb.Len() > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString(fmt.Sprintf("%s:%d:%s", fm.path, n, content[n-1]))
			}
		}
	case GrepCount:
		for _, fm := range results {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("%s:%d", fm.path, len(fm.lines)))
		}
	default:
		// files_with_matches, also the fallback for an unknown mode
		for _, fm := range results {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(fm.path)
		}
	}
	return sb.String()
}

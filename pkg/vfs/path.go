package vfs

import (
	"fmt"
	"strings"
)

// NormalizePath canonicalizes a virtual file path. Paths must be non-empty
// and rooted at "/". Repeated slashes collapse, "." segments drop, and a
// trailing slash is stripped (root "/" is kept). Paths containing a ".."
// segment are rejected rather than resolved so a stored key can never
// escape the tree it was written under.
//
// NormalizePath is idempotent: normalizing an already-normalized path
// returns it unchanged.
func NormalizePath(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if !strings.HasPrefix(raw, "/") {
		return "", fmt.Errorf("%w: %q must start with /", ErrInvalidPath, raw)
	}

	segments := strings.Split(raw, "/")
	cleaned := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("%w: %q contains a parent-directory segment", ErrInvalidPath, raw)
		default:
			cleaned = append(cleaned, seg)
		}
	}

	if len(cleaned) == 0 {
		return "/", nil
	}
	return "/" + strings.Join(cleaned, "/"), nil
}

// Basename returns the final segment of a normalized path.
// The root path has no segments, so its basename is "/" itself.
func Basename(path string) string {
	if path == "/" {
		return "/"
	}
	idx := strings.LastIndex(path, "/")
	return path[idx+1:]
}

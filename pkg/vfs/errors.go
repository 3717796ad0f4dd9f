package vfs

import "errors"

var (
	// ErrInvalidPath indicates a path that failed normalization (empty,
	// not rooted at /, or containing a parent-directory segment).
	ErrInvalidPath = errors.New("vfs: invalid path")

	// ErrNotFound indicates a read of a path with no stored file.
	ErrNotFound = errors.New("vfs: file not found")

	// ErrUnsupported indicates an operation the target subtree refuses,
	// such as deleting under the long-term memory mount.
	ErrUnsupported = errors.New("vfs: operation not supported")
)

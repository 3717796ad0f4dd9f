package vfs

import (
	"strings"
	"time"
)

// FileRecord is the unit of storage for a virtual file: the content split
// into lines plus creation and modification timestamps. Lines never contain
// embedded terminators; a record with zero lines is a valid empty file.
//
// Records handed out by a Store are deep copies. Mutating a returned record
// never changes stored state; all content changes go through a write
// operation so ModifiedAt is bumped atomically with the content.
type FileRecord struct {
	Content    []string  // File content, one element per line
	CreatedAt  time.Time // When the file was first written
	ModifiedAt time.Time // When the content last changed
}

// NewFileRecord creates a record from raw text, splitting on newlines.
// Both timestamps are set to the current time.
func NewFileRecord(text string) *FileRecord {
	now := time.Now().UTC()
	return &FileRecord{
		Content:    splitLines(text),
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// Update replaces the record's content and bumps ModifiedAt.
// CreatedAt is preserved from the original write.
func (r *FileRecord) Update(text string) {
	r.Content = splitLines(text)
	r.ModifiedAt = time.Now().UTC()
}

// String joins the content lines back into the original text.
func (r *FileRecord) String() string {
	return strings.Join(r.Content, "\n")
}

// Clone returns a deep copy of the record.
func (r *FileRecord) Clone() *FileRecord {
	content := make([]string, len(r.Content))
	copy(content, r.Content)
	return &FileRecord{
		Content:    content,
		CreatedAt:  r.CreatedAt,
		ModifiedAt: r.ModifiedAt,
	}
}

// splitLines splits text on "\n". An empty string yields a single empty
// line, matching how the content round-trips through String.
func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

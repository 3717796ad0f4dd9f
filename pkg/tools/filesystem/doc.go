// Package filesystem provides the agent-facing tool surfaces over a
// virtual file store: ls, read_file, write_file, edit_file, delete_file,
// glob and grep. Each tool operates on the vfs.Store it is constructed
// with, so an agent session's tools share one store instance and
// concurrent sessions get their own.
//
// These tools are the textual boundary of the store: sentinel strings
// ("No files found", "No matches found") and error messages are rendered
// here for a conversational caller rather than raised as Go errors.
package filesystem

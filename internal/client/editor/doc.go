// Package editor contains the UI-independent state machines behind the
// slide and section editors: drafts kept apart from the server copy,
// debounced autosave, refine, revert and like/dislike feedback.
//
// The TUI screens in package tui drive these types; every method is safe
// for concurrent use because autosave completes on a timer goroutine.
package editor

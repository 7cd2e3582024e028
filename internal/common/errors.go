// Package common defines shared constants and sentinel errors used across
// the slidesmith client packages. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Session errors.
	ErrNoSession      = errors.New("no active session")
	ErrSessionExpired = errors.New("session expired")

	// Editor errors.
	ErrEditorClosed  = errors.New("editor closed")
	ErrRefineRunning = errors.New("refine already in progress")
	ErrEmptyDraft    = errors.New("draft is empty")
)

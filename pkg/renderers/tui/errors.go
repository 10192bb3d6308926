package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoBindings is returned when a layout has no bound widget to fill.
	ErrNoBindings = errors.New("tui: layout has no bound widgets")
)

package redunlive

import "errors"

var (
	// ErrSameDevice indicates an attempt to assign the same physical
	// device (matched by serial number) as both primary and secondary
	// of a room.
	ErrSameDevice = errors.New("redunlive: same capture agent for primary and secondary not allowed")

	// ErrNilAgent indicates a nil agent was passed where one is required.
	ErrNilAgent = errors.New("redunlive: capture agent required")
)

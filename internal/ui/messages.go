package ui

import (
	"nextart/internal/imaging"
	"nextart/internal/index"
)

// Every asynchronous operation completes as exactly one of these messages.
// Completion messages are self-identifying: they carry the rom index or path
// they refer to, so a stale arrival can be recognized and absorbed.

// dirChosenMsg reports the folder picked during setup.
type dirChosenMsg struct {
	path string
}

// indexDoneMsg carries the scan task's private state back into the machine.
type indexDoneMsg struct {
	state *index.State
}

// previewLoadedMsg carries a decoded box-art image for one rom.
type previewLoadedMsg struct {
	romIndex int
	buf      *imaging.Buffer
}

// imageWrittenMsg reports a successful box-art write and its on-disk size.
type imageWrittenMsg struct {
	romIndex int
	size     uint64
}

// recordErrorMsg appends a recoverable failure to the session error log.
type recordErrorMsg struct {
	text string
}

// fatalMsg replaces the current view with the fatal error view.
type fatalMsg struct {
	desc string
}

// Navigation events. Keys translate into these so that the transition
// rules, including the ownership guard, live in one place.
type (
	openCollectionListMsg struct{}
	openErrorListMsg      struct{}
	resetMsg              struct{}
)

// openRomListMsg opens the rom list for one collection.
type openRomListMsg struct {
	title      string
	romIndices []int
}

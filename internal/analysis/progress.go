package analysis

import (
	"fmt"
	"io"
)

// ProgressEvent represents a single progress update during analysis.
type ProgressEvent struct {
	Type    string  `json:"type"`              // "info", "done", "error"
	Message string  `json:"message,omitempty"` // human-readable message
	Report  *Report `json:"report,omitempty"`  // final report (for "done" type)
	Charts  any     `json:"charts,omitempty"`  // chart options (for "done" type)
}

// ProgressEmitter receives progress events during analysis.
type ProgressEmitter interface {
	Emit(event ProgressEvent)
}

// TextEmitter formats progress events as human-readable text for CLI output.
type TextEmitter struct {
	W io.Writer
}

// NewTextEmitter returns a TextEmitter writing to w.
func NewTextEmitter(w io.Writer) *TextEmitter {
	return &TextEmitter{W: w}
}

// Emit writes a formatted progress line to the underlying writer.
func (e *TextEmitter) Emit(ev ProgressEvent) {
	switch ev.Type {
	case "info":
		fmt.Fprintf(e.W, "  %s\n", ev.Message)
	case "error":
		fmt.Fprintf(e.W, "Error: %s\n", ev.Message)
	}
}

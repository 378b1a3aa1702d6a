package main

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/kamilpajak/runalyze/internal/analysis"
	"github.com/mattn/go-isatty"
)

// progressEmitter reports analysis progress on the terminal.
type progressEmitter interface {
	analysis.ProgressEmitter
	Close()
}

// newProgressEmitter returns a spinner when stderr is a terminal and plain
// text lines otherwise.
func newProgressEmitter(w *os.File) progressEmitter {
	if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
		return newSpinnerEmitter(w)
	}
	return textEmitter{analysis.NewTextEmitter(w)}
}

type textEmitter struct {
	*analysis.TextEmitter
}

func (textEmitter) Close() {}

type spinnerEmitter struct {
	s *spinner.Spinner
}

func newSpinnerEmitter(w io.Writer) *spinnerEmitter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " Starting analysis..."
	s.Start()
	return &spinnerEmitter{s: s}
}

func (e *spinnerEmitter) Emit(ev analysis.ProgressEvent) {
	if ev.Type != "info" || ev.Message == "" {
		return
	}
	e.s.Lock()
	e.s.Suffix = " " + ev.Message
	e.s.Unlock()
}

func (e *spinnerEmitter) Close() {
	e.s.Stop()
}

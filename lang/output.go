package lang

import (
	"io"
	"slices"
	"sync"
)

// Output receives the lines written by print statements.
type Output interface {
	WriteLine(text string) error
}

// OutputFunc adapts a function to [Output].
type OutputFunc func(text string) error

// WriteLine calls f(text).
func (f OutputFunc) WriteLine(text string) error { return f(text) }

// WriterOutput returns an [Output] that writes each line to w followed by a
// newline.
func WriterOutput(w io.Writer) Output {
	return OutputFunc(func(text string) error {
		_, err := io.WriteString(w, text+"\n")

		return err
	})
}

// Lines is an [Output] that records every line in memory.
// The zero value is ready to use.
type Lines struct {
	mu    sync.Mutex
	lines []string
}

// WriteLine appends text.
func (l *Lines) WriteLine(text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = append(l.lines, text)

	return nil
}

// Lines returns a copy of the recorded lines.
func (l *Lines) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.lines)
}

// Reset discards the recorded lines.
func (l *Lines) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = nil
}

// discard drops every line.
var discard = OutputFunc(func(string) error { return nil })

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// StderrLogger writes diagnostic lines to a writer. Debug lines are dropped unless verbose.
type StderrLogger struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
	now     func() time.Time
}

// NewStderrLogger creates a logger writing to w.
func NewStderrLogger(w io.Writer, verbose bool) *StderrLogger {
	return &StderrLogger{w: w, verbose: verbose, now: time.Now}
}

func (l *StderrLogger) Debug(message string) {
	if l.verbose {
		l.write("DEBUG", message)
	}
}

func (l *StderrLogger) Info(message string) {
	l.write("INFO", message)
}

func (l *StderrLogger) Error(message string) {
	l.write("ERROR", message)
}

func (l *StderrLogger) write(level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "[%s] %s: %s\n", l.now().Format("15:04:05"), level, message)
}

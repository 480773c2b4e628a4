package process

import (
	"strings"
	"time"
)

// Result is a finished producer.
type Result struct {
	Stdout []byte
	// Stderr keeps only the last stderrTailBytes written.
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// StderrTail returns at most the last n bytes of stderr, trimmed, for error messages.
func (r *Result) StderrTail(n int) string {
	if r == nil {
		return ""
	}
	s := r.Stderr
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return strings.TrimSpace(string(s))
}

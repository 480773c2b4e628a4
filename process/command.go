package process

import (
	"io"
	"time"
)

// DefaultShell runs pipe-style audio source descriptors.
const DefaultShell = "sh"

// DefaultMaxOutput bounds the stdout captured from one pipe source: one
// hour of 16 kHz 16-bit stereo PCM is about 230 MB.
const DefaultMaxOutput int64 = 1 << 31

// Command describes one audio producer, usually the left side of a Kaldi
// "cmd |" rxfilename.
type Command struct {
	Binary string
	Args   []string
	// Env entries (KEY=value) are appended to the parent environment.
	Env   []string
	Stdin io.Reader
	// GracePeriod separates SIGTERM from SIGKILL on cancellation; 5s if zero.
	GracePeriod time.Duration
	// MaxOutput caps captured stdout; DefaultMaxOutput if zero.
	MaxOutput int64
}

// Shell builds a command that runs cmdline through `sh -c`, the way Kaldi
// rxfilenames such as "sox a.flac -t wav - |" are meant to be executed.
func Shell(cmdline string) Command {
	return Command{Binary: DefaultShell, Args: []string{"-c", cmdline}}
}

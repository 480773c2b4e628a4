package process

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"
)

const stderrTailBytes = 512

// ErrOutputTooLarge is returned when a producer writes more than MaxOutput bytes.
var ErrOutputTooLarge = stderrors.New("process: output exceeds limit")

// Run starts cmd in its own process group and collects its stdout. Canceling
// ctx sends SIGTERM to the whole group, then SIGKILL after the grace period,
// so a pipeline like "sox ... | sph2pipe ..." does not leave orphans.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, fmt.Errorf("process: binary is required")
	}
	limit := cmd.MaxOutput
	if limit <= 0 {
		limit = DefaultMaxOutput
	}
	grace := cmd.GracePeriod
	if grace <= 0 {
		grace = 5 * time.Second
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // pipe sources are user-provided commands
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	c.Stdin = cmd.Stdin

	stdout := &cappedBuffer{limit: limit}
	stderr := &tailBuffer{size: stderrTailBytes}
	c.Stdout, c.Stderr = stdout, stderr

	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error { return signalGroup(c, syscall.SIGTERM) }
	c.WaitDelay = grace

	started := time.Now()
	err := c.Run()
	res := &Result{
		Stdout:   stdout.buf.Bytes(),
		Stderr:   stderr.bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Duration: time.Since(started),
	}

	switch {
	case err == nil:
		return res, nil
	case stdout.exceeded:
		return res, fmt.Errorf("%w (%d bytes)", ErrOutputTooLarge, limit)
	case ctx.Err() != nil:
		return res, fmt.Errorf("process: canceled: %w", ctx.Err())
	}
	if tail := res.StderrTail(stderrTailBytes); tail != "" {
		return res, fmt.Errorf("process: exit code %d: %w: %s", res.ExitCode, err, tail)
	}
	return res, fmt.Errorf("process: exit code %d: %w", res.ExitCode, err)
}

func signalGroup(c *exec.Cmd, sig syscall.Signal) error {
	if c.Process == nil {
		return nil
	}
	return syscall.Kill(-c.Process.Pid, sig)
}

// cappedBuffer fails writes once limit bytes are stored, which breaks the
// producer's stdout pipe.
type cappedBuffer struct {
	buf      bytes.Buffer
	limit    int64
	exceeded bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if int64(b.buf.Len())+int64(len(p)) > b.limit {
		b.exceeded = true
		return 0, ErrOutputTooLarge
	}
	return b.buf.Write(p)
}

// tailBuffer keeps the last size bytes written.
type tailBuffer struct {
	data []byte
	size int
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	b.data = append(b.data, p...)
	if over := len(b.data) - b.size; over > 0 {
		b.data = append(b.data[:0], b.data[over:]...)
	}
	return n, nil
}

func (b *tailBuffer) bytes() []byte { return b.data }

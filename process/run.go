package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"syscall"
	"time"
)

const defaultMaxStderr = 64 << 10

// Run executes a subprocess, buffering stdout and stderr, and waits for it.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	c, stderr, err := prepare(ctx, cmd)
	if err != nil {
		return nil, err
	}
	var stdout bytes.Buffer
	c.Stdout = &stdout

	start := time.Now()
	err = c.Run()
	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}
	return result, classify(ctx, cmd.Binary, result, err)
}

// Stream starts a subprocess and passes its stdout to consume while it
// runs. When consume returns an error the process group is terminated.
// Unread output is discarded so the child never blocks on a full pipe.
func Stream(ctx context.Context, cmd Command, consume func(io.Reader) error) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c, stderr, err := prepare(ctx, cmd)
	if err != nil {
		return nil, err
	}
	stdout, err := c.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("process: stdout pipe: %w", err)
	}

	start := time.Now()
	if err := c.Start(); err != nil {
		result := &Result{ExitCode: -1}
		return result, classify(ctx, cmd.Binary, result, err)
	}

	consumeErr := consume(stdout)
	if consumeErr != nil {
		cancel()
	}
	_, _ = io.Copy(io.Discard, stdout)
	waitErr := c.Wait()

	result := &Result{
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}
	if consumeErr != nil {
		return result, consumeErr
	}
	return result, classify(ctx, cmd.Binary, result, waitErr)
}

// LookPath reports whether binary can be executed, wrapping ErrNotFound.
func LookPath(binary string) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, binary)
	}
	return path, nil
}

func prepare(ctx context.Context, cmd Command) (*exec.Cmd, *limitedBuffer, error) {
	if cmd.Binary == "" {
		return nil, nil, fmt.Errorf("process: binary is required")
	}
	grace := cmd.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	limit := cmd.MaxStderr
	if limit <= 0 {
		limit = defaultMaxStderr
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // running configured tools is the point
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	c.Stdin = cmd.Stdin
	stderr := &limitedBuffer{limit: limit}
	c.Stderr = stderr

	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = grace
	return c, stderr, nil
}

func classify(ctx context.Context, binary string, result *Result, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) || (result.ExitCode == -1 && errors.Is(err, fs.ErrNotExist)) {
		return fmt.Errorf("%w: %s", ErrNotFound, binary)
	}
	if ctx.Err() != nil {
		return fmt.Errorf("process: %s killed by context: %w", binary, ctx.Err())
	}
	return fmt.Errorf("process: %s exit code %d: %w", binary, result.ExitCode, err)
}

// limitedBuffer keeps the first limit bytes written and drops the rest.
type limitedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) Bytes() []byte { return b.buf.Bytes() }

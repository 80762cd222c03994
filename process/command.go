// Package process runs external tools with scoped lifetimes. Every
// subprocess gets its own process group; cancelling the context sends
// SIGTERM to the group and SIGKILL after a grace period, and the process
// is always reaped before the call returns.
package process

import (
	"errors"
	"io"
	"time"
)

// ErrNotFound is wrapped by errors from Run and Stream when the binary
// cannot be located.
var ErrNotFound = errors.New("process: executable not found")

// DefaultGracePeriod is the SIGTERM to SIGKILL delay when Command leaves it unset.
const DefaultGracePeriod = 5 * time.Second

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or a name resolved via PATH.
	Binary string
	Args   []string
	Dir    string
	// Env is appended to the parent environment.
	Env   []string
	Stdin io.Reader
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	GracePeriod time.Duration
	// MaxStderr caps captured stderr bytes. Zero means 64KB.
	MaxStderr int
}

// Result holds the output and status of a finished subprocess.
type Result struct {
	Stdout []byte
	Stderr []byte
	// ExitCode is -1 when the process was killed or never started.
	ExitCode int
	Duration time.Duration
}

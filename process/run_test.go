package process_test

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/jumptube/process"
)

func TestRunEcho(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "echo",
		Args:   []string{"https://audio.example/stream"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", result.ExitCode)
	}
	if got := strings.TrimSpace(string(result.Stdout)); got != "https://audio.example/stream" {
		t.Fatalf("unexpected stdout %q", got)
	}
}

func TestRunStderrAndExitCode(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo 'ERROR: private video' >&2; exit 3"},
	})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if result.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", result.ExitCode)
	}
	if got := strings.TrimSpace(string(result.Stderr)); got != "ERROR: private video" {
		t.Errorf("unexpected stderr %q", got)
	}
}

func TestRunNotFound(t *testing.T) {
	_, err := process.Run(context.Background(), process.Command{Binary: "definitely-not-a-real-tool-xyz"})
	if !errors.Is(err, process.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = process.Run(context.Background(), process.Command{Binary: filepath.Join(t.TempDir(), "missing")})
	if !errors.Is(err, process.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for absolute path, got %v", err)
	}
}

func TestRunStderrIsCapped(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary:    "sh",
		Args:      []string{"-c", "printf 'abcdefghij' >&2"},
		MaxStderr: 4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result.Stderr) != "abcd" {
		t.Errorf("expected capped stderr, got %q", result.Stderr)
	}
}

func TestRunContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := process.Run(ctx, process.Command{
		Binary:      "sleep",
		Args:        []string{"10"},
		GracePeriod: 500 * time.Millisecond,
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("process was not terminated promptly: %v", elapsed)
	}
}

func TestStreamConsumesOutput(t *testing.T) {
	var lines []string
	result, err := process.Stream(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo one; echo two; echo three"},
	}, func(r io.Reader) error {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		return sc.Err()
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("expected exit 0, got %d", result.ExitCode)
	}
	if strings.Join(lines, ",") != "one,two,three" {
		t.Errorf("unexpected lines %v", lines)
	}
}

func TestStreamConsumerErrorTerminatesProcess(t *testing.T) {
	stop := errors.New("enough")
	start := time.Now()
	_, err := process.Stream(context.Background(), process.Command{
		Binary:      "sh",
		Args:        []string{"-c", "while true; do echo tick; sleep 0.01; done"},
		GracePeriod: 500 * time.Millisecond,
	}, func(r io.Reader) error {
		sc := bufio.NewScanner(r)
		sc.Scan()
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected consumer error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("process group was not terminated promptly: %v", elapsed)
	}
}

func TestStreamEarlyReturnDoesNotBlock(t *testing.T) {
	// Writes more than a pipe buffer; the consumer reads nothing.
	_, err := process.Stream(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "head -c 1048576 /dev/zero"},
	}, func(io.Reader) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStreamNotFound(t *testing.T) {
	called := false
	_, err := process.Stream(context.Background(), process.Command{Binary: "no-such-transcoder-xyz"},
		func(io.Reader) error { called = true; return nil })
	if !errors.Is(err, process.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if called {
		t.Error("consumer must not run when the process failed to start")
	}
}

func TestLookPath(t *testing.T) {
	if _, err := process.LookPath("sh"); err != nil {
		t.Fatalf("expected sh on PATH: %v", err)
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "tool")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := process.LookPath(script); err != nil {
		t.Fatalf("expected executable script to resolve: %v", err)
	}
	if _, err := process.LookPath("no-such-tool-xyz"); !errors.Is(err, process.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

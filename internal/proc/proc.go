// Package proc wraps the external static-server subprocess in an
// explicit lifecycle: start, signal, wait, with a typed exit result the
// caller can turn into its own exit code.
package proc

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ExitError carries a subprocess's nonzero exit code.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
}

// Handle is a subprocess with a defined start/signal/wait lifecycle.
type Handle struct {
	cmd  *exec.Cmd
	name string
}

// Command builds a handle for the named binary. The subprocess inherits
// stdio so the server's own output reaches the terminal.
func Command(name string, args ...string) *Handle {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return &Handle{cmd: cmd, name: name}
}

// Start launches the subprocess. A binary missing from PATH produces a
// descriptive error naming it, never a silent hang.
func (h *Handle) Start() error {
	if err := h.cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("static server %q not found on PATH (install it, or serve with --builtin): %w", h.name, err)
		}
		return fmt.Errorf("starting %s: %w", h.name, err)
	}
	return nil
}

// Signal forwards sig to the running subprocess.
func (h *Handle) Signal(sig os.Signal) error {
	if h.cmd.Process == nil {
		return fmt.Errorf("%s not started", h.name)
	}
	return h.cmd.Process.Signal(sig)
}

// Wait blocks until the subprocess exits. A clean exit returns nil, a
// nonzero (or signal-terminated) exit returns *ExitError, and anything
// else is a wait failure. Signal termination surfaces as a negative
// Code, matching exec.ExitError.
func (h *Handle) Wait() error {
	err := h.cmd.Wait()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: h.name, Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("waiting for %s: %w", h.name, err)
}

package proc

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestStartMissingBinaryNamesIt(t *testing.T) {
	h := Command("docshell-no-such-binary-xyz")
	err := h.Start()
	if err == nil {
		t.Fatal("expected an error for a missing binary")
	}
	if !strings.Contains(err.Error(), "docshell-no-such-binary-xyz") {
		t.Errorf("error should name the missing binary, got %q", err)
	}
}

func TestWaitCleanExit(t *testing.T) {
	h := Command("sh", "-c", "exit 0")
	if err := h.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := h.Wait(); err != nil {
		t.Errorf("expected nil for a clean exit, got %v", err)
	}
}

func TestWaitPropagatesExitCode(t *testing.T) {
	h := Command("sh", "-c", "exit 7")
	if err := h.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	err := h.Wait()
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if exitErr.Code != 7 {
		t.Errorf("Code = %d, want 7", exitErr.Code)
	}
	if !strings.Contains(exitErr.Error(), "sh") {
		t.Errorf("error should name the command, got %q", exitErr)
	}
}

func TestSignalBeforeStart(t *testing.T) {
	h := Command("sh", "-c", "sleep 1")
	if err := h.Signal(os.Interrupt); err == nil {
		t.Error("expected an error when signaling an unstarted process")
	}
}

func TestSignalTerminatesProcess(t *testing.T) {
	h := Command("sh", "-c", "sleep 30")
	if err := h.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := h.Signal(os.Kill); err != nil {
		t.Fatalf("Signal: %v", err)
	}
	err := h.Wait()
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError after kill, got %v", err)
	}
	if exitErr.Code >= 0 {
		t.Errorf("signal termination should report a negative code, got %d", exitErr.Code)
	}
}

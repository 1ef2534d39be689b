//go:build !windows

package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// RunInteractive runs cmd under a pseudo-terminal with the user's
// terminal switched to raw mode, wiring stdin/stdout through the PTY
// until the child exits. This is how `anvil run -s` hands the terminal
// to `docker attach` and how `anvil debug` hosts its LLDB session.
//
// Raw mode matters: without it, the local line discipline would swallow
// the Ctrl-a x sequence QEMU uses to end the simulation and break LLDB's
// line editing.
//
// The child's exit status is returned as (status, nil); errors are
// reserved for failures to start or manage the child itself.
func RunInteractive(cmd *exec.Cmd) (int, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return 0, fmt.Errorf("failed to start %q under a pty: %w", cmd.Path, err)
	}
	defer func() { _ = ptmx.Close() }()

	// Track terminal resizes so QEMU/LLDB redraw correctly. The initial
	// SIGWINCH primes the PTY with the current window size.
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	go func() {
		for range winch {
			_ = pty.InheritSize(os.Stdin, ptmx)
		}
	}()
	winch <- syscall.SIGWINCH
	defer func() {
		signal.Stop(winch)
		close(winch)
	}()

	// Switch the controlling terminal to raw mode for the duration of
	// the session. Skipped silently when stdin is not a terminal (e.g.
	// output piped in CI), where raw mode is neither possible nor needed.
	stdinFd := int(os.Stdin.Fd())
	if term.IsTerminal(stdinFd) {
		oldState, err := term.MakeRaw(stdinFd)
		if err != nil {
			return 0, fmt.Errorf("failed to switch terminal to raw mode: %w", err)
		}
		defer func() { _ = term.Restore(stdinFd, oldState) }()
	}

	// Pump stdin into the PTY in the background. The goroutine dies on
	// its own when the PTY closes after child exit.
	go func() {
		_, _ = io.Copy(ptmx, os.Stdin)
	}()

	// Pump PTY output to the user's terminal until the child closes its
	// side. An error here usually just means the PTY closed mid-copy,
	// which is the normal end-of-session signal.
	_, _ = io.Copy(os.Stdout, ptmx)

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("failed waiting for %q: %w", cmd.Path, err)
	}
	return 0, nil
}

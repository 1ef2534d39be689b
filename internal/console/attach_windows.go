//go:build windows

package console

import (
	"fmt"
	"os/exec"
)

// RunInteractive is not supported on Windows: the Unix PTY plumbing has
// no direct equivalent, and wiring ConPTY would duplicate what the
// docker CLI already does natively there.
//
// Users on Windows can run the printed docker attach/exec command in
// their own terminal instead.
func RunInteractive(cmd *exec.Cmd) (int, error) {
	return 0, fmt.Errorf(
		"interactive sessions are not supported on Windows; run %q directly in your terminal",
		cmd.String(),
	)
}

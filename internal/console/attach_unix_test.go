//go:build !windows

package console

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunInteractive_ExitStatusZero verifies that a clean child exit is
// reported as status 0 with no error.
func TestRunInteractive_ExitStatusZero(t *testing.T) {
	status, err := RunInteractive(exec.Command("true"))
	require.NoError(t, err)
	assert.Equal(t, 0, status)
}

// TestRunInteractive_ExitStatusPassthrough verifies that a non-zero
// child exit is surfaced as (status, nil), not as an error — callers
// pass the status straight through to the OS.
func TestRunInteractive_ExitStatusPassthrough(t *testing.T) {
	status, err := RunInteractive(exec.Command("sh", "-c", "exit 3"))
	require.NoError(t, err)
	assert.Equal(t, 3, status)
}

// TestRunInteractive_MissingBinary verifies that a binary that cannot be
// started yields an error rather than a fake exit status.
func TestRunInteractive_MissingBinary(t *testing.T) {
	_, err := RunInteractive(exec.Command("/nonexistent/binary"))
	assert.Error(t, err)
}

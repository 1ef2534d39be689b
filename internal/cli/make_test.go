// Package cli — make_test.go contains unit tests for the make command's
// argument validation, which runs before any Docker interaction and is
// therefore testable without a daemon.
package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-labs/anvil/internal/model"
)

// TestRunMake_InterleaveRequiresDis verifies that -S with any target
// other than dis is rejected as a validation error.
func TestRunMake_InterleaveRequiresDis(t *testing.T) {
	for _, target := range []string{"all", "clean", "rebuild", "syms", "sects"} {
		t.Run(target, func(t *testing.T) {
			flags := &makeFlags{project: ".", optimize: -1, interleave: true}

			err := runMake(context.Background(), target, flags)
			require.Error(t, err)

			var cliErr *model.CLIError
			require.ErrorAs(t, err, &cliErr)
			assert.Equal(t, model.ExitGeneralError, cliErr.Code)
			assert.Contains(t, err.Error(), "dis")
		})
	}
}

// TestRunMake_InvalidTarget verifies unknown targets are rejected with
// the valid set named in the error.
func TestRunMake_InvalidTarget(t *testing.T) {
	flags := &makeFlags{project: ".", optimize: -1}

	err := runMake(context.Background(), "install", flags)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitGeneralError, cliErr.Code)
	assert.Contains(t, err.Error(), "rebuild")
}

// TestRunMake_InvalidOptLevel verifies the -O range check.
func TestRunMake_InvalidOptLevel(t *testing.T) {
	flags := &makeFlags{project: ".", optimize: 5}

	err := runMake(context.Background(), "all", flags)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitGeneralError, cliErr.Code)
	assert.Contains(t, err.Error(), "optimization level")
}

// TestRunMake_MissingProjectDir verifies that a nonexistent project
// directory maps to the project-config exit code.
func TestRunMake_MissingProjectDir(t *testing.T) {
	flags := &makeFlags{
		project:  filepath.Join(t.TempDir(), "no-such-project"),
		optimize: -1,
	}

	err := runMake(context.Background(), "all", flags)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitProjectConfig, cliErr.Code)
}

// Package cli — root_test.go verifies the root command wiring: every
// subcommand registered, global flags present, and flag-level argument
// validation on the subcommands.
package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewRootCommand_Subcommands verifies all subcommands are registered.
func TestNewRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	want := []string{"make", "run", "debug", "pull", "ps", "prune", "opcode", "register"}
	got := make(map[string]bool)
	for _, cmd := range root.Commands() {
		got[cmd.Name()] = true
	}

	for _, name := range want {
		assert.True(t, got[name], "subcommand %q not registered", name)
	}
}

// TestNewRootCommand_GlobalFlags verifies the persistent flags are
// defined on the root command.
func TestNewRootCommand_GlobalFlags(t *testing.T) {
	root := NewRootCommand()

	assert.NotNil(t, root.PersistentFlags().Lookup("json"))
	assert.NotNil(t, root.PersistentFlags().Lookup("verbose"))
}

// TestMakeCommand_Flags verifies the make command's flag surface.
func TestMakeCommand_Flags(t *testing.T) {
	cmd := NewMakeCommand()

	for _, name := range []string{"project", "image", "tag", "optimize", "interleave"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %q not defined", name)
	}

	// -O defaults to "unset" so anvil.json can supply the project default.
	opt, err := cmd.Flags().GetInt("optimize")
	require.NoError(t, err)
	assert.Equal(t, -1, opt)
}

// TestRunCommand_Flags verifies the run command's flag surface.
func TestRunCommand_Flags(t *testing.T) {
	cmd := NewRunCommand()

	for _, name := range []string{"project", "image", "tag", "gdb", "publish-gdb"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %q not defined", name)
	}
}

// TestDebugCommand_Args verifies debug requires exactly one container
// argument.
func TestDebugCommand_Args(t *testing.T) {
	cmd := NewDebugCommand()

	require.Error(t, cmd.Args(cmd, []string{}))
	require.Error(t, cmd.Args(cmd, []string{"a", "b"}))
	assert.NoError(t, cmd.Args(cmd, []string{"1a2b3c4d5e6f7a8b"}))
}

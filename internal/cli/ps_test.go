// Package cli — ps_test.go contains unit tests for the pure formatting
// functions used by the ps command.
//
// These tests verify output formatting without requiring a Docker daemon
// or any external dependencies.
package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/anvil-labs/anvil/internal/model"
)

// TestFormatPsTable verifies the text table rendering of simulation
// containers: header, short IDs, gdb marker, and the empty case.
func TestFormatPsTable(t *testing.T) {
	created := time.Date(2025, 8, 25, 10, 30, 0, 0, time.UTC)

	sims := []model.SimulationInfo{
		{
			ContainerID:   "1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2b",
			ContainerName: "upbeat_hopper",
			ProjectPath:   "/home/user/boot-flow",
			GDBServer:     true,
			Status:        "running",
			CreatedAt:     created,
		},
		{
			ContainerID:   "ffff000011112222333344445555666677778888999900001111222233334444",
			ContainerName: "sad_meitner",
			ProjectPath:   "/home/user/uart-echo",
			GDBServer:     false,
			Status:        "exited",
			CreatedAt:     created,
		},
	}

	out := formatPsTable(sims)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3, "header plus one line per simulation")

	// Header columns.
	assert.Contains(t, lines[0], "CONTAINER")
	assert.Contains(t, lines[0], "GDB")
	assert.Contains(t, lines[0], "PROJECT")

	// IDs are truncated to the 16-char short form.
	assert.Contains(t, lines[1], "1a2b3c4d5e6f7a8b")
	assert.NotContains(t, lines[1], "1a2b3c4d5e6f7a8b9c")

	assert.Contains(t, lines[1], "yes")
	assert.Contains(t, lines[2], "no")
	assert.Contains(t, lines[2], "/home/user/uart-echo")
}

// TestFormatPsTable_Empty verifies the no-simulations message.
func TestFormatPsTable_Empty(t *testing.T) {
	out := formatPsTable(nil)
	assert.Equal(t, "No simulation containers found.\n", out)
}

package docker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSimulationLabels_RoundTrip verifies that a label map produced by
// BuildSimulationLabels can be parsed back into the same simulation
// metadata. Labels are anvil's only persistence mechanism, so this
// round-trip must be lossless.
func TestSimulationLabels_RoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)

	// Act: build and re-parse.
	labels := BuildSimulationLabels("/home/dev/exercises/hello-world", true, createdAt)
	info, err := ParseSimulationLabels(labels)

	// Assert: everything survives the trip.
	require.NoError(t, err)
	assert.Equal(t, "/home/dev/exercises/hello-world", info.ProjectPath)
	assert.True(t, info.GDBServer)
	assert.Equal(t, createdAt, info.CreatedAt)
}

// TestBuildSimulationLabels_Constants verifies the management and kind
// labels, which prune/ps rely on for server-side filtering.
func TestBuildSimulationLabels_Constants(t *testing.T) {
	labels := BuildSimulationLabels("/tmp/proj", false, time.Now())

	assert.Equal(t, ManagedByValue, labels[LabelManagedBy])
	assert.Equal(t, KindSimulation, labels[LabelKind])
	assert.Equal(t, "false", labels[LabelGDB])
}

// TestParseSimulationLabels_Missing verifies that missing labels are
// reported all at once, naming each absent key.
func TestParseSimulationLabels_Missing(t *testing.T) {
	// Arrange: only the managed-by label is present.
	labels := map[string]string{
		LabelManagedBy: ManagedByValue,
	}

	_, err := ParseSimulationLabels(labels)

	require.Error(t, err)
	assert.Contains(t, err.Error(), LabelProject)
	assert.Contains(t, err.Error(), LabelKind)
	assert.Contains(t, err.Error(), LabelGDB)
	assert.Contains(t, err.Error(), LabelCreatedAt)
}

// TestParseSimulationLabels_WrongManager verifies that containers labeled
// by some other tool are rejected even if all keys happen to be present.
func TestParseSimulationLabels_WrongManager(t *testing.T) {
	labels := map[string]string{
		LabelManagedBy: "someone-else",
		LabelProject:   "/tmp/proj",
		LabelKind:      KindSimulation,
		LabelGDB:       "false",
		LabelCreatedAt: "2026-08-25T14:30:00Z",
	}

	_, err := ParseSimulationLabels(labels)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "someone-else")
}

// TestParseSimulationLabels_BadTimestamp verifies that a mangled
// created-at label is a parse error, not silently zeroed.
func TestParseSimulationLabels_BadTimestamp(t *testing.T) {
	labels := map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelProject:   "/tmp/proj",
		LabelKind:      KindSimulation,
		LabelGDB:       "true",
		LabelCreatedAt: "yesterday",
	}

	_, err := ParseSimulationLabels(labels)
	require.Error(t, err)
	assert.Contains(t, err.Error(), LabelCreatedAt)
}

// TestLabelArgs verifies --label argument generation, including the
// deterministic (sorted) ordering that keeps command lines stable.
func TestLabelArgs(t *testing.T) {
	args := LabelArgs(map[string]string{
		"anvil.kind":       "simulation",
		"anvil.managed-by": "anvil",
	})

	assert.Equal(t, []string{
		"--label", "anvil.kind=simulation",
		"--label", "anvil.managed-by=anvil",
	}, args)
}

// TestLabelArgs_Empty verifies that an empty label map produces no args.
func TestLabelArgs_Empty(t *testing.T) {
	assert.Empty(t, LabelArgs(nil))
	assert.Empty(t, LabelArgs(map[string]string{}))
}

package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-labs/anvil/internal/model"
)

// TestMatchSimulation covers container resolution by ID prefix and by
// name: unique prefixes and exact names resolve, ambiguous prefixes are
// refused, and misses report the not-found exit code.
func TestMatchSimulation(t *testing.T) {
	sims := []model.SimulationInfo{
		{
			ContainerID:   "aabb000011112222333344445555666677778888999900001111222233334444",
			ContainerName: "upbeat_hopper",
		},
		{
			ContainerID:   "aacc000011112222333344445555666677778888999900001111222233334444",
			ContainerName: "sad_meitner",
		},
	}

	// A prefix long enough to be unique resolves to its container.
	got, err := matchSimulation(sims, "aabb")
	require.NoError(t, err)
	assert.Equal(t, "upbeat_hopper", got.ContainerName)

	// An exact container name resolves too.
	got, err = matchSimulation(sims, "sad_meitner")
	require.NoError(t, err)
	assert.Equal(t, "sad_meitner", got.ContainerName)
}

// TestMatchSimulation_AmbiguousPrefix verifies that a prefix matching
// more than one container is an error naming the candidates, instead of
// silently picking one.
func TestMatchSimulation_AmbiguousPrefix(t *testing.T) {
	sims := []model.SimulationInfo{
		{ContainerID: "aabb000011112222333344445555666677778888999900001111222233334444"},
		{ContainerID: "aacc000011112222333344445555666677778888999900001111222233334444"},
	}

	_, err := matchSimulation(sims, "aa")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitGeneralError, cliErr.Code)
	assert.Contains(t, err.Error(), "ambiguous")
	assert.Contains(t, err.Error(), "aabb000011112222")
	assert.Contains(t, err.Error(), "aacc000011112222")
}

// TestMatchSimulation_NotFound verifies the stale-ID case carries the
// container-not-found exit code.
func TestMatchSimulation_NotFound(t *testing.T) {
	sims := []model.SimulationInfo{
		{ContainerID: "aabb000011112222333344445555666677778888999900001111222233334444"},
	}

	_, err := matchSimulation(sims, "ffff")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitContainerNotFound, cliErr.Code)
}

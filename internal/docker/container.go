// container.go implements discovery and lifecycle operations for the
// simulation containers anvil manages: listing, lookup by ID prefix,
// image pulls, and pruning.
//
// All managed containers carry the "anvil.managed-by" label, which lets
// us filter them server-side from unrelated containers on the same host.
package docker

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/moby/term"

	"github.com/anvil-labs/anvil/internal/model"
)

// ListSimulations queries the Docker daemon for all containers carrying
// the "anvil.managed-by=anvil" label and converts them to SimulationInfo.
// Stopped containers are included: a simulation that exited but was not
// started with --rm (the detached gdbserver case) still needs to show up
// in `anvil ps` and be collectable by `anvil prune`.
//
// Containers whose labels fail to parse are skipped rather than failing
// the whole listing; callers that care can log the skips.
func ListSimulations(ctx context.Context, cli *Client) ([]model.SimulationInfo, error) {
	// Server-side label filter: cheaper than listing everything and
	// filtering in Go.
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
	)

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker containers",
			err,
		)
	}

	result := make([]model.SimulationInfo, 0, len(containers))
	for _, c := range containers {
		info, err := containerToInfo(c)
		if err != nil {
			// A container with mangled labels should not break discovery
			// of the healthy ones.
			continue
		}
		result = append(result, *info)
	}

	return result, nil
}

// containerToInfo converts a Docker API Container struct to a
// SimulationInfo, combining label-derived fields with runtime state.
//
// The Docker API returns container names with a leading "/" prefix
// (e.g., "/anvil-sim-1234"), which we strip for cleaner CLI output.
func containerToInfo(c types.Container) (*model.SimulationInfo, error) {
	info, err := ParseSimulationLabels(c.Labels)
	if err != nil {
		return nil, err
	}

	info.ContainerID = c.ID
	info.Status = c.State

	if len(c.Names) > 0 {
		info.ContainerName = strings.TrimPrefix(c.Names[0], "/")
	}

	return info, nil
}

// FindSimulation locates a managed simulation container by ID prefix or
// container name. The idOrName argument is typically the 16-character
// short ID printed by `anvil run -s`.
//
// Returns a CLIError with ExitContainerNotFound if nothing matches, so
// the debug command can report a precise exit code when the user pastes
// a stale container ID.
func FindSimulation(ctx context.Context, cli *Client, idOrName string) (*model.SimulationInfo, error) {
	sims, err := ListSimulations(ctx, cli)
	if err != nil {
		return nil, err
	}
	return matchSimulation(sims, idOrName)
}

// matchSimulation resolves idOrName against the listed simulations by ID
// prefix or exact container name. Ambiguous prefixes are refused rather
// than resolved to an arbitrary container, matching docker's own
// behavior for short IDs.
func matchSimulation(sims []model.SimulationInfo, idOrName string) (*model.SimulationInfo, error) {
	var matches []*model.SimulationInfo
	for i := range sims {
		if strings.HasPrefix(sims[i].ContainerID, idOrName) || sims[i].ContainerName == idOrName {
			matches = append(matches, &sims[i])
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, model.NewCLIError(
			model.ExitContainerNotFound,
			fmt.Sprintf("no anvil simulation container matches %q — it may have exited; run `anvil ps` to see live simulations", idOrName),
		)
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ShortID())
	}
	return nil, model.NewCLIError(
		model.ExitGeneralError,
		fmt.Sprintf("container reference %q is ambiguous: it matches %s", idOrName, strings.Join(ids, ", ")),
	)
}

// Prune removes all anvil-managed containers, running or not, and returns
// the IDs of the containers that were removed.
//
// Force-removal is used so that a wedged QEMU process cannot block cleanup:
// Docker kills the container first, then removes it. Removal failures on
// individual containers are collected rather than aborting the sweep, so
// one stuck container does not strand the rest.
func Prune(ctx context.Context, cli *Client) ([]string, error) {
	sims, err := ListSimulations(ctx, cli)
	if err != nil {
		return nil, err
	}

	removed := make([]string, 0, len(sims))
	var failures []string
	for _, sim := range sims {
		err := cli.Inner().ContainerRemove(ctx, sim.ContainerID, container.RemoveOptions{
			Force: true,
		})
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", sim.ShortID(), err))
			continue
		}
		removed = append(removed, sim.ContainerID)
	}

	if len(failures) > 0 {
		return removed, model.NewCLIError(
			model.ExitGeneralError,
			fmt.Sprintf("failed to remove %d container(s): %s", len(failures), strings.Join(failures, "; ")),
		)
	}

	return removed, nil
}

// Pull downloads the backend image via the Docker SDK and renders the
// daemon's JSON progress stream to out. When out is a terminal the
// familiar layer-by-layer progress bars are shown, exactly as
// `docker pull` would.
func Pull(ctx context.Context, cli *Client, imageRepo, tag string, out *os.File) error {
	ref := imageRepo + ":" + tag

	reader, err := cli.Inner().ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to pull image %q", ref),
			err,
		)
	}
	defer func() { _ = reader.Close() }()

	// The pull endpoint streams JSON progress messages. jsonmessage turns
	// them into the interactive progress display when attached to a TTY,
	// or plain line output otherwise.
	fd, isTerm := term.GetFdInfo(out)
	if err := jsonmessage.DisplayJSONMessagesStream(reader, out, fd, isTerm, nil); err != nil {
		return model.WrapCLIError(
			model.ExitGeneralError,
			fmt.Sprintf("image pull for %q did not complete", ref),
			err,
		)
	}

	return nil
}

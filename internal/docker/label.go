package docker

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/anvil-labs/anvil/internal/model"
)

// Label key constants define the Docker label keys stamped onto every
// simulation container anvil starts. The labels are the sole persistence
// mechanism: ps and prune reconstruct everything they display from them,
// and there is no external state file.
//
// All keys share the "anvil." prefix to namespace them away from labels
// set by other tools.
const (
	// LabelPrefix is the common prefix for all anvil labels.
	LabelPrefix = "anvil."

	// LabelManagedBy identifies containers managed by anvil. This is the
	// primary label used for filtering and discovery.
	// Key: "anvil.managed-by", Value: always "anvil".
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelProject stores the absolute host path of the project the
	// simulation was started from.
	LabelProject = LabelPrefix + "project"

	// LabelKind stores what the container is doing. Currently the only
	// labeled kind is "simulation"; one-shot make containers are started
	// with --rm and never need discovery.
	LabelKind = LabelPrefix + "kind"

	// LabelGDB records whether the simulation was started with a GDB
	// server ("true"/"false"). The debug command uses it to warn when
	// attaching to a simulation that has no gdbserver listening.
	LabelGDB = LabelPrefix + "gdb"

	// LabelCreatedAt stores the RFC3339 timestamp of simulation start.
	LabelCreatedAt = LabelPrefix + "created-at"
)

// ManagedByValue is the constant value for the LabelManagedBy label.
const ManagedByValue = "anvil"

// KindSimulation is the LabelKind value for QEMU simulation containers.
const KindSimulation = "simulation"

// BuildSimulationLabels constructs the Docker label map applied to a
// simulation container. The full simulation record can be reconstructed
// from container inspection alone.
func BuildSimulationLabels(projectPath string, gdb bool, createdAt time.Time) map[string]string {
	return map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelProject:   projectPath,
		LabelKind:      KindSimulation,
		LabelGDB:       strconv.FormatBool(gdb),
		// UTC keeps timestamps consistent regardless of host timezone.
		LabelCreatedAt: createdAt.UTC().Format(time.RFC3339),
	}
}

// LabelArgs converts a label map into "--label k=v" docker CLI arguments,
// sorted by key so the produced command line is deterministic.
func LabelArgs(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(labels)*2)
	for _, k := range keys {
		args = append(args, "--label", k+"="+labels[k])
	}
	return args
}

// ParseSimulationLabels reconstructs the anvil-specific fields of a
// SimulationInfo from Docker container labels. This is the inverse of
// BuildSimulationLabels.
//
// Required labels: managed-by, project, kind, gdb, created-at. Missing
// required labels cause an error listing everything that is absent, which
// makes mislabeled containers easy to diagnose with `docker inspect`.
//
// ContainerID, ContainerName and Status are not populated here — they come
// from Docker container state, not from labels.
func ParseSimulationLabels(labels map[string]string) (*model.SimulationInfo, error) {
	requiredKeys := []string{
		LabelManagedBy,
		LabelProject,
		LabelKind,
		LabelGDB,
		LabelCreatedAt,
	}

	var missing []string
	for _, key := range requiredKeys {
		if _, ok := labels[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required Docker labels: %s", strings.Join(missing, ", "))
	}

	if labels[LabelManagedBy] != ManagedByValue {
		return nil, fmt.Errorf(
			"label %s has unexpected value %q (expected %q)",
			LabelManagedBy, labels[LabelManagedBy], ManagedByValue,
		)
	}

	if labels[LabelKind] != KindSimulation {
		return nil, fmt.Errorf(
			"label %s has unexpected value %q (expected %q)",
			LabelKind, labels[LabelKind], KindSimulation,
		)
	}

	gdb, err := strconv.ParseBool(labels[LabelGDB])
	if err != nil {
		return nil, fmt.Errorf("invalid label %s: %w", LabelGDB, err)
	}

	createdAt, err := time.Parse(time.RFC3339, labels[LabelCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("invalid label %s: %w", LabelCreatedAt, err)
	}

	return &model.SimulationInfo{
		ProjectPath: labels[LabelProject],
		GDBServer:   gdb,
		CreatedAt:   createdAt,
		Labels:      labels,
	}, nil
}

// prune.go implements the "anvil prune" command.
//
// Simulations started with -s run without --rm so that a debugger can be
// attached after QEMU exits at a breakpoint, which means their containers
// outlive the session. Prune sweeps them all away.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anvil-labs/anvil/internal/docker"
)

// NewPruneCommand creates the "prune" cobra command.
func NewPruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove all anvil simulation containers",
		Long: `Force-remove every simulation container anvil has started, running or
not. Only containers carrying anvil's management labels are touched;
unrelated containers on the same host are left alone.

Examples:
  anvil prune
  anvil prune --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd.Context())
		},
	}

	return cmd
}

// runPrune removes all managed simulation containers and reports what
// was removed.
func runPrune(ctx context.Context) error {
	userCfg, err := loadUserConfig()
	if err != nil {
		return err
	}

	cli, err := connectDocker(ctx, userCfg)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	removed, err := docker.Prune(ctx, cli)

	// Report partial progress even when some removals failed; the error
	// still propagates so the exit code reflects the failure.
	printPruneResult(removed)
	return err
}

// printPruneResult outputs the removed container IDs in text or JSON
// format.
func printPruneResult(removed []string) {
	if IsJSONOutput() {
		type resultJSON struct {
			Removed []string `json:"removed"`
			Count   int      `json:"count"`
		}
		result := resultJSON{Removed: make([]string, 0, len(removed)), Count: len(removed)}
		result.Removed = append(result.Removed, removed...)

		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	if len(removed) == 0 {
		fmt.Println("No simulation containers to remove.")
		return
	}
	for _, id := range removed {
		// Match docker's own prune output: one ID per line.
		fmt.Println(id)
	}
	fmt.Printf("Removed %d container(s)\n", len(removed))
}

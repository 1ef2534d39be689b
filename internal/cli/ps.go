// ps.go implements the "anvil ps" command.
//
// It lists the simulation containers anvil manages by querying Docker
// for containers with the "anvil.managed-by=anvil" label, and presents
// them as a text table or JSON array depending on the --json flag.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anvil-labs/anvil/internal/docker"
	"github.com/anvil-labs/anvil/internal/model"
)

// NewPsCommand creates the "ps" cobra command.
func NewPsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ps",
		Short: "List anvil simulation containers",
		Long: `List the simulation containers anvil has started, including stopped
ones that have not been pruned yet.

Examples:
  anvil ps
  anvil ps --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPs(cmd.Context())
		},
	}

	return cmd
}

// runPs connects to Docker, discovers managed simulations, and outputs
// them in the appropriate format.
func runPs(ctx context.Context) error {
	userCfg, err := loadUserConfig()
	if err != nil {
		return err
	}

	cli, err := connectDocker(ctx, userCfg)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	sims, err := docker.ListSimulations(ctx, cli)
	if err != nil {
		return err
	}
	VerboseLog("found %d simulation container(s)", len(sims))

	// Newest first, matching `docker ps` ordering.
	sort.Slice(sims, func(i, j int) bool {
		return sims[i].CreatedAt.After(sims[j].CreatedAt)
	})

	if IsJSONOutput() {
		printPsJSON(sims)
	} else {
		fmt.Print(formatPsTable(sims))
	}
	return nil
}

// printPsJSON outputs the simulations as structured JSON under a
// top-level "simulations" key.
func printPsJSON(sims []model.SimulationInfo) {
	type resultJSON struct {
		Simulations []model.SimulationInfo `json:"simulations"`
	}

	// An empty slice serializes as [] rather than null.
	result := resultJSON{Simulations: make([]model.SimulationInfo, 0, len(sims))}
	result.Simulations = append(result.Simulations, sims...)

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
}

// formatPsTable renders the simulations as a text table with aligned
// columns:
//
//	CONTAINER         NAME            STATUS    GDB  PROJECT
//	1a2b3c4d5e6f7a8b  upbeat_hopper   running   yes  /home/user/boot-flow
func formatPsTable(sims []model.SimulationInfo) string {
	if len(sims) == 0 {
		return "No simulation containers found.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-17s %-15s %-9s %-4s %-20s %s\n",
		"CONTAINER", "NAME", "STATUS", "GDB", "CREATED", "PROJECT")

	for _, sim := range sims {
		gdb := "no"
		if sim.GDBServer {
			gdb = "yes"
		}
		fmt.Fprintf(&b, "%-17s %-15s %-9s %-4s %-20s %s\n",
			sim.ShortID(),
			sim.ContainerName,
			sim.Status,
			gdb,
			sim.CreatedAt.Local().Format(time.DateTime),
			sim.ProjectPath)
	}
	return b.String()
}

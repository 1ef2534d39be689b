// debug.go implements the "anvil debug" command.
//
// It starts LLDB inside an existing simulation container and connects it
// to the QEMU gdbserver, so the debugger sees the same filesystem and
// the same ELF the simulation booted from.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anvil-labs/anvil/internal/console"
	"github.com/anvil-labs/anvil/internal/docker"
	"github.com/anvil-labs/anvil/internal/model"
)

// lldbArgv is the debugger invocation run inside the simulation
// container. -Q suppresses the startup banner, and the one-line command
// connects to QEMU's gdbserver before handing the prompt to the user.
var lldbArgv = []string{
	"lldb",
	"-Q",
	"--one-line", fmt.Sprintf("gdb-remote localhost:%d", gdbServerPort),
	"build/out.elf",
}

// NewDebugCommand creates the "debug" cobra command.
func NewDebugCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug <container>",
		Short: "Attach LLDB to a running simulation",
		Long: `Start LLDB inside the given simulation container and connect it to the
QEMU GDB server. The container argument is the ID printed by
` + "`anvil run -s`" + ` (any unambiguous prefix works) or the container name
shown by ` + "`anvil ps`" + `.

The LLDB session runs interactively on your terminal; quitting LLDB
leaves the simulation container running.

Examples:
  anvil debug 1a2b3c4d5e6f7a8b
  anvil debug upbeat_hopper`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDebug(cmd.Context(), args[0])
		},
	}

	return cmd
}

// runDebug locates the simulation container and execs LLDB into it.
func runDebug(ctx context.Context, idOrName string) error {
	userCfg, err := loadUserConfig()
	if err != nil {
		return err
	}

	cli, err := connectDocker(ctx, userCfg)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	sim, err := docker.FindSimulation(ctx, cli, idOrName)
	if err != nil {
		return err
	}

	if !sim.GDBServer {
		// LLDB would just fail to connect; warn but proceed, since the
		// user may have started the gdbserver by other means.
		fmt.Fprintln(os.Stderr, console.Warn("this simulation was started without -s; there may be no GDB server to connect to"))
	}

	VerboseLog("attaching LLDB to container %s", sim.ShortID())
	status, err := console.RunInteractive(docker.ExecCommand(sim.ContainerID, lldbArgv))
	if err != nil {
		return model.WrapCLIError(
			model.ExitGeneralError,
			"failed to start LLDB in the simulation container",
			err,
		)
	}
	if status != 0 {
		return model.NewExitStatusError(status)
	}
	return nil
}

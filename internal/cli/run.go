// run.go implements the "anvil run" command.
//
// It rebuilds the project, then boots the built ELF on an emulated
// Raspberry Pi 3b under QEMU inside the backend container. Without -s
// the simulation runs in the foreground on the user's terminal; with -s
// it starts detached and paused, waiting for a debugger.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/anvil-labs/anvil/internal/console"
	"github.com/anvil-labs/anvil/internal/docker"
	"github.com/anvil-labs/anvil/internal/model"
	"github.com/anvil-labs/anvil/internal/port"
	"github.com/anvil-labs/anvil/internal/project"
)

// gdbServerPort is the fixed port the QEMU gdbserver listens on inside
// the simulation container (QEMU's -s shorthand).
const gdbServerPort = 1234

// runFlags holds the flag values for the run command.
type runFlags struct {
	project    string // -p: project directory
	image      string // -i: backend image override
	tag        string // -t: backend tag override
	gdb        bool   // -s: start paused with a GDB server
	publishGDB int    // --publish-gdb: expose the gdbserver on a host port
}

// NewRunCommand creates the "run" cobra command.
func NewRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build and run the project under QEMU",
		Long: `Rebuild the project and boot build/out.elf on an emulated Raspberry
Pi 3b (qemu-system-aarch64 -M raspi3b) inside the backend container.

Without -s the simulation runs in the foreground; quit it with Ctrl-a x.

With -s the container starts detached with QEMU paused and a GDB server
listening. Attach a debugger with:

  anvil debug <container>

or point a host-side debugger at the port given to --publish-gdb.

Examples:
  anvil run
  anvil run -s
  anvil run -s --publish-gdb 1234`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.project, "project", "p", ".", "Project directory")
	cmd.Flags().StringVarP(&flags.image, "image", "i", "", "Backend image repository (default from user config)")
	cmd.Flags().StringVarP(&flags.tag, "tag", "t", "", "Backend image tag (default from user config)")
	cmd.Flags().BoolVarP(&flags.gdb, "gdb", "s", false, "Start paused with a GDB server listening")
	cmd.Flags().IntVar(&flags.publishGDB, "publish-gdb", 0, "Publish the GDB server on this host port (requires -s)")

	return cmd
}

// runRun rebuilds the project and starts the simulation.
func runRun(ctx context.Context, flags *runFlags) error {
	if flags.publishGDB != 0 && !flags.gdb {
		return model.NewCLIError(
			model.ExitGeneralError,
			"--publish-gdb requires -s: there is no GDB server to publish otherwise",
		)
	}
	if flags.publishGDB < 0 || flags.publishGDB > 65535 {
		return model.NewCLIError(
			model.ExitGeneralError,
			fmt.Sprintf("invalid --publish-gdb port %d", flags.publishGDB),
		)
	}

	projectDir, err := project.ResolveDir(flags.project)
	if err != nil {
		return model.WrapCLIError(model.ExitProjectConfig, "cannot use project directory", err)
	}

	projCfg, err := project.Load(projectDir)
	if err != nil {
		VerboseLog("no usable %s: %v", project.ConfigFileName, err)
	}

	// Projects that build libraries or snippets rather than bootable
	// images declare "supports-run": false. Refusing early beats a QEMU
	// hang on an ELF with no useful entry point.
	switch projCfg.RunSupport() {
	case project.RunSupportNo:
		return model.NewCLIError(
			model.ExitProjectConfig,
			"this project declares that it does not support running under QEMU",
		)
	case project.RunSupportUnknown:
		fmt.Fprintln(os.Stderr, console.Warn("project does not declare run support; the simulation may not boot"))
	}

	userCfg, err := loadUserConfig()
	if err != nil {
		return err
	}
	image, tag := userCfg.ResolveImage(flags.image, flags.tag)

	// Always rebuild so the simulation matches the current sources.
	status, err := invokeMake(ctx, image, tag, projectDir, model.TargetRebuild, projCfg.DefaultOptimize(), false)
	if err != nil {
		return err
	}
	if status != 0 {
		return model.NewExitStatusError(status)
	}

	qemu := []string{
		"qemu-system-aarch64",
		"-M", "raspi3b",
		"-nographic",
		"-kernel", "build/out.elf",
	}

	opts := &docker.RunOptions{
		Image:       image,
		Tag:         tag,
		Project:     projectDir,
		Command:     qemu,
		Labels:      docker.BuildSimulationLabels(projectDir, flags.gdb, time.Now()),
		Interactive: true,
	}

	if !flags.gdb {
		opts.AutoRemove = true
		fmt.Println(console.InfoPanel("Starting simulation; quit QEMU with Ctrl-a x."))

		VerboseLog("running: %s", opts.CommandLine())
		status, err := docker.RunOneShot(ctx, opts)
		if err != nil {
			return err
		}
		if status != 0 {
			return model.NewExitStatusError(status)
		}
		return nil
	}

	// -s -S: gdbserver on :1234, CPU paused at the first instruction.
	opts.Command = append(opts.Command, "-s", "-S")

	if flags.publishGDB != 0 {
		scanner := port.NewScanner()
		if !scanner.IsAvailable(flags.publishGDB) {
			msg := fmt.Sprintf("host port %d is already in use", flags.publishGDB)
			if free, err := scanner.FindAvailable(flags.publishGDB+1, flags.publishGDB+100); err == nil {
				msg += fmt.Sprintf(" (port %d is free)", free)
			}
			return model.NewCLIError(model.ExitGeneralError, msg)
		}
		opts.PublishPorts = []string{fmt.Sprintf("%d:%d", flags.publishGDB, gdbServerPort)}
	}

	VerboseLog("running detached: %s", opts.CommandLine())
	containerID, err := docker.RunDetached(ctx, opts)
	if err != nil {
		return err
	}

	info := model.SimulationInfo{ContainerID: containerID}
	blocks := []string{
		fmt.Sprintf("Simulation started paused in container %s.\nQEMU is waiting for a debugger before executing the first instruction.", info.ShortID()),
		console.CommandPanel("anvil debug " + info.ShortID()),
		"Quit QEMU with Ctrl-a x once attached.",
	}
	if flags.publishGDB != 0 {
		blocks = append(blocks, fmt.Sprintf("GDB server published on host port %d.", flags.publishGDB))
	}
	fmt.Println(console.InfoPanel(blocks...))

	// Attach so the user sees the simulation's UART output while the
	// debugger drives it from another window.
	exitStatus, err := console.RunInteractive(docker.AttachCommand(containerID))
	if err != nil {
		return model.WrapCLIError(
			model.ExitSimulationFailed,
			"failed to attach to the simulation container",
			err,
		)
	}
	if exitStatus != 0 {
		return model.NewExitStatusError(exitStatus)
	}
	return nil
}

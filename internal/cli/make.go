// make.go implements the "anvil make" command.
//
// It runs one make target inside a throwaway backend container with the
// project directory bind-mounted at /work, and exits with the make
// process's own status.
package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/anvil-labs/anvil/internal/docker"
	"github.com/anvil-labs/anvil/internal/model"
	"github.com/anvil-labs/anvil/internal/project"
)

// makeFlags holds the flag values for the make command.
type makeFlags struct {
	project    string // -p: project directory
	image      string // -i: backend image override
	tag        string // -t: backend tag override
	optimize   int    // -O: optimization level override (-1 = not set)
	interleave bool   // -S: interleave source with disassembly (dis only)
}

// NewMakeCommand creates the "make" cobra command.
func NewMakeCommand() *cobra.Command {
	flags := &makeFlags{}

	cmd := &cobra.Command{
		Use:   "make [target]",
		Short: "Build the project inside the backend container",
		Long: `Run a Makefile target in a one-shot backend container with the project
directory mounted at /work.

Valid targets:
  all      build the project ELF (default)
  clean    remove the build directory
  rebuild  clean then all
  dis      disassemble the built ELF (-S interleaves source)
  syms     dump the symbol table
  sects    dump the section headers

The exit status of make is passed through verbatim, so compile errors
surface to scripts and CI exactly as a native make would.

Examples:
  anvil make
  anvil make -O2 rebuild
  anvil make -S dis
  anvil make -p ~/exercises/boot-flow syms`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			targetArg := model.TargetAll.String()
			if len(args) == 1 {
				targetArg = args[0]
			}
			return runMake(cmd.Context(), targetArg, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.project, "project", "p", ".", "Project directory")
	cmd.Flags().StringVarP(&flags.image, "image", "i", "", "Backend image repository (default from user config)")
	cmd.Flags().StringVarP(&flags.tag, "tag", "t", "", "Backend image tag (default from user config)")
	cmd.Flags().IntVarP(&flags.optimize, "optimize", "O", -1, "Optimization level 0-3 (default from anvil.json, else 1)")
	cmd.Flags().BoolVarP(&flags.interleave, "interleave", "S", false, "Interleave source with disassembly (dis target only)")

	return cmd
}

// runMake validates the target and flags, resolves the project, and
// delegates to invokeMake.
func runMake(ctx context.Context, targetArg string, flags *makeFlags) error {
	target, err := model.ParseMakeTarget(targetArg)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid make invocation", err)
	}

	if flags.interleave && !target.SupportsInterleave() {
		return model.NewCLIError(
			model.ExitGeneralError,
			"-S/--interleave only applies to the dis target",
		)
	}

	if flags.optimize >= 0 {
		if err := model.ValidateOptLevel(flags.optimize); err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "invalid make invocation", err)
		}
	}

	projectDir, err := project.ResolveDir(flags.project)
	if err != nil {
		return model.WrapCLIError(model.ExitProjectConfig, "cannot use project directory", err)
	}

	optimize := flags.optimize
	if optimize < 0 {
		projCfg, err := project.Load(projectDir)
		if err != nil {
			// Missing metadata is the common case for early exercises.
			VerboseLog("no usable %s: %v", project.ConfigFileName, err)
		}
		optimize = projCfg.DefaultOptimize()
	}

	userCfg, err := loadUserConfig()
	if err != nil {
		return err
	}
	image, tag := userCfg.ResolveImage(flags.image, flags.tag)

	status, err := invokeMake(ctx, image, tag, projectDir, target, optimize, flags.interleave)
	if err != nil {
		return err
	}
	if status != 0 {
		return model.NewExitStatusError(status)
	}
	return nil
}

// invokeMake runs one make target in a fresh --rm backend container and
// returns make's exit status. Shared with the run command, which always
// rebuilds before booting QEMU.
func invokeMake(ctx context.Context, image, tag, projectDir string, target model.MakeTarget, optimize int, interleave bool) (int, error) {
	env := map[string]string{
		"OPTIMIZE": strconv.Itoa(optimize),
	}
	if interleave {
		env["INTERLEAVE"] = "1"
	}

	opts := &docker.RunOptions{
		Image:      image,
		Tag:        tag,
		Project:    projectDir,
		Command:    []string{"make", target.String()},
		Env:        env,
		AutoRemove: true,
	}

	VerboseLog("running: %s", opts.CommandLine())
	return docker.RunOneShot(ctx, opts)
}
